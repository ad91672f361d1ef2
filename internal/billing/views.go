package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/enums"
)

const dateLayout = "2006-01-02"

// AppliedCreditView describes one absence credit consumed by a charge.
type AppliedCreditView struct {
	PeriodID   uuid.UUID `json:"period_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	AmountBani int64     `json:"amount_bani"`
	Amount     string    `json:"amount"`
}

// ChargeView is the API shape shared by invoices and payments. Amounts are
// carried both in bani and as fixed two-decimal strings.
type ChargeView struct {
	ID           uuid.UUID           `json:"id"`
	ChildID      uuid.UUID           `json:"child_id"`
	Kind         enums.ChargeKind    `json:"kind"`
	Month        string              `json:"month"`
	BaseBani     int64               `json:"base_bani"`
	Base         string              `json:"base"`
	AdjustedBani int64               `json:"adjusted_bani"`
	Adjusted     string              `json:"adjusted"`
	IssueDate    string              `json:"issue_date"`
	DueDate      string              `json:"due_date"`
	Paid         bool                `json:"paid"`
	PayType      enums.PayType       `json:"pay_type"`
	Credits      []AppliedCreditView `json:"credits"`
}

// FormatBani renders a bani amount as a two-decimal currency string.
func FormatBani(bani int64) string {
	return decimal.NewFromInt(bani).Div(decimal.NewFromInt(100)).StringFixed(2)
}

func invoiceView(inv models.Invoice, credits []AppliedCreditView) ChargeView {
	return chargeView(inv.ID, inv.ChildID, enums.ChargeKindInvoice, inv.Month,
		inv.BaseBani, inv.AdjustedBani, inv.IssueDate, inv.DueDate, inv.Paid, inv.PayType, credits)
}

func paymentView(pay models.Payment, credits []AppliedCreditView) ChargeView {
	return chargeView(pay.ID, pay.ChildID, enums.ChargeKindPayment, pay.Month,
		pay.BaseBani, pay.AdjustedBani, pay.IssueDate, pay.DueDate, pay.Paid, pay.PayType, credits)
}

func chargeView(
	id, childID uuid.UUID,
	kind enums.ChargeKind,
	month string,
	baseBani, adjustedBani int64,
	issueDate, dueDate time.Time,
	paid bool,
	payType enums.PayType,
	credits []AppliedCreditView,
) ChargeView {
	if credits == nil {
		credits = []AppliedCreditView{}
	}
	return ChargeView{
		ID:           id,
		ChildID:      childID,
		Kind:         kind,
		Month:        month,
		BaseBani:     baseBani,
		Base:         FormatBani(baseBani),
		AdjustedBani: adjustedBani,
		Adjusted:     FormatBani(adjustedBani),
		IssueDate:    issueDate.Format(dateLayout),
		DueDate:      dueDate.Format(dateLayout),
		Paid:         paid,
		PayType:      payType,
		Credits:      credits,
	}
}
