package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adrianbarna/edusphere-backend-sub000/internal/billing/proration"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/config"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/enums"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the billing query facade. The child-scoped reads run the
// allocation engine and persist its outcome; the parent-scoped reads return
// charges as stored. That asymmetry is intentional and covered by tests.
type Service struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.BillingMetrics
	loc     *time.Location
	dueDay  int
	now     func() time.Time
}

// NewService builds the billing facade.
func NewService(repo Repository, tx txRunner, billingMetrics *metrics.BillingMetrics, cfg config.BillingConfig) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("billing repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("billing timezone: %w", err)
	}
	return &Service{
		repo:    repo,
		tx:      tx,
		metrics: billingMetrics,
		loc:     loc,
		dueDay:  cfg.DueDay,
		now:     time.Now,
	}, nil
}

// ChildChargesForMonth returns the child's invoices issued in the month with
// absence credits applied. Every credit it reports has already been written
// back: adjusted amounts and period consumption commit in one transaction
// before the views are built.
func (s *Service) ChildChargesForMonth(ctx context.Context, orgID, childID uuid.UUID, month string) ([]ChargeView, error) {
	child, from, to, err := s.resolveChild(ctx, orgID, childID, month)
	if err != nil {
		return nil, err
	}

	invoices, err := s.repo.ListInvoicesForMonth(ctx, childID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invoices")
	}

	charges := make([]*proration.Charge, len(invoices))
	for i := range invoices {
		charges[i] = &proration.Charge{
			ID:           invoices[i].ID,
			BaseBani:     invoices[i].BaseBani,
			AdjustedBani: invoices[i].AdjustedBani,
		}
	}

	if err := s.allocate(ctx, enums.ChargeKindInvoice, child, charges, func(repo Repository, i int, adjusted int64) error {
		invoices[i].AdjustedBani = adjusted
		return repo.SaveInvoice(ctx, &invoices[i])
	}); err != nil {
		return nil, err
	}

	views := make([]ChargeView, len(invoices))
	for i := range invoices {
		views[i] = invoiceView(invoices[i], creditViews(charges[i].Applied))
	}
	return views, nil
}

// ChildPaymentsForMonth is the payment-side twin of ChildChargesForMonth.
func (s *Service) ChildPaymentsForMonth(ctx context.Context, orgID, childID uuid.UUID, month string) ([]ChargeView, error) {
	child, from, to, err := s.resolveChild(ctx, orgID, childID, month)
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.ListPaymentsForMonth(ctx, childID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}

	charges := make([]*proration.Charge, len(payments))
	for i := range payments {
		charges[i] = &proration.Charge{
			ID:           payments[i].ID,
			BaseBani:     payments[i].BaseBani,
			AdjustedBani: payments[i].AdjustedBani,
		}
	}

	if err := s.allocate(ctx, enums.ChargeKindPayment, child, charges, func(repo Repository, i int, adjusted int64) error {
		payments[i].AdjustedBani = adjusted
		return repo.SavePayment(ctx, &payments[i])
	}); err != nil {
		return nil, err
	}

	views := make([]ChargeView, len(payments))
	for i := range payments {
		views[i] = paymentView(payments[i], creditViews(charges[i].Applied))
	}
	return views, nil
}

// ParentChargesForMonth lists the month's invoices across all of the
// parent's children, as stored. Absence credits are NOT applied on this
// path; only the child-scoped reads run the allocation engine.
func (s *Service) ParentChargesForMonth(ctx context.Context, orgID, parentID uuid.UUID, month string) ([]ChargeView, error) {
	childIDs, from, to, err := s.resolveParentChildren(ctx, orgID, parentID, month)
	if err != nil {
		return nil, err
	}

	invoices, err := s.repo.ListInvoicesForChildren(ctx, childIDs, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invoices")
	}

	views := make([]ChargeView, len(invoices))
	for i := range invoices {
		views[i] = invoiceView(invoices[i], nil)
	}
	return views, nil
}

// ParentPaymentsForMonth lists the month's payments across all of the
// parent's children, as stored.
func (s *Service) ParentPaymentsForMonth(ctx context.Context, orgID, parentID uuid.UUID, month string) ([]ChargeView, error) {
	childIDs, from, to, err := s.resolveParentChildren(ctx, orgID, parentID, month)
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.ListPaymentsForChildren(ctx, childIDs, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}

	views := make([]ChargeView, len(payments))
	for i := range payments {
		views[i] = paymentView(payments[i], nil)
	}
	return views, nil
}

// SetInvoicePaid marks an invoice paid or unpaid within the tenant.
func (s *Service) SetInvoicePaid(ctx context.Context, orgID, invoiceID uuid.UUID, paid bool) (*ChargeView, error) {
	if invoiceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice id required")
	}
	invoice, err := s.repo.FindInvoice(ctx, orgID, invoiceID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}
	if paid && invoice.Paid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invoice already paid")
	}

	invoice.Paid = paid
	if err := s.repo.SaveInvoice(ctx, invoice); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update invoice")
	}
	view := invoiceView(*invoice, nil)
	return &view, nil
}

// SetPaymentPaid marks a payment record paid or unpaid within the tenant.
func (s *Service) SetPaymentPaid(ctx context.Context, orgID, paymentID uuid.UUID, paid bool) (*ChargeView, error) {
	if paymentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}
	payment, err := s.repo.FindPayment(ctx, orgID, paymentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	if paid && payment.Paid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already paid")
	}

	payment.Paid = paid
	if err := s.repo.SavePayment(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment")
	}
	view := paymentView(*payment, nil)
	return &view, nil
}

// GenerateMonthlyInvoice issues the current month's invoice for a child at
// the configured monthly fee. The child+month unique index keeps the
// operation idempotent; a second call for the same month returns CONFLICT.
func (s *Service) GenerateMonthlyInvoice(ctx context.Context, orgID, childID uuid.UUID) (*ChargeView, error) {
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "organization context missing")
	}
	if childID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "child id required")
	}
	child, err := s.repo.FindChild(ctx, orgID, childID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "child not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load child")
	}

	invoice := s.buildMonthlyInvoice(child)
	if err := s.repo.CreateInvoice(ctx, invoice); err != nil {
		if db.IsUniqueViolation(err, "idx_invoices_child_month") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "invoice already generated for this month")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invoice")
	}
	view := invoiceView(*invoice, nil)
	return &view, nil
}

func (s *Service) buildMonthlyInvoice(child *models.Child) *models.Invoice {
	issueDate := proration.DateIn(s.now(), s.loc)
	dueDate := time.Date(issueDate.Year(), issueDate.Month(), s.dueDay, 0, 0, 0, 0, time.UTC)
	return &models.Invoice{
		OrganizationID: child.OrganizationID,
		ChildID:        child.ID,
		Month:          FormatMonth(issueDate),
		BaseBani:       child.MonthlyFeeBani,
		AdjustedBani:   child.MonthlyFeeBani,
		IssueDate:      issueDate,
		DueDate:        dueDate,
		PayType:        enums.PayTypeBankTransfer,
	}
}

func (s *Service) resolveChild(ctx context.Context, orgID, childID uuid.UUID, month string) (*models.Child, time.Time, time.Time, error) {
	if orgID == uuid.Nil {
		return nil, time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeForbidden, "organization context missing")
	}
	if childID == uuid.Nil {
		return nil, time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "child id required")
	}
	monthStart, err := ParseMonth(month, s.loc)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	child, err := s.repo.FindChild(ctx, orgID, childID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeNotFound, "child not found")
		}
		return nil, time.Time{}, time.Time{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load child")
	}
	from, to := MonthBounds(monthStart)
	return child, from.UTC(), to.UTC(), nil
}

func (s *Service) resolveParentChildren(ctx context.Context, orgID, parentID uuid.UUID, month string) ([]uuid.UUID, time.Time, time.Time, error) {
	if orgID == uuid.Nil {
		return nil, time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeForbidden, "organization context missing")
	}
	if parentID == uuid.Nil {
		return nil, time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "parent id required")
	}
	monthStart, err := ParseMonth(month, s.loc)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	children, err := s.repo.ListChildrenByParent(ctx, orgID, parentID)
	if err != nil {
		return nil, time.Time{}, time.Time{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list children")
	}
	ids := make([]uuid.UUID, len(children))
	for i := range children {
		ids[i] = children[i].ID
	}
	from, to := MonthBounds(monthStart)
	return ids, from.UTC(), to.UTC(), nil
}

// allocate runs the engine over the child's unconsumed absence periods and
// the supplied charges, then commits the adjusted amounts together with the
// period consumption markers in a single transaction.
func (s *Service) allocate(
	ctx context.Context,
	kind enums.ChargeKind,
	child *models.Child,
	charges []*proration.Charge,
	saveCharge func(repo Repository, i int, adjusted int64) error,
) error {
	if len(charges) == 0 {
		return nil
	}

	stored, err := s.repo.ListUnconsumedPeriods(ctx, child.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list absence periods")
	}

	periods := make([]*proration.Period, len(stored))
	for i := range stored {
		periods[i] = &proration.Period{
			ID:    stored[i].ID,
			Start: stored[i].StartDate,
			End:   stored[i].EndDate,
		}
	}

	proration.Allocate(charges, periods, child.MealPriceBani)

	owner := make(map[uuid.UUID]uuid.UUID)
	amounts := make(map[uuid.UUID]int64)
	var credited int64
	for _, charge := range charges {
		for _, applied := range charge.Applied {
			owner[applied.PeriodID] = charge.ID
			amounts[applied.PeriodID] = applied.AmountBani
			credited += applied.AmountBani
		}
	}
	if len(owner) == 0 {
		return nil
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for i, charge := range charges {
			if len(charge.Applied) == 0 {
				continue
			}
			if err := saveCharge(repo, i, charge.AdjustedBani); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist adjusted charge")
			}
		}
		consumedAt := s.now().UTC()
		for i := range stored {
			chargeID, ok := owner[stored[i].ID]
			if !ok {
				continue
			}
			period := &stored[i]
			period.Consumed = true
			period.ConsumedBani = amounts[period.ID]
			period.ConsumedChargeID = &chargeID
			chargeKind := kind
			period.ConsumedChargeKind = &chargeKind
			period.ConsumedAt = &consumedAt
			if err := repo.SavePeriod(ctx, period); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist consumed period")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.ObserveAllocation(string(kind), len(owner), credited)
	return nil
}

func creditViews(applied []proration.AppliedCredit) []AppliedCreditView {
	views := make([]AppliedCreditView, len(applied))
	for i, credit := range applied {
		views[i] = AppliedCreditView{
			PeriodID:   credit.PeriodID,
			StartDate:  credit.Start.Format(dateLayout),
			EndDate:    credit.End.Format(dateLayout),
			AmountBani: credit.AmountBani,
			Amount:     FormatBani(credit.AmountBani),
		}
	}
	return views
}
