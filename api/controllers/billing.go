package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adrianbarna/edusphere-backend-sub000/api/responses"
	"github.com/adrianbarna/edusphere-backend-sub000/api/validators"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/billing"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/logger"
)

type billingService interface {
	ChildChargesForMonth(ctx context.Context, orgID, childID uuid.UUID, month string) ([]billing.ChargeView, error)
	ChildPaymentsForMonth(ctx context.Context, orgID, childID uuid.UUID, month string) ([]billing.ChargeView, error)
	ParentChargesForMonth(ctx context.Context, orgID, parentID uuid.UUID, month string) ([]billing.ChargeView, error)
	ParentPaymentsForMonth(ctx context.Context, orgID, parentID uuid.UUID, month string) ([]billing.ChargeView, error)
	SetInvoicePaid(ctx context.Context, orgID, invoiceID uuid.UUID, paid bool) (*billing.ChargeView, error)
	SetPaymentPaid(ctx context.Context, orgID, paymentID uuid.UUID, paid bool) (*billing.ChargeView, error)
	GenerateMonthlyInvoice(ctx context.Context, orgID, childID uuid.UUID) (*billing.ChargeView, error)
}

func monthFromRequest(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("month"))
}

type childMonthQuery func(ctx context.Context, orgID, childID uuid.UUID, month string) ([]billing.ChargeView, error)

func childBillingHandler(query childMonthQuery, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if query == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		childID, err := validators.ParsePathUUID(chi.URLParam(r, "childId"), "childId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := query(r.Context(), orgID, childID, monthFromRequest(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, views)
	}
}

// ChildCharges returns a child's invoices for a month with absence credits applied.
func ChildCharges(svc billingService, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return childBillingHandler(nil, logg)
	}
	return childBillingHandler(svc.ChildChargesForMonth, logg)
}

// ChildPayments returns a child's payments for a month with absence credits applied.
func ChildPayments(svc billingService, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return childBillingHandler(nil, logg)
	}
	return childBillingHandler(svc.ChildPaymentsForMonth, logg)
}

type parentMonthQuery func(ctx context.Context, orgID, parentID uuid.UUID, month string) ([]billing.ChargeView, error)

func parentBillingHandler(query parentMonthQuery, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if query == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		parentID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := query(r.Context(), orgID, parentID, monthFromRequest(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, views)
	}
}

// ParentCharges returns the stored invoices for all of the parent's children.
// It reads what is persisted and never triggers credit allocation.
func ParentCharges(svc billingService, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return parentBillingHandler(nil, logg)
	}
	return parentBillingHandler(svc.ParentChargesForMonth, logg)
}

// ParentPayments returns the stored payments for all of the parent's children.
func ParentPayments(svc billingService, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return parentBillingHandler(nil, logg)
	}
	return parentBillingHandler(svc.ParentPaymentsForMonth, logg)
}

type paidRequest struct {
	Paid bool `json:"paid"`
}

// InvoiceSetPaid flips an invoice's paid flag.
func InvoiceSetPaid(svc billingService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoiceID, err := validators.ParsePathUUID(chi.URLParam(r, "invoiceId"), "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body paidRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.SetInvoicePaid(r.Context(), orgID, invoiceID, body.Paid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// PaymentSetPaid flips a payment's paid flag.
func PaymentSetPaid(svc billingService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		paymentID, err := validators.ParsePathUUID(chi.URLParam(r, "paymentId"), "paymentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body paidRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.SetPaymentPaid(r.Context(), orgID, paymentID, body.Paid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// InvoiceGenerate creates the current month's invoice for a child.
func InvoiceGenerate(svc billingService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		childID, err := validators.ParsePathUUID(chi.URLParam(r, "childId"), "childId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GenerateMonthlyInvoice(r.Context(), orgID, childID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}
