package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adrianbarna/edusphere-backend-sub000/api/middleware"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/billing"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
)

type stubBillingService struct {
	childCharges  []billing.ChargeView
	parentCharges []billing.ChargeView
	paidView      *billing.ChargeView
	generated     *billing.ChargeView
	err           error

	gotChildID  uuid.UUID
	gotParentID uuid.UUID
	gotMonth    string
	gotPaid     bool
}

func (s *stubBillingService) ChildChargesForMonth(_ context.Context, _, childID uuid.UUID, month string) ([]billing.ChargeView, error) {
	s.gotChildID = childID
	s.gotMonth = month
	return s.childCharges, s.err
}

func (s *stubBillingService) ChildPaymentsForMonth(_ context.Context, _, childID uuid.UUID, month string) ([]billing.ChargeView, error) {
	s.gotChildID = childID
	s.gotMonth = month
	return s.childCharges, s.err
}

func (s *stubBillingService) ParentChargesForMonth(_ context.Context, _, parentID uuid.UUID, month string) ([]billing.ChargeView, error) {
	s.gotParentID = parentID
	s.gotMonth = month
	return s.parentCharges, s.err
}

func (s *stubBillingService) ParentPaymentsForMonth(_ context.Context, _, parentID uuid.UUID, month string) ([]billing.ChargeView, error) {
	s.gotParentID = parentID
	s.gotMonth = month
	return s.parentCharges, s.err
}

func (s *stubBillingService) SetInvoicePaid(_ context.Context, _, _ uuid.UUID, paid bool) (*billing.ChargeView, error) {
	s.gotPaid = paid
	return s.paidView, s.err
}

func (s *stubBillingService) SetPaymentPaid(_ context.Context, _, _ uuid.UUID, paid bool) (*billing.ChargeView, error) {
	s.gotPaid = paid
	return s.paidView, s.err
}

func (s *stubBillingService) GenerateMonthlyInvoice(_ context.Context, _, childID uuid.UUID) (*billing.ChargeView, error) {
	s.gotChildID = childID
	return s.generated, s.err
}

func authedRequest(method, target string, body []byte, orgID, userID uuid.UUID, params map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	ctx := middleware.WithOrgID(req.Context(), orgID.String())
	ctx = middleware.WithUserID(ctx, userID.String())

	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)

	return req.WithContext(ctx)
}

func TestChildChargesSuccess(t *testing.T) {
	childID := uuid.New()
	svc := &stubBillingService{childCharges: []billing.ChargeView{{
		ID:           uuid.New(),
		ChildID:      childID,
		Month:        "2026-03",
		BaseBani:     12000,
		AdjustedBani: 11750,
	}}}
	handler := ChildCharges(svc, nil)

	req := authedRequest(http.MethodGet, "/api/v1/billing/children/"+childID.String()+"/charges?month=2026-03", nil, uuid.New(), uuid.New(), map[string]string{"childId": childID.String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotChildID != childID {
		t.Fatalf("expected child %s got %s", childID, svc.gotChildID)
	}
	if svc.gotMonth != "2026-03" {
		t.Fatalf("expected month 2026-03 got %q", svc.gotMonth)
	}

	var envelope struct {
		Data []billing.ChargeView `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].AdjustedBani != 11750 {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestChildChargesMissingOrgContext(t *testing.T) {
	handler := ChildCharges(&stubBillingService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/billing/children/x/charges", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestChildChargesInvalidMonthPropagates(t *testing.T) {
	childID := uuid.New()
	svc := &stubBillingService{err: pkgerrors.New(pkgerrors.CodeValidation, "month must be formatted as YYYY-MM")}
	handler := ChildCharges(svc, nil)

	req := authedRequest(http.MethodGet, "/charges?month=bogus", nil, uuid.New(), uuid.New(), map[string]string{"childId": childID.String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestParentChargesUsesAuthenticatedUser(t *testing.T) {
	parentID := uuid.New()
	svc := &stubBillingService{parentCharges: []billing.ChargeView{}}
	handler := ParentCharges(svc, nil)

	req := authedRequest(http.MethodGet, "/api/v1/billing/my/charges?month=2026-03", nil, uuid.New(), parentID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotParentID != parentID {
		t.Fatalf("expected parent %s got %s", parentID, svc.gotParentID)
	}
}

func TestInvoiceSetPaid(t *testing.T) {
	invoiceID := uuid.New()
	view := &billing.ChargeView{ID: invoiceID, Paid: true}
	svc := &stubBillingService{paidView: view}
	handler := InvoiceSetPaid(svc, nil)

	req := authedRequest(http.MethodPost, "/paid", []byte(`{"paid":true}`), uuid.New(), uuid.New(), map[string]string{"invoiceId": invoiceID.String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if !svc.gotPaid {
		t.Fatal("expected paid=true to reach the service")
	}
}

func TestInvoiceSetPaidAlreadyPaid(t *testing.T) {
	svc := &stubBillingService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "invoice already paid")}
	handler := InvoiceSetPaid(svc, nil)

	req := authedRequest(http.MethodPost, "/paid", []byte(`{"paid":true}`), uuid.New(), uuid.New(), map[string]string{"invoiceId": uuid.New().String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}

func TestInvoiceGenerateConflict(t *testing.T) {
	svc := &stubBillingService{err: pkgerrors.New(pkgerrors.CodeConflict, "invoice already exists for month")}
	handler := InvoiceGenerate(svc, nil)

	req := authedRequest(http.MethodPost, "/invoices", nil, uuid.New(), uuid.New(), map[string]string{"childId": uuid.New().String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}
