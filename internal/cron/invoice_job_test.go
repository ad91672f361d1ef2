package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/adrianbarna/edusphere-backend-sub000/internal/billing"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/logger"
)

type fakeChildrenRepo struct {
	orgs     []uuid.UUID
	children map[uuid.UUID][]models.Child
}

func (f *fakeChildrenRepo) ListActiveOrgIDs(ctx context.Context) ([]uuid.UUID, error) {
	return f.orgs, nil
}

func (f *fakeChildrenRepo) ListActiveByOrg(ctx context.Context, orgID uuid.UUID) ([]models.Child, error) {
	return f.children[orgID], nil
}

type fakeInvoiceGenerator struct {
	errs      map[uuid.UUID]error
	generated []uuid.UUID
}

func (f *fakeInvoiceGenerator) GenerateMonthlyInvoice(ctx context.Context, orgID, childID uuid.UUID) (*billing.ChargeView, error) {
	if err, ok := f.errs[childID]; ok {
		return nil, err
	}
	f.generated = append(f.generated, childID)
	return &billing.ChargeView{ID: uuid.New(), ChildID: childID}, nil
}

func TestMonthlyInvoiceJobGeneratesPerChild(t *testing.T) {
	orgID := uuid.New()
	childA := models.Child{ID: uuid.New(), OrganizationID: orgID}
	childB := models.Child{ID: uuid.New(), OrganizationID: orgID}
	repo := &fakeChildrenRepo{
		orgs:     []uuid.UUID{orgID},
		children: map[uuid.UUID][]models.Child{orgID: {childA, childB}},
	}
	gen := &fakeInvoiceGenerator{}
	job := newTestJob(t, repo, gen)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(gen.generated) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(gen.generated))
	}
}

func TestMonthlyInvoiceJobSkipsExistingInvoices(t *testing.T) {
	orgID := uuid.New()
	invoiced := models.Child{ID: uuid.New(), OrganizationID: orgID}
	fresh := models.Child{ID: uuid.New(), OrganizationID: orgID}
	repo := &fakeChildrenRepo{
		orgs:     []uuid.UUID{orgID},
		children: map[uuid.UUID][]models.Child{orgID: {invoiced, fresh}},
	}
	gen := &fakeInvoiceGenerator{
		errs: map[uuid.UUID]error{
			invoiced.ID: pkgerrors.New(pkgerrors.CodeConflict, "invoice already generated for this month"),
		},
	}
	job := newTestJob(t, repo, gen)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("existing invoices must not fail the job: %v", err)
	}
	if len(gen.generated) != 1 || gen.generated[0] != fresh.ID {
		t.Fatalf("expected only the fresh child invoiced: %v", gen.generated)
	}
}

func TestMonthlyInvoiceJobReportsFailures(t *testing.T) {
	orgID := uuid.New()
	child := models.Child{ID: uuid.New(), OrganizationID: orgID}
	repo := &fakeChildrenRepo{
		orgs:     []uuid.UUID{orgID},
		children: map[uuid.UUID][]models.Child{orgID: {child}},
	}
	gen := &fakeInvoiceGenerator{
		errs: map[uuid.UUID]error{child.ID: errors.New("db down")},
	}
	job := newTestJob(t, repo, gen)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error when generation fails")
	}
}

func newTestJob(t *testing.T, repo childrenRepository, gen invoiceGenerator) Job {
	t.Helper()
	job, err := NewMonthlyInvoiceJob(MonthlyInvoiceJobParams{
		Logger:       logger.New(logger.Options{ServiceName: "cron-test"}),
		ChildrenRepo: repo,
		Billing:      gen,
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	return job
}
