package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/adrianbarna/edusphere-backend-sub000/internal/billing"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/logger"
)

type childrenRepository interface {
	ListActiveOrgIDs(ctx context.Context) ([]uuid.UUID, error)
	ListActiveByOrg(ctx context.Context, orgID uuid.UUID) ([]models.Child, error)
}

type invoiceGenerator interface {
	GenerateMonthlyInvoice(ctx context.Context, orgID, childID uuid.UUID) (*billing.ChargeView, error)
}

// MonthlyInvoiceJobParams configures the scheduled invoice generation.
type MonthlyInvoiceJobParams struct {
	Logger       *logger.Logger
	ChildrenRepo childrenRepository
	Billing      invoiceGenerator
}

type monthlyInvoiceJob struct {
	logg     *logger.Logger
	children childrenRepository
	billing  invoiceGenerator
}

// NewMonthlyInvoiceJob constructs the invoice generation cron job. It walks
// every organization with active enrollments and issues the current month's
// invoice for each child; already-invoiced children are skipped via the
// facade's CONFLICT response.
func NewMonthlyInvoiceJob(params MonthlyInvoiceJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.ChildrenRepo == nil {
		return nil, fmt.Errorf("children repository required")
	}
	if params.Billing == nil {
		return nil, fmt.Errorf("billing service required")
	}
	return &monthlyInvoiceJob{
		logg:     params.Logger,
		children: params.ChildrenRepo,
		billing:  params.Billing,
	}, nil
}

func (j *monthlyInvoiceJob) Name() string { return "monthly-invoices" }

func (j *monthlyInvoiceJob) Run(ctx context.Context) error {
	orgIDs, err := j.children.ListActiveOrgIDs(ctx)
	if err != nil {
		return fmt.Errorf("list organizations: %w", err)
	}

	generated, skipped, failed := 0, 0, 0
	for _, orgID := range orgIDs {
		children, err := j.children.ListActiveByOrg(ctx, orgID)
		if err != nil {
			j.logg.Error(j.logg.WithOrgID(ctx, orgID.String()), "list active children", err)
			failed++
			continue
		}
		for _, child := range children {
			if _, err := j.billing.GenerateMonthlyInvoice(ctx, orgID, child.ID); err != nil {
				if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
					skipped++
					continue
				}
				j.logg.Error(j.logg.WithField(ctx, "child_id", child.ID.String()), "generate invoice", err)
				failed++
				continue
			}
			generated++
		}
	}

	summary := j.logg.WithFields(ctx, map[string]any{
		"generated": generated,
		"skipped":   skipped,
		"failed":    failed,
	})
	j.logg.Info(summary, "monthly invoice pass complete")
	if failed > 0 {
		return fmt.Errorf("%d invoice generations failed", failed)
	}
	return nil
}
