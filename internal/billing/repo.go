package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
)

// Repository handles charge and absence persistence for the billing facade.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindChild(ctx context.Context, orgID, childID uuid.UUID) (*models.Child, error)
	ListChildrenByParent(ctx context.Context, orgID, parentID uuid.UUID) ([]models.Child, error)
	ListUnconsumedPeriods(ctx context.Context, childID uuid.UUID) ([]models.AbsencePeriod, error)
	ListInvoicesForMonth(ctx context.Context, childID uuid.UUID, from, to time.Time) ([]models.Invoice, error)
	ListPaymentsForMonth(ctx context.Context, childID uuid.UUID, from, to time.Time) ([]models.Payment, error)
	ListInvoicesForChildren(ctx context.Context, childIDs []uuid.UUID, from, to time.Time) ([]models.Invoice, error)
	ListPaymentsForChildren(ctx context.Context, childIDs []uuid.UUID, from, to time.Time) ([]models.Payment, error)
	FindInvoice(ctx context.Context, orgID, invoiceID uuid.UUID) (*models.Invoice, error)
	FindPayment(ctx context.Context, orgID, paymentID uuid.UUID) (*models.Payment, error)
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	SaveInvoice(ctx context.Context, invoice *models.Invoice) error
	SavePayment(ctx context.Context, payment *models.Payment) error
	SavePeriod(ctx context.Context, period *models.AbsencePeriod) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a billing repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindChild(ctx context.Context, orgID, childID uuid.UUID) (*models.Child, error) {
	var child models.Child
	if err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", childID, orgID).
		First(&child).Error; err != nil {
		return nil, err
	}
	return &child, nil
}

func (r *repository) ListChildrenByParent(ctx context.Context, orgID, parentID uuid.UUID) ([]models.Child, error) {
	var children []models.Child
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND parent_id = ?", orgID, parentID).
		Order("created_at ASC, id ASC").
		Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

func (r *repository) ListUnconsumedPeriods(ctx context.Context, childID uuid.UUID) ([]models.AbsencePeriod, error) {
	var periods []models.AbsencePeriod
	if err := r.db.WithContext(ctx).
		Where("child_id = ? AND NOT consumed", childID).
		Order("start_date ASC, id ASC").
		Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

func (r *repository) ListInvoicesForMonth(ctx context.Context, childID uuid.UUID, from, to time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := r.db.WithContext(ctx).
		Where("child_id = ? AND issue_date >= ? AND issue_date < ?", childID, from, to).
		Order("issue_date ASC, id ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repository) ListPaymentsForMonth(ctx context.Context, childID uuid.UUID, from, to time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.WithContext(ctx).
		Where("child_id = ? AND issue_date >= ? AND issue_date < ?", childID, from, to).
		Order("issue_date ASC, id ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) ListInvoicesForChildren(ctx context.Context, childIDs []uuid.UUID, from, to time.Time) ([]models.Invoice, error) {
	if len(childIDs) == 0 {
		return []models.Invoice{}, nil
	}
	var invoices []models.Invoice
	if err := r.db.WithContext(ctx).
		Where("child_id IN ? AND issue_date >= ? AND issue_date < ?", childIDs, from, to).
		Order("issue_date ASC, id ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repository) ListPaymentsForChildren(ctx context.Context, childIDs []uuid.UUID, from, to time.Time) ([]models.Payment, error) {
	if len(childIDs) == 0 {
		return []models.Payment{}, nil
	}
	var payments []models.Payment
	if err := r.db.WithContext(ctx).
		Where("child_id IN ? AND issue_date >= ? AND issue_date < ?", childIDs, from, to).
		Order("issue_date ASC, id ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) FindInvoice(ctx context.Context, orgID, invoiceID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", invoiceID, orgID).
		First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) FindPayment(ctx context.Context, orgID, paymentID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", paymentID, orgID).
		First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *repository) SaveInvoice(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *repository) SavePayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *repository) SavePeriod(ctx context.Context, period *models.AbsencePeriod) error {
	return r.db.WithContext(ctx).Save(period).Error
}
