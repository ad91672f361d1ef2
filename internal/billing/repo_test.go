package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/enums"
)

func setupBillingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	children := `
CREATE TABLE IF NOT EXISTS children (
  id TEXT PRIMARY KEY,
  organization_id TEXT NOT NULL,
  group_id TEXT,
  parent_id TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  birth_date DATETIME,
  meal_price_bani INTEGER NOT NULL DEFAULT 0,
  monthly_fee_bani INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	absencePeriods := `
CREATE TABLE IF NOT EXISTS absence_periods (
  id TEXT PRIMARY KEY,
  organization_id TEXT NOT NULL,
  child_id TEXT NOT NULL,
  start_date DATETIME NOT NULL,
  end_date DATETIME NOT NULL,
  consumed INTEGER NOT NULL DEFAULT 0,
  consumed_bani INTEGER NOT NULL DEFAULT 0,
  consumed_charge_id TEXT,
  consumed_charge_kind TEXT,
  consumed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	invoices := `
CREATE TABLE IF NOT EXISTS invoices (
  id TEXT PRIMARY KEY,
  organization_id TEXT NOT NULL,
  child_id TEXT NOT NULL,
  month TEXT NOT NULL,
  base_bani INTEGER NOT NULL,
  adjusted_bani INTEGER NOT NULL,
  issue_date DATETIME NOT NULL,
  due_date DATETIME NOT NULL,
  paid INTEGER NOT NULL DEFAULT 0,
  pay_type TEXT NOT NULL DEFAULT 'bank_transfer',
  created_at DATETIME,
  updated_at DATETIME
);`
	payments := `
CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  organization_id TEXT NOT NULL,
  child_id TEXT NOT NULL,
  month TEXT NOT NULL,
  base_bani INTEGER NOT NULL,
  adjusted_bani INTEGER NOT NULL,
  issue_date DATETIME NOT NULL,
  due_date DATETIME NOT NULL,
  paid INTEGER NOT NULL DEFAULT 0,
  pay_type TEXT NOT NULL DEFAULT 'bank_transfer',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(children).Error)
	require.NoError(t, db.Exec(absencePeriods).Error)
	require.NoError(t, db.Exec(invoices).Error)
	require.NoError(t, db.Exec(payments).Error)
	return db
}

func newBillingChild(t *testing.T, db *gorm.DB, orgID, parentID uuid.UUID) *models.Child {
	t.Helper()

	child := &models.Child{
		ID:             uuid.New(),
		OrganizationID: orgID,
		ParentID:       parentID,
		FirstName:      "Ana",
		LastName:       "Popescu",
		MealPriceBani:  1500,
		MonthlyFeeBani: 120000,
		Active:         true,
	}
	require.NoError(t, db.Create(child).Error)
	return child
}

func newPeriod(t *testing.T, db *gorm.DB, child *models.Child, start, end time.Time, consumed bool) *models.AbsencePeriod {
	t.Helper()

	period := &models.AbsencePeriod{
		ID:             uuid.New(),
		OrganizationID: child.OrganizationID,
		ChildID:        child.ID,
		StartDate:      start,
		EndDate:        end,
		Consumed:       consumed,
	}
	require.NoError(t, db.Create(period).Error)
	return period
}

func newInvoice(t *testing.T, db *gorm.DB, child *models.Child, month string, issue time.Time, base int64) *models.Invoice {
	t.Helper()

	invoice := &models.Invoice{
		ID:             uuid.New(),
		OrganizationID: child.OrganizationID,
		ChildID:        child.ID,
		Month:          month,
		BaseBani:       base,
		AdjustedBani:   base,
		IssueDate:      issue,
		DueDate:        issue.AddDate(0, 0, 14),
		PayType:        enums.PayTypeBankTransfer,
	}
	require.NoError(t, db.Create(invoice).Error)
	return invoice
}

func TestRepositoryListUnconsumedPeriods_ordersAndFilters(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	child := newBillingChild(t, db, uuid.New(), uuid.New())
	day := func(d int) time.Time { return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC) }

	later := newPeriod(t, db, child, day(10), day(12), false)
	earlier := newPeriod(t, db, child, day(2), day(4), false)
	newPeriod(t, db, child, day(6), day(6), true)

	periods, err := repo.ListUnconsumedPeriods(ctx, child.ID)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, earlier.ID, periods[0].ID)
	assert.Equal(t, later.ID, periods[1].ID)
}

func TestRepositoryFindChild_scopedToOrganization(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	child := newBillingChild(t, db, uuid.New(), uuid.New())

	found, err := repo.FindChild(ctx, child.OrganizationID, child.ID)
	require.NoError(t, err)
	assert.Equal(t, child.ID, found.ID)

	_, err = repo.FindChild(ctx, uuid.New(), child.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListInvoicesForMonth_boundsAreHalfOpen(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	child := newBillingChild(t, db, uuid.New(), uuid.New())
	march := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	april := march.AddDate(0, 1, 0)

	inMonth := newInvoice(t, db, child, "2026-03", march.AddDate(0, 0, 4), 120000)
	newInvoice(t, db, child, "2026-04", april, 120000)

	invoices, err := repo.ListInvoicesForMonth(ctx, child.ID, march, april)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, inMonth.ID, invoices[0].ID)
}

func TestRepositoryListInvoicesForChildren_emptyInput(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewRepository(db)

	invoices, err := repo.ListInvoicesForChildren(context.Background(), nil, time.Now(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

func TestRepositorySavePeriod_persistsConsumption(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	child := newBillingChild(t, db, uuid.New(), uuid.New())
	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	period := newPeriod(t, db, child, start, start.AddDate(0, 0, 2), false)

	invoice := newInvoice(t, db, child, "2026-03", start, 120000)
	kind := enums.ChargeKindInvoice
	now := time.Now().UTC()

	period.Consumed = true
	period.ConsumedBani = 4500
	period.ConsumedChargeID = &invoice.ID
	period.ConsumedChargeKind = &kind
	period.ConsumedAt = &now
	require.NoError(t, repo.SavePeriod(ctx, period))

	remaining, err := repo.ListUnconsumedPeriods(ctx, child.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	var stored models.AbsencePeriod
	require.NoError(t, db.Where("id = ?", period.ID).First(&stored).Error)
	assert.True(t, stored.Consumed)
	assert.EqualValues(t, 4500, stored.ConsumedBani)
	require.NotNil(t, stored.ConsumedChargeKind)
	assert.Equal(t, enums.ChargeKindInvoice, *stored.ConsumedChargeKind)
}
