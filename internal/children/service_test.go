package children

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/pagination"
)

func TestCreateRequiresParent(t *testing.T) {
	svc := newTestService(t, &stubChildRepo{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		FirstName: "Ana",
		LastName:  "Pop",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsNegativeRates(t *testing.T) {
	svc := newTestService(t, &stubChildRepo{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		ParentID:      uuid.New(),
		FirstName:     "Ana",
		LastName:      "Pop",
		MealPriceBani: -1,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateDefaultsActive(t *testing.T) {
	repo := &stubChildRepo{}
	svc := newTestService(t, repo)
	orgID := uuid.New()

	child, err := svc.Create(context.Background(), orgID, CreateInput{
		ParentID:       uuid.New(),
		FirstName:      " Ana ",
		LastName:       "Pop",
		MealPriceBani:  1500,
		MonthlyFeeBani: 120000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !child.Active {
		t.Fatal("new enrollment must be active")
	}
	if child.FirstName != "Ana" {
		t.Fatalf("name not trimmed: %q", child.FirstName)
	}
	if child.OrganizationID != orgID {
		t.Fatal("child not scoped to organization")
	}
}

func TestUpdateChangesRates(t *testing.T) {
	child := &models.Child{ID: uuid.New(), FirstName: "Ana", LastName: "Pop", MealPriceBani: 1000}
	repo := &stubChildRepo{found: child}
	svc := newTestService(t, repo)

	mealPrice := int64(1750)
	updated, err := svc.Update(context.Background(), uuid.New(), child.ID, UpdateInput{
		MealPriceBani: &mealPrice,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.MealPriceBani != 1750 {
		t.Fatalf("meal price not updated: %d", updated.MealPriceBani)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newTestService(t, &stubChildRepo{findErr: gorm.ErrRecordNotFound})

	_, err := svc.GetByID(context.Background(), uuid.New(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func newTestService(t *testing.T, repo repository) *Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

type stubChildRepo struct {
	found   *models.Child
	findErr error
}

func (s *stubChildRepo) Create(ctx context.Context, child *models.Child) error {
	child.ID = uuid.New()
	return nil
}

func (s *stubChildRepo) FindInOrg(ctx context.Context, orgID, childID uuid.UUID) (*models.Child, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.found, nil
}

func (s *stubChildRepo) List(ctx context.Context, params ListQuery) ([]models.Child, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (s *stubChildRepo) Update(ctx context.Context, child *models.Child) error {
	return nil
}
