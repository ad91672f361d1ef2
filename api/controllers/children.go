package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adrianbarna/edusphere-backend-sub000/api/responses"
	"github.com/adrianbarna/edusphere-backend-sub000/api/validators"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/children"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/logger"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/pagination"
)

type childService interface {
	Create(ctx context.Context, orgID uuid.UUID, input children.CreateInput) (*models.Child, error)
	GetByID(ctx context.Context, orgID, childID uuid.UUID) (*models.Child, error)
	List(ctx context.Context, params children.ListQuery) ([]models.Child, *pagination.Cursor, error)
	Update(ctx context.Context, orgID, childID uuid.UUID, input children.UpdateInput) (*models.Child, error)
}

type childResponse struct {
	ID             uuid.UUID  `json:"id"`
	ParentID       uuid.UUID  `json:"parent_id"`
	GroupID        *uuid.UUID `json:"group_id,omitempty"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	BirthDate      *string    `json:"birth_date,omitempty"`
	MealPriceBani  int64      `json:"meal_price_bani"`
	MonthlyFeeBani int64      `json:"monthly_fee_bani"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"created_at"`
}

func buildChildResponse(child *models.Child) childResponse {
	resp := childResponse{
		ID:             child.ID,
		ParentID:       child.ParentID,
		GroupID:        child.GroupID,
		FirstName:      child.FirstName,
		LastName:       child.LastName,
		MealPriceBani:  child.MealPriceBani,
		MonthlyFeeBani: child.MonthlyFeeBani,
		Active:         child.Active,
		CreatedAt:      child.CreatedAt,
	}
	if child.BirthDate != nil {
		formatted := child.BirthDate.Format("2006-01-02")
		resp.BirthDate = &formatted
	}
	return resp
}

type childListResponse struct {
	Items      []childResponse `json:"items"`
	NextCursor *string         `json:"next_cursor,omitempty"`
}

type childCreateRequest struct {
	ParentID       uuid.UUID  `json:"parent_id" validate:"required"`
	GroupID        *uuid.UUID `json:"group_id,omitempty"`
	FirstName      string     `json:"first_name" validate:"required"`
	LastName       string     `json:"last_name" validate:"required"`
	BirthDate      *string    `json:"birth_date,omitempty"`
	MealPriceBani  int64      `json:"meal_price_bani" validate:"gte=0"`
	MonthlyFeeBani int64      `json:"monthly_fee_bani" validate:"gte=0"`
}

// ChildCreate enrolls a child in the organization.
func ChildCreate(svc childService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "children service unavailable"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body childCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := children.CreateInput{
			ParentID:       body.ParentID,
			GroupID:        body.GroupID,
			FirstName:      body.FirstName,
			LastName:       body.LastName,
			MealPriceBani:  body.MealPriceBani,
			MonthlyFeeBani: body.MonthlyFeeBani,
		}
		if body.BirthDate != nil {
			birthDate, err := time.Parse("2006-01-02", *body.BirthDate)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "birth_date must be formatted as YYYY-MM-DD"))
				return
			}
			input.BirthDate = &birthDate
		}

		child, err := svc.Create(r.Context(), orgID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, buildChildResponse(child))
	}
}

// ChildList returns a page of enrollments matching the optional filters.
func ChildList(svc childService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "children service unavailable"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cursor, err := pagination.ParseCursor(r.URL.Query().Get("cursor"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor"))
			return
		}

		groupID, err := validators.ParseQueryUUID(r, "group_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		parentID, err := validators.ParseQueryUUID(r, "parent_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		activeOnly, err := validators.ParseQueryBool(r, "active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := children.ListQuery{
			OrganizationID: orgID,
			GroupID:        groupID,
			ParentID:       parentID,
			ActiveOnly:     activeOnly != nil && *activeOnly,
			Limit:          limit,
			Cursor:         cursor,
		}

		items, next, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := childListResponse{Items: make([]childResponse, len(items)), NextCursor: encodeCursor(next)}
		for i := range items {
			resp.Items[i] = buildChildResponse(&items[i])
		}
		responses.WriteSuccess(w, resp)
	}
}

// ChildDetail returns a single enrollment.
func ChildDetail(svc childService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "children service unavailable"))
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

		child, err := svc.GetByID(r.Context(), orgID, childID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, buildChildResponse(child))
	}
}

type childUpdateRequest struct {
	GroupID        *uuid.UUID `json:"group_id,omitempty"`
	FirstName      *string    `json:"first_name,omitempty" validate:"omitempty,min=1"`
	LastName       *string    `json:"last_name,omitempty" validate:"omitempty,min=1"`
	MealPriceBani  *int64     `json:"meal_price_bani,omitempty" validate:"omitempty,gte=0"`
	MonthlyFeeBani *int64     `json:"monthly_fee_bani,omitempty" validate:"omitempty,gte=0"`
	Active         *bool      `json:"active,omitempty"`
}

// ChildUpdate applies partial changes to an enrollment.
func ChildUpdate(svc childService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "children service unavailable"))
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

		var body childUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		child, err := svc.Update(r.Context(), orgID, childID, children.UpdateInput{
			GroupID:        body.GroupID,
			FirstName:      body.FirstName,
			LastName:       body.LastName,
			MealPriceBani:  body.MealPriceBani,
			MonthlyFeeBani: body.MonthlyFeeBani,
			Active:         body.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, buildChildResponse(child))
	}
}
