package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adrianbarna/edusphere-backend-sub000/api/responses"
	"github.com/adrianbarna/edusphere-backend-sub000/api/validators"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/groups"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/logger"
)

type groupService interface {
	Create(ctx context.Context, orgID uuid.UUID, input groups.CreateInput) (*models.Group, error)
	GetByID(ctx context.Context, orgID, groupID uuid.UUID) (*models.Group, error)
	List(ctx context.Context, orgID uuid.UUID) ([]models.Group, error)
	Update(ctx context.Context, orgID, groupID uuid.UUID, input groups.UpdateInput) (*models.Group, error)
}

type groupResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	EducatorID *uuid.UUID `json:"educator_id,omitempty"`
	Weekdays   []string   `json:"weekdays"`
}

func buildGroupResponse(group *models.Group) groupResponse {
	weekdays := []string(group.Weekdays)
	if weekdays == nil {
		weekdays = []string{}
	}
	return groupResponse{
		ID:         group.ID,
		Name:       group.Name,
		EducatorID: group.EducatorID,
		Weekdays:   weekdays,
	}
}

type groupCreateRequest struct {
	Name       string     `json:"name" validate:"required"`
	EducatorID *uuid.UUID `json:"educator_id,omitempty"`
	Weekdays   []string   `json:"weekdays,omitempty"`
}

// GroupCreate registers a group in the organization.
func GroupCreate(svc groupService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "groups service unavailable"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body groupCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		group, err := svc.Create(r.Context(), orgID, groups.CreateInput{
			Name:       body.Name,
			EducatorID: body.EducatorID,
			Weekdays:   body.Weekdays,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, buildGroupResponse(group))
	}
}

// GroupList returns all of the organization's groups.
func GroupList(svc groupService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "groups service unavailable"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), orgID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := make([]groupResponse, len(items))
		for i := range items {
			resp[i] = buildGroupResponse(&items[i])
		}
		responses.WriteSuccess(w, resp)
	}
}

// GroupDetail returns a single group.
func GroupDetail(svc groupService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "groups service unavailable"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groupID, err := validators.ParsePathUUID(chi.URLParam(r, "groupId"), "groupId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		group, err := svc.GetByID(r.Context(), orgID, groupID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, buildGroupResponse(group))
	}
}

type groupUpdateRequest struct {
	Name       *string    `json:"name,omitempty" validate:"omitempty,min=1"`
	EducatorID *uuid.UUID `json:"educator_id,omitempty"`
	Weekdays   *[]string  `json:"weekdays,omitempty"`
}

// GroupUpdate applies partial changes to a group.
func GroupUpdate(svc groupService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "groups service unavailable"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groupID, err := validators.ParsePathUUID(chi.URLParam(r, "groupId"), "groupId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body groupUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		group, err := svc.Update(r.Context(), orgID, groupID, groups.UpdateInput{
			Name:       body.Name,
			EducatorID: body.EducatorID,
			Weekdays:   body.Weekdays,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, buildGroupResponse(group))
	}
}
