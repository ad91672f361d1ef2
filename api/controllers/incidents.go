package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adrianbarna/edusphere-backend-sub000/api/responses"
	"github.com/adrianbarna/edusphere-backend-sub000/api/validators"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/incidents"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/enums"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/logger"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/pagination"
)

type incidentService interface {
	Create(ctx context.Context, orgID uuid.UUID, input incidents.CreateInput) (*models.Incident, error)
	GetByID(ctx context.Context, orgID, incidentID uuid.UUID) (*models.Incident, error)
	List(ctx context.Context, params incidents.ListQuery) ([]models.Incident, *pagination.Cursor, error)
}

type incidentResponse struct {
	ID          uuid.UUID              `json:"id"`
	ChildID     uuid.UUID              `json:"child_id"`
	AuthorID    uuid.UUID              `json:"author_id"`
	Severity    enums.IncidentSeverity `json:"severity"`
	Description string                 `json:"description"`
	OccurredAt  time.Time              `json:"occurred_at"`
	CreatedAt   time.Time              `json:"created_at"`
}

func buildIncidentResponse(incident *models.Incident) incidentResponse {
	return incidentResponse{
		ID:          incident.ID,
		ChildID:     incident.ChildID,
		AuthorID:    incident.AuthorID,
		Severity:    incident.Severity,
		Description: incident.Description,
		OccurredAt:  incident.OccurredAt,
		CreatedAt:   incident.CreatedAt,
	}
}

type incidentListResponse struct {
	Items      []incidentResponse `json:"items"`
	NextCursor *string            `json:"next_cursor,omitempty"`
}

type incidentCreateRequest struct {
	ChildID     uuid.UUID  `json:"child_id" validate:"required"`
	Severity    string     `json:"severity" validate:"required,oneof=minor moderate severe"`
	Description string     `json:"description" validate:"required"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

// IncidentCreate files an incident report authored by the authenticated staff member.
func IncidentCreate(svc incidentService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "incidents service unavailable"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		authorID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body incidentCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := incidents.CreateInput{
			ChildID:     body.ChildID,
			AuthorID:    authorID,
			Severity:    enums.IncidentSeverity(body.Severity),
			Description: body.Description,
		}
		if body.OccurredAt != nil {
			input.OccurredAt = *body.OccurredAt
		}

		incident, err := svc.Create(r.Context(), orgID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, buildIncidentResponse(incident))
	}
}

// IncidentList returns a page of incidents, newest first.
func IncidentList(svc incidentService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "incidents service unavailable"))
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

		childID, err := validators.ParseQueryUUID(r, "child_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := incidents.ListQuery{
			OrganizationID: orgID,
			ChildID:        childID,
			Limit:          limit,
			Cursor:         cursor,
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("severity")); raw != "" {
			severity := enums.IncidentSeverity(raw)
			if !severity.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid severity filter"))
				return
			}
			params.Severity = &severity
		}

		items, next, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := incidentListResponse{Items: make([]incidentResponse, len(items)), NextCursor: encodeCursor(next)}
		for i := range items {
			resp.Items[i] = buildIncidentResponse(&items[i])
		}
		responses.WriteSuccess(w, resp)
	}
}

// IncidentDetail returns a single incident report.
func IncidentDetail(svc incidentService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "incidents service unavailable"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		incidentID, err := validators.ParsePathUUID(chi.URLParam(r, "incidentId"), "incidentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		incident, err := svc.GetByID(r.Context(), orgID, incidentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, buildIncidentResponse(incident))
	}
}
