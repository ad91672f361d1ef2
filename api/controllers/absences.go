package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adrianbarna/edusphere-backend-sub000/api/responses"
	"github.com/adrianbarna/edusphere-backend-sub000/api/validators"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/enums"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/logger"
)

type absenceService interface {
	Record(ctx context.Context, orgID, childID uuid.UUID, start, end time.Time) (*models.AbsencePeriod, error)
	ListByChild(ctx context.Context, orgID, childID uuid.UUID, consumed *bool) ([]models.AbsencePeriod, error)
}

type absenceResponse struct {
	ID           uuid.UUID         `json:"id"`
	ChildID      uuid.UUID         `json:"child_id"`
	StartDate    string            `json:"start_date"`
	EndDate      string            `json:"end_date"`
	Consumed     bool              `json:"consumed"`
	ConsumedBani int64             `json:"consumed_bani"`
	ChargeID     *uuid.UUID        `json:"consumed_charge_id,omitempty"`
	ChargeKind   *enums.ChargeKind `json:"consumed_charge_kind,omitempty"`
	ConsumedAt   *time.Time        `json:"consumed_at,omitempty"`
}

func buildAbsenceResponse(period *models.AbsencePeriod) absenceResponse {
	return absenceResponse{
		ID:           period.ID,
		ChildID:      period.ChildID,
		StartDate:    period.StartDate.Format("2006-01-02"),
		EndDate:      period.EndDate.Format("2006-01-02"),
		Consumed:     period.Consumed,
		ConsumedBani: period.ConsumedBani,
		ChargeID:     period.ConsumedChargeID,
		ChargeKind:   period.ConsumedChargeKind,
		ConsumedAt:   period.ConsumedAt,
	}
}

type absenceCreateRequest struct {
	StartAt time.Time `json:"start_at" validate:"required"`
	EndAt   time.Time `json:"end_at" validate:"required"`
}

// AbsenceRecord stores a skipped-day range for a child.
func AbsenceRecord(svc absenceService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "absences service unavailable"))
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

		var body absenceCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		period, err := svc.Record(r.Context(), orgID, childID, body.StartAt, body.EndAt)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, buildAbsenceResponse(period))
	}
}

// AbsenceList returns a child's recorded absence periods, oldest first.
func AbsenceList(svc absenceService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "absences service unavailable"))
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

		consumed, err := validators.ParseQueryBool(r, "consumed")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListByChild(r.Context(), orgID, childID, consumed)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := make([]absenceResponse, len(items))
		for i := range items {
			resp[i] = buildAbsenceResponse(&items[i])
		}
		responses.WriteSuccess(w, resp)
	}
}
