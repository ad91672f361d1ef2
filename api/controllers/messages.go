package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adrianbarna/edusphere-backend-sub000/api/responses"
	"github.com/adrianbarna/edusphere-backend-sub000/api/validators"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/messages"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/logger"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/pagination"
)

type messageService interface {
	Send(ctx context.Context, orgID uuid.UUID, input messages.SendInput) (*models.Message, error)
	Inbox(ctx context.Context, params messages.InboxQuery) ([]models.Message, *pagination.Cursor, error)
	MarkRead(ctx context.Context, orgID, readerID, messageID uuid.UUID) (*models.Message, error)
}

type messageResponse struct {
	ID          uuid.UUID  `json:"id"`
	SenderID    uuid.UUID  `json:"sender_id"`
	RecipientID uuid.UUID  `json:"recipient_id"`
	ChildID     *uuid.UUID `json:"child_id,omitempty"`
	Body        string     `json:"body"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func buildMessageResponse(message *models.Message) messageResponse {
	return messageResponse{
		ID:          message.ID,
		SenderID:    message.SenderID,
		RecipientID: message.RecipientID,
		ChildID:     message.ChildID,
		Body:        message.Body,
		ReadAt:      message.ReadAt,
		CreatedAt:   message.CreatedAt,
	}
}

type messageListResponse struct {
	Items      []messageResponse `json:"items"`
	NextCursor *string           `json:"next_cursor,omitempty"`
}

type messageSendRequest struct {
	RecipientID uuid.UUID  `json:"recipient_id" validate:"required"`
	ChildID     *uuid.UUID `json:"child_id,omitempty"`
	Body        string     `json:"body" validate:"required"`
}

// MessageSend delivers a message from the authenticated user to another member.
func MessageSend(svc messageService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "messages service unavailable"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		senderID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body messageSendRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.Send(r.Context(), orgID, messages.SendInput{
			SenderID:    senderID,
			RecipientID: body.RecipientID,
			ChildID:     body.ChildID,
			Body:        body.Body,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, buildMessageResponse(message))
	}
}

// MessageInbox returns a page of the authenticated user's received messages.
func MessageInbox(svc messageService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "messages service unavailable"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recipientID, err := userIDFromRequest(r)
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

		unreadOnly, err := validators.ParseQueryBool(r, "unread")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, next, err := svc.Inbox(r.Context(), messages.InboxQuery{
			OrganizationID: orgID,
			RecipientID:    recipientID,
			UnreadOnly:     unreadOnly != nil && *unreadOnly,
			Limit:          limit,
			Cursor:         cursor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := messageListResponse{Items: make([]messageResponse, len(items)), NextCursor: encodeCursor(next)}
		for i := range items {
			resp.Items[i] = buildMessageResponse(&items[i])
		}
		responses.WriteSuccess(w, resp)
	}
}

// MessageMarkRead stamps a received message as read.
func MessageMarkRead(svc messageService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "messages service unavailable"))
			return
		}

		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		readerID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		messageID, err := validators.ParsePathUUID(chi.URLParam(r, "messageId"), "messageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.MarkRead(r.Context(), orgID, readerID, messageID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, buildMessageResponse(message))
	}
}
