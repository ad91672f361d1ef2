package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/pagination"
)

type repository interface {
	Create(ctx context.Context, message *models.Message) error
	FindInOrg(ctx context.Context, orgID, messageID uuid.UUID) (*models.Message, error)
	ListInbox(ctx context.Context, params InboxQuery) ([]models.Message, *pagination.Cursor, error)
	MarkRead(ctx context.Context, messageID uuid.UUID, at time.Time) error
}

type userFinder interface {
	FindInOrg(ctx context.Context, orgID, userID uuid.UUID) (*models.User, error)
}

// Service handles intra-organization messaging between staff and parents.
type Service struct {
	repo  repository
	users userFinder
}

// NewService builds a messaging service.
func NewService(repo repository, users userFinder) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("messages repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &Service{repo: repo, users: users}, nil
}

// SendInput captures an outgoing message.
type SendInput struct {
	SenderID    uuid.UUID
	RecipientID uuid.UUID
	ChildID     *uuid.UUID
	Body        string
}

// Send delivers a message to another member of the organization.
func (s *Service) Send(ctx context.Context, orgID uuid.UUID, input SendInput) (*models.Message, error) {
	if input.SenderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sender identity missing")
	}
	if input.RecipientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}
	if input.RecipientID == input.SenderID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot message yourself")
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "body is required")
	}

	if _, err := s.users.FindInOrg(ctx, orgID, input.RecipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "recipient not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recipient")
	}

	message := &models.Message{
		OrganizationID: orgID,
		SenderID:       input.SenderID,
		RecipientID:    input.RecipientID,
		ChildID:        input.ChildID,
		Body:           body,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
	}
	return message, nil
}

// Inbox returns a page of the user's received messages.
func (s *Service) Inbox(ctx context.Context, params InboxQuery) ([]models.Message, *pagination.Cursor, error) {
	if params.RecipientID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "recipient identity missing")
	}
	msgs, next, err := s.repo.ListInbox(ctx, params)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inbox")
	}
	return msgs, next, nil
}

// MarkRead stamps a received message as read. Only the recipient may do so.
func (s *Service) MarkRead(ctx context.Context, orgID, readerID, messageID uuid.UUID) (*models.Message, error) {
	message, err := s.repo.FindInOrg(ctx, orgID, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load message")
	}
	if message.RecipientID != readerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "message does not belong to reader")
	}
	if message.ReadAt != nil {
		return message, nil
	}

	now := time.Now().UTC()
	if err := s.repo.MarkRead(ctx, message.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark message read")
	}
	message.ReadAt = &now
	return message, nil
}
