package messages

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/pagination"
)

// Repository handles message persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to message operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new message row.
func (r *Repository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// FindInOrg loads a message scoped to the organization.
func (r *Repository) FindInOrg(ctx context.Context, orgID, messageID uuid.UUID) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", messageID, orgID).
		First(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// InboxQuery configures recipient-side message listing.
type InboxQuery struct {
	OrganizationID uuid.UUID
	RecipientID    uuid.UUID
	UnreadOnly     bool
	Limit          int
	Cursor         *pagination.Cursor
}

// ListInbox returns a page of a user's received messages, newest first.
func (r *Repository) ListInbox(ctx context.Context, params InboxQuery) ([]models.Message, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("organization_id = ? AND recipient_id = ?", params.OrganizationID, params.RecipientID)
	if params.UnreadOnly {
		query = query.Where("read_at IS NULL")
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var msgs []models.Message
	if err := query.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&msgs).Error; err != nil {
		return nil, nil, err
	}

	if len(msgs) > limit {
		next := msgs[limit]
		msgs = msgs[:limit]
		return msgs, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return msgs, nil, nil
}

// MarkRead stamps the message as read.
func (r *Repository) MarkRead(ctx context.Context, messageID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ? AND read_at IS NULL", messageID).
		Update("read_at", at).Error
}
