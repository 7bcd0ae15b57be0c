package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeNewMessage              = "new-message"
	TypeApplicationStatusChange = "application-status-change"
	TypeNewJobFromFollowed      = "new-job-from-followed-company"
)

type Notification struct {
	ID           int64
	UserID       uuid.UUID
	Type         string
	Content      string
	LinkToAction string
	IsRead       bool
	CreatedAt    time.Time
}

type Repository interface {
	Create(ctx context.Context, n Notification) (Notification, error)

	// ListUnread returns at most limit unread notifications for userID,
	// newest first.
	ListUnread(ctx context.Context, userID uuid.UUID, limit int) ([]Notification, error)

	// MarkRead succeeds only when the notification belongs to userID and is
	// currently unread.
	MarkRead(ctx context.Context, id int64, userID uuid.UUID) (bool, error)
}

// FollowerRepository resolves the audience for company-scoped fan-out.
type FollowerRepository interface {
	ListFollowerIDs(ctx context.Context, companyID uuid.UUID) ([]uuid.UUID, error)
}
