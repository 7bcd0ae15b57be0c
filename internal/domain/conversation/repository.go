package conversation

import (
	"context"
	"errors"
	"time"

	"hirelink/internal/database"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("conversation not found")

// SummaryRow is a conversation joined with its most recent message and the
// caller's unread count, as produced by ListSummaries.
type SummaryRow struct {
	Conversation Conversation

	LastMessageID       *uuid.UUID
	LastMessageSenderID *uuid.UUID
	LastMessageContent  *string
	LastMessageSentAt   *time.Time
	LastMessageIsRead   *bool

	UnreadCount int
}

type Repository interface {
	// GetOrCreate resolves the conversation for an unordered participant
	// pair, creating a pending one with the given initiator when none
	// exists. The returned row is locked for the duration of q's
	// transaction when q is a Tx.
	GetOrCreate(ctx context.Context, q database.Querier, userA, userB, initiatorID uuid.UUID) (Conversation, error)

	GetByID(ctx context.Context, id uuid.UUID) (Conversation, error)

	// GetForUpdate loads the conversation with a row lock; q must be a Tx.
	GetForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (Conversation, error)

	UpdateStatus(ctx context.Context, q database.Querier, id uuid.UUID, status Status, acceptedAt *time.Time) error

	// ListSummaries returns every conversation userID participates in,
	// ordered by most recent message time descending with createdAt as the
	// fallback for empty conversations.
	ListSummaries(ctx context.Context, userID uuid.UUID) ([]SummaryRow, error)

	GetSummary(ctx context.Context, id, userID uuid.UUID) (SummaryRow, error)
}
