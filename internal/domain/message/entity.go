package message

import (
	"context"
	"time"

	"hirelink/internal/database"

	"github.com/google/uuid"
)

type Message struct {
	ID uuid.UUID

	// Seq is a store-owned monotonic sequence used to break sentAt ties so
	// every reader observes the same total order.
	Seq int64

	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
	SentAt         time.Time
	IsRead         bool
	ReadAt         *time.Time
}

type Repository interface {
	Create(ctx context.Context, q database.Querier, m Message) (Message, error)

	// ListByConversation returns messages ordered by sentAt ascending, seq
	// breaking ties.
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]Message, error)

	// MarkRead flips every unread message in the conversation not sent by
	// readerID and reports how many rows changed.
	MarkRead(ctx context.Context, q database.Querier, conversationID, readerID uuid.UUID, readAt time.Time) (int64, error)
}
