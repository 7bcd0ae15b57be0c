package repository

import (
	"context"
	"time"

	"hirelink/internal/database"
	"hirelink/internal/domain/message"

	"github.com/google/uuid"
)

type PostgresMessageRepository struct {
	db database.DB
}

func NewPostgresMessageRepository(db database.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, q database.Querier, m message.Message) (message.Message, error) {
	if q == nil {
		q = r.db
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	row := q.QueryRow(ctx, `
INSERT INTO messages (id, conversation_id, sender_id, content, sent_at, is_read)
VALUES ($1, $2, $3, $4, $5, FALSE)
RETURNING seq, sent_at`,
		m.ID, m.ConversationID, m.SenderID, m.Content, m.SentAt,
	)
	if err := row.Scan(&m.Seq, &m.SentAt); err != nil {
		return message.Message{}, err
	}
	m.IsRead = false
	m.ReadAt = nil
	return m, nil
}

func (r *PostgresMessageRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]message.Message, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, seq, conversation_id, sender_id, content, sent_at, is_read, read_at
FROM messages
WHERE conversation_id = $1
ORDER BY sent_at ASC, seq ASC`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]message.Message, 0)
	for rows.Next() {
		var m message.Message
		if err := rows.Scan(&m.ID, &m.Seq, &m.ConversationID, &m.SenderID, &m.Content, &m.SentAt, &m.IsRead, &m.ReadAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMessageRepository) MarkRead(ctx context.Context, q database.Querier, conversationID, readerID uuid.UUID, readAt time.Time) (int64, error) {
	if q == nil {
		q = r.db
	}
	return q.Exec(ctx, `
UPDATE messages
SET is_read = TRUE, read_at = $3
WHERE conversation_id = $1 AND sender_id <> $2 AND is_read = FALSE`,
		conversationID, readerID, readAt,
	)
}
