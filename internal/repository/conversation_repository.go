package repository

import (
	"context"
	"errors"
	"time"

	"hirelink/internal/database"
	"hirelink/internal/domain/conversation"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresConversationRepository struct {
	db database.DB
}

func NewPostgresConversationRepository(db database.DB) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db}
}

const conversationColumns = `id, participant_a, participant_b, initiator_id, status, created_at, accepted_at`

func (r *PostgresConversationRepository) GetOrCreate(ctx context.Context, q database.Querier, userA, userB, initiatorID uuid.UUID) (conversation.Conversation, error) {
	if q == nil {
		q = r.db
	}
	a, b := conversation.NormalizePair(userA, userB)

	_, err := q.Exec(ctx, `
INSERT INTO conversations (id, participant_a, participant_b, initiator_id, status)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (participant_a, participant_b) DO NOTHING`,
		uuid.New(), a, b, initiatorID, conversation.StatusPending,
	)
	if err != nil {
		return conversation.Conversation{}, err
	}

	row := q.QueryRow(ctx, `
SELECT `+conversationColumns+`
FROM conversations
WHERE participant_a = $1 AND participant_b = $2
FOR UPDATE`, a, b)
	return scanConversation(row)
}

func (r *PostgresConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (conversation.Conversation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id)
	return scanConversation(row)
}

func (r *PostgresConversationRepository) GetForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (conversation.Conversation, error) {
	if q == nil {
		q = r.db
	}
	row := q.QueryRow(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id = $1 FOR UPDATE`, id)
	return scanConversation(row)
}

func (r *PostgresConversationRepository) UpdateStatus(ctx context.Context, q database.Querier, id uuid.UUID, status conversation.Status, acceptedAt *time.Time) error {
	if q == nil {
		q = r.db
	}
	n, err := q.Exec(ctx, `UPDATE conversations SET status = $2, accepted_at = COALESCE($3, accepted_at) WHERE id = $1`, id, status, acceptedAt)
	if err != nil {
		return err
	}
	if n == 0 {
		return conversation.ErrNotFound
	}
	return nil
}

const summarySelect = `
SELECT c.id, c.participant_a, c.participant_b, c.initiator_id, c.status, c.created_at, c.accepted_at,
	lm.id, lm.sender_id, lm.content, lm.sent_at, lm.is_read,
	COALESCE(uc.unread, 0)
FROM conversations c
LEFT JOIN LATERAL (
	SELECT m.id, m.sender_id, m.content, m.sent_at, m.is_read
	FROM messages m
	WHERE m.conversation_id = c.id
	ORDER BY m.sent_at DESC, m.seq DESC
	LIMIT 1
) lm ON TRUE
LEFT JOIN LATERAL (
	SELECT COUNT(*) AS unread
	FROM messages m
	WHERE m.conversation_id = c.id AND m.sender_id <> $1 AND m.is_read = FALSE
) uc ON TRUE`

func (r *PostgresConversationRepository) ListSummaries(ctx context.Context, userID uuid.UUID) ([]conversation.SummaryRow, error) {
	rows, err := r.db.Query(ctx, summarySelect+`
WHERE c.participant_a = $1 OR c.participant_b = $1
ORDER BY COALESCE(lm.sent_at, c.created_at) DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]conversation.SummaryRow, 0)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresConversationRepository) GetSummary(ctx context.Context, id, userID uuid.UUID) (conversation.SummaryRow, error) {
	rows, err := r.db.Query(ctx, summarySelect+`
WHERE c.id = $2 AND (c.participant_a = $1 OR c.participant_b = $1)`, userID, id)
	if err != nil {
		return conversation.SummaryRow{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return conversation.SummaryRow{}, err
		}
		return conversation.SummaryRow{}, conversation.ErrNotFound
	}
	return scanSummary(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConversation(row scanner) (conversation.Conversation, error) {
	var c conversation.Conversation
	err := row.Scan(&c.ID, &c.ParticipantA, &c.ParticipantB, &c.InitiatorID, &c.Status, &c.CreatedAt, &c.AcceptedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return conversation.Conversation{}, conversation.ErrNotFound
		}
		return conversation.Conversation{}, err
	}
	return c, nil
}

func scanSummary(row scanner) (conversation.SummaryRow, error) {
	var s conversation.SummaryRow
	err := row.Scan(
		&s.Conversation.ID, &s.Conversation.ParticipantA, &s.Conversation.ParticipantB,
		&s.Conversation.InitiatorID, &s.Conversation.Status, &s.Conversation.CreatedAt, &s.Conversation.AcceptedAt,
		&s.LastMessageID, &s.LastMessageSenderID, &s.LastMessageContent, &s.LastMessageSentAt, &s.LastMessageIsRead,
		&s.UnreadCount,
	)
	if err != nil {
		return conversation.SummaryRow{}, err
	}
	return s, nil
}
