package repository

import (
	"context"

	"hirelink/internal/database"
	"hirelink/internal/domain/notification"

	"github.com/google/uuid"
)

type PostgresNotificationRepository struct {
	db database.DB
}

func NewPostgresNotificationRepository(db database.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	row := r.db.QueryRow(ctx, `
INSERT INTO notifications (user_id, type, content, link_to_action, is_read)
VALUES ($1, $2, $3, $4, FALSE)
RETURNING id, created_at`,
		n.UserID, n.Type, n.Content, n.LinkToAction,
	)
	if err := row.Scan(&n.ID, &n.CreatedAt); err != nil {
		return notification.Notification{}, err
	}
	n.IsRead = false
	return n, nil
}

func (r *PostgresNotificationRepository) ListUnread(ctx context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, user_id, type, content, link_to_action, is_read, created_at
FROM notifications
WHERE user_id = $1 AND is_read = FALSE
ORDER BY id DESC
LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notification.Notification, 0, limit)
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Content, &n.LinkToAction, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id int64, userID uuid.UUID) (bool, error) {
	n, err := r.db.Exec(ctx, `
UPDATE notifications
SET is_read = TRUE
WHERE id = $1 AND user_id = $2 AND is_read = FALSE`, id, userID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
