package repository

import (
	"context"

	"hirelink/internal/database"

	"github.com/google/uuid"
)

type PostgresFollowerRepository struct {
	db database.DB
}

func NewPostgresFollowerRepository(db database.DB) *PostgresFollowerRepository {
	return &PostgresFollowerRepository{db: db}
}

func (r *PostgresFollowerRepository) ListFollowerIDs(ctx context.Context, companyID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
SELECT user_id FROM company_followers WHERE company_id = $1 ORDER BY followed_at ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
