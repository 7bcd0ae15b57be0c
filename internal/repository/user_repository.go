package repository

import (
	"context"
	"errors"

	"hirelink/internal/database"
	"hirelink/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) GetProfile(ctx context.Context, id uuid.UUID) (user.Profile, error) {
	row := r.db.QueryRow(ctx, `
SELECT id, display_name, avatar_url, headline, company_name FROM users WHERE id = $1`, id)

	var p user.Profile
	if err := row.Scan(&p.ID, &p.DisplayName, &p.AvatarURL, &p.Headline, &p.CompanyName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Profile{}, user.ErrNotFound
		}
		return user.Profile{}, err
	}
	return p, nil
}

func (r *PostgresUserRepository) GetProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]user.Profile, error) {
	out := make(map[uuid.UUID]user.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `
SELECT id, display_name, avatar_url, headline, company_name FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p user.Profile
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.AvatarURL, &p.Headline, &p.CompanyName); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	row := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id)
	var ok bool
	if err := row.Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
