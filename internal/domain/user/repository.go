package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user not found")

// Repository is the identity-resolution boundary; user management itself
// lives outside this service.
type Repository interface {
	GetProfile(ctx context.Context, id uuid.UUID) (Profile, error)
	GetProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Profile, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
