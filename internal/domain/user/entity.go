package user

import (
	"github.com/google/uuid"
)

// Profile is the public projection used to shape message and conversation
// payloads. Account records themselves are owned by the identity service;
// this package only reads the projection.
type Profile struct {
	ID          uuid.UUID
	DisplayName string
	AvatarURL   string
	Headline    string
	CompanyName string
}
