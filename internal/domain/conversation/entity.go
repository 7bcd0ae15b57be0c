package conversation

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	ID uuid.UUID

	// ParticipantA is always the lexically smaller of the two user ids so
	// that the pair is unique regardless of who initiated.
	ParticipantA uuid.UUID
	ParticipantB uuid.UUID

	InitiatorID uuid.UUID
	Status      Status
	CreatedAt   time.Time
	AcceptedAt  *time.Time
}

// NormalizePair orders two user ids into the stored (a, b) form.
func NormalizePair(x, y uuid.UUID) (uuid.UUID, uuid.UUID) {
	if x.String() < y.String() {
		return x, y
	}
	return y, x
}

func (c Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// OtherParticipant returns the participant that is not userID. The caller
// must already be a participant.
func (c Conversation) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}

// CanAccept reports whether userID may accept the pending request: only the
// receiver of a pending conversation may, never the initiator.
func (c Conversation) CanAccept(userID uuid.UUID) bool {
	return c.canAnswer(userID) && c.Status.CanTransitionTo(StatusAccepted)
}

func (c Conversation) CanReject(userID uuid.UUID) bool {
	return c.canAnswer(userID) && c.Status.CanTransitionTo(StatusRejected)
}

// CanBlock is legal for either participant from any non-blocked state.
func (c Conversation) CanBlock(userID uuid.UUID) bool {
	return c.HasParticipant(userID) && c.Status.CanTransitionTo(StatusBlocked)
}

func (c Conversation) canAnswer(userID uuid.UUID) bool {
	return c.HasParticipant(userID) && userID != c.InitiatorID
}
