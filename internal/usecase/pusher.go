package usecase

import (
	"hirelink/internal/ws"

	"github.com/google/uuid"
)

// Pusher is the advisory real-time channel. Implementations must never
// block: the durable write has already committed by the time Push runs.
type Pusher interface {
	Push(userID uuid.UUID, event ws.Event)
}

type statusChangedPayload struct {
	ConversationID uuid.UUID `json:"conversationId"`
	NewStatus      string    `json:"newStatus"`
}

type messageReadPayload struct {
	ConversationID uuid.UUID `json:"conversationId"`
}
