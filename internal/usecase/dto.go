package usecase

import (
	"time"

	"hirelink/internal/domain/conversation"

	"github.com/google/uuid"
)

// Participant is the resolved public identity of a conversation member;
// handlers never see raw foreign keys.
type Participant struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl"`
	Headline    string    `json:"headline"`
	CompanyName string    `json:"companyName"`
}

type MessageRecord struct {
	ID             uuid.UUID   `json:"id"`
	Seq            int64       `json:"seq"`
	ConversationID uuid.UUID   `json:"conversationId"`
	Sender         Participant `json:"sender"`
	Content        string      `json:"content"`
	SentAt         time.Time   `json:"sentAt"`
	IsRead         bool        `json:"isRead"`
	ReadAt         *time.Time  `json:"readAt,omitempty"`
}

type LastMessage struct {
	ID       uuid.UUID `json:"id"`
	SenderID uuid.UUID `json:"senderId"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sentAt"`
	IsRead   bool      `json:"isRead"`
}

type ConversationSummary struct {
	ID               uuid.UUID           `json:"id"`
	Status           conversation.Status `json:"status"`
	IsInitiator      bool                `json:"isInitiator"`
	OtherParticipant Participant         `json:"otherParticipant"`
	LastMessage      *LastMessage        `json:"lastMessage,omitempty"`
	UnreadCount      int                 `json:"unreadCount"`
	CreatedAt        time.Time           `json:"createdAt"`
	AcceptedAt       *time.Time          `json:"acceptedAt,omitempty"`
}

type NotificationItem struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	Content      string    `json:"content"`
	LinkToAction string    `json:"linkToAction"`
	IsRead       bool      `json:"isRead"`
	CreatedAt    time.Time `json:"createdAt"`
}
