package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"hirelink/internal/database"
	"hirelink/internal/domain/conversation"
	"hirelink/internal/domain/message"
	"hirelink/internal/domain/user"
	"hirelink/internal/ws"

	"github.com/google/uuid"
)

// MessageNotifier persists the at-rest notification for a new message;
// failures stay on the notifier's side and never fail the send.
type MessageNotifier interface {
	NotifyNewMessage(ctx context.Context, receiverID uuid.UUID, senderName string, conversationID uuid.UUID)
}

type MessagingUsecase interface {
	SendMessage(ctx context.Context, senderID, receiverID uuid.UUID, content string) (MessageRecord, error)
	GetMessages(ctx context.Context, conversationID, callerID uuid.UUID) ([]MessageRecord, error)
	MarkAsRead(ctx context.Context, conversationID, callerID uuid.UUID) error
	GetConversations(ctx context.Context, callerID uuid.UUID) ([]ConversationSummary, error)
	GetConversation(ctx context.Context, conversationID, callerID uuid.UUID) (ConversationSummary, error)

	Accept(ctx context.Context, conversationID, callerID uuid.UUID) (bool, error)
	Reject(ctx context.Context, conversationID, callerID uuid.UUID) (bool, error)
	Block(ctx context.Context, conversationID, callerID uuid.UUID) (bool, error)
}

type Messaging struct {
	db            database.DB
	conversations conversation.Repository
	messages      message.Repository
	users         user.Repository
	notifier      MessageNotifier
	pusher        Pusher
	logger        *log.Logger

	now func() time.Time
}

func NewMessagingUsecase(
	db database.DB,
	conversations conversation.Repository,
	messages message.Repository,
	users user.Repository,
	notifier MessageNotifier,
	pusher Pusher,
	logger *log.Logger,
) *Messaging {
	return &Messaging{
		db:            db,
		conversations: conversations,
		messages:      messages,
		users:         users,
		notifier:      notifier,
		pusher:        pusher,
		logger:        logger,
		now:           time.Now,
	}
}

func (u *Messaging) SendMessage(ctx context.Context, senderID, receiverID uuid.UUID, content string) (MessageRecord, error) {
	content = strings.TrimSpace(content)
	if content == "" || senderID == uuid.Nil || receiverID == uuid.Nil || senderID == receiverID {
		return MessageRecord{}, ErrInvalidInput
	}

	exists, err := u.users.Exists(ctx, receiverID)
	if err != nil {
		return MessageRecord{}, ErrInternal
	}
	if !exists {
		return MessageRecord{}, ErrNotFound
	}

	senderProfile, err := u.users.GetProfile(ctx, senderID)
	if err != nil {
		return MessageRecord{}, ErrInternal
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return MessageRecord{}, ErrInternal
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	conv, err := u.conversations.GetOrCreate(ctx, tx, senderID, receiverID, senderID)
	if err != nil {
		return MessageRecord{}, ErrInternal
	}
	if conv.Status == conversation.StatusBlocked {
		return MessageRecord{}, ErrConversationBlocked
	}

	msg, err := u.messages.Create(ctx, tx, message.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
		SentAt:         u.now().UTC(),
	})
	if err != nil {
		return MessageRecord{}, ErrInternal
	}

	if err := tx.Commit(ctx); err != nil {
		return MessageRecord{}, ErrInternal
	}

	rec := toMessageRecord(msg, senderProfile)

	// Push and notification are side effects of an already-committed write.
	if u.pusher != nil {
		evt := ws.Event{Type: ws.EventMessageReceived, Data: rec}
		u.pusher.Push(senderID, evt)
		u.pusher.Push(receiverID, evt)
	}
	if u.notifier != nil {
		u.notifier.NotifyNewMessage(ctx, receiverID, senderProfile.DisplayName, conv.ID)
	}

	return rec, nil
}

func (u *Messaging) GetMessages(ctx context.Context, conversationID, callerID uuid.UUID) ([]MessageRecord, error) {
	conv, err := u.loadForParticipant(ctx, conversationID, callerID)
	if err != nil {
		return nil, err
	}

	msgs, err := u.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, ErrInternal
	}

	profiles, err := u.users.GetProfiles(ctx, []uuid.UUID{conv.ParticipantA, conv.ParticipantB})
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]MessageRecord, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageRecord(m, profiles[m.SenderID]))
	}
	return out, nil
}

func (u *Messaging) MarkAsRead(ctx context.Context, conversationID, callerID uuid.UUID) error {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return ErrInternal
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	conv, err := u.conversations.GetForUpdate(ctx, tx, conversationID)
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	if !conv.HasParticipant(callerID) {
		// Non-participants learn nothing about existence.
		return ErrNotFound
	}

	n, err := u.messages.MarkRead(ctx, tx, conversationID, callerID, u.now().UTC())
	if err != nil {
		return ErrInternal
	}

	if err := tx.Commit(ctx); err != nil {
		return ErrInternal
	}

	if u.logger != nil && n > 0 {
		u.logger.Printf("messages marked read | conversation=%s reader=%s count=%d", conversationID, callerID, n)
	}

	// Best-effort notice to the original sender; may be resent on repeat
	// calls, which readers must tolerate.
	if u.pusher != nil {
		u.pusher.Push(conv.OtherParticipant(callerID), ws.Event{
			Type: ws.EventMessageRead,
			Data: messageReadPayload{ConversationID: conversationID},
		})
	}

	return nil
}

func (u *Messaging) GetConversations(ctx context.Context, callerID uuid.UUID) ([]ConversationSummary, error) {
	rows, err := u.conversations.ListSummaries(ctx, callerID)
	if err != nil {
		return nil, ErrInternal
	}

	otherIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		otherIDs = append(otherIDs, row.Conversation.OtherParticipant(callerID))
	}

	profiles, err := u.users.GetProfiles(ctx, otherIDs)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]ConversationSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, toSummary(row, callerID, profiles))
	}
	return out, nil
}

func (u *Messaging) GetConversation(ctx context.Context, conversationID, callerID uuid.UUID) (ConversationSummary, error) {
	row, err := u.conversations.GetSummary(ctx, conversationID, callerID)
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return ConversationSummary{}, ErrNotFound
		}
		return ConversationSummary{}, ErrInternal
	}

	otherID := row.Conversation.OtherParticipant(callerID)
	profiles, err := u.users.GetProfiles(ctx, []uuid.UUID{otherID})
	if err != nil {
		return ConversationSummary{}, ErrInternal
	}

	return toSummary(row, callerID, profiles), nil
}

func (u *Messaging) Accept(ctx context.Context, conversationID, callerID uuid.UUID) (bool, error) {
	return u.transition(ctx, conversationID, callerID, conversation.StatusAccepted)
}

func (u *Messaging) Reject(ctx context.Context, conversationID, callerID uuid.UUID) (bool, error) {
	return u.transition(ctx, conversationID, callerID, conversation.StatusRejected)
}

func (u *Messaging) Block(ctx context.Context, conversationID, callerID uuid.UUID) (bool, error) {
	return u.transition(ctx, conversationID, callerID, conversation.StatusBlocked)
}

// transition applies a status change under a row lock so concurrent
// transitions on the same conversation serialize; an illegal transition
// reports false rather than an error.
func (u *Messaging) transition(ctx context.Context, conversationID, callerID uuid.UUID, target conversation.Status) (bool, error) {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return false, ErrInternal
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	conv, err := u.conversations.GetForUpdate(ctx, tx, conversationID)
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return false, nil
		}
		return false, ErrInternal
	}

	var allowed bool
	var acceptedAt *time.Time
	switch target {
	case conversation.StatusAccepted:
		allowed = conv.CanAccept(callerID)
		if allowed {
			t := u.now().UTC()
			acceptedAt = &t
		}
	case conversation.StatusRejected:
		allowed = conv.CanReject(callerID)
	case conversation.StatusBlocked:
		allowed = conv.CanBlock(callerID)
	}
	if !allowed {
		return false, nil
	}

	if err := u.conversations.UpdateStatus(ctx, tx, conversationID, target, acceptedAt); err != nil {
		return false, ErrInternal
	}
	if err := tx.Commit(ctx); err != nil {
		return false, ErrInternal
	}

	if u.pusher != nil {
		evt := ws.Event{
			Type: ws.EventConversationStatusChanged,
			Data: statusChangedPayload{ConversationID: conversationID, NewStatus: string(target)},
		}
		u.pusher.Push(conv.ParticipantA, evt)
		u.pusher.Push(conv.ParticipantB, evt)
	}

	return true, nil
}

func (u *Messaging) loadForParticipant(ctx context.Context, conversationID, callerID uuid.UUID) (conversation.Conversation, error) {
	conv, err := u.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return conversation.Conversation{}, ErrNotFound
		}
		return conversation.Conversation{}, ErrInternal
	}
	if !conv.HasParticipant(callerID) {
		return conversation.Conversation{}, ErrNotFound
	}
	return conv, nil
}

func toMessageRecord(m message.Message, sender user.Profile) MessageRecord {
	return MessageRecord{
		ID:             m.ID,
		Seq:            m.Seq,
		ConversationID: m.ConversationID,
		Sender:         toParticipant(m.SenderID, sender),
		Content:        m.Content,
		SentAt:         m.SentAt,
		IsRead:         m.IsRead,
		ReadAt:         m.ReadAt,
	}
}

func toSummary(row conversation.SummaryRow, callerID uuid.UUID, profiles map[uuid.UUID]user.Profile) ConversationSummary {
	conv := row.Conversation
	otherID := conv.OtherParticipant(callerID)

	s := ConversationSummary{
		ID:               conv.ID,
		Status:           conv.Status,
		IsInitiator:      conv.InitiatorID == callerID,
		OtherParticipant: toParticipant(otherID, profiles[otherID]),
		UnreadCount:      row.UnreadCount,
		CreatedAt:        conv.CreatedAt,
		AcceptedAt:       conv.AcceptedAt,
	}

	if row.LastMessageID != nil {
		s.LastMessage = &LastMessage{
			ID:       *row.LastMessageID,
			SenderID: *row.LastMessageSenderID,
			Content:  *row.LastMessageContent,
			SentAt:   *row.LastMessageSentAt,
			IsRead:   *row.LastMessageIsRead,
		}
	}

	return s
}

func toParticipant(id uuid.UUID, p user.Profile) Participant {
	if p.ID == uuid.Nil {
		// Profile resolution came up empty; keep the id so the client can
		// still address the user.
		return Participant{ID: id}
	}
	return Participant{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		Headline:    p.Headline,
		CompanyName: p.CompanyName,
	}
}
