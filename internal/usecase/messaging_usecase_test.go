package usecase

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"
	"time"

	"hirelink/internal/database"
	"hirelink/internal/domain/conversation"
	"hirelink/internal/domain/message"
	"hirelink/internal/domain/user"
	"hirelink/internal/ws"

	"github.com/google/uuid"
)

type mockDB struct{}

func (mockDB) Exec(context.Context, string, ...any) (int64, error)          { return 0, nil }
func (mockDB) Query(context.Context, string, ...any) (database.Rows, error) { return nil, nil }
func (mockDB) QueryRow(context.Context, string, ...any) database.Row        { return nil }
func (mockDB) Ping(context.Context) error                                   { return nil }
func (mockDB) Close() error                                                 { return nil }
func (mockDB) Begin(context.Context) (database.Tx, error)                   { return mockTx{}, nil }
func (mockDB) SQLDB() *sql.DB                                               { return nil }

type mockTx struct{}

func (mockTx) Exec(context.Context, string, ...any) (int64, error)          { return 0, nil }
func (mockTx) Query(context.Context, string, ...any) (database.Rows, error) { return nil, nil }
func (mockTx) QueryRow(context.Context, string, ...any) database.Row        { return nil }
func (mockTx) Commit(context.Context) error                                 { return nil }
func (mockTx) Rollback(context.Context) error                               { return nil }

// fakeStore backs both the conversation and message repositories with maps
// so usecase flows can be exercised end to end.
type fakeStore struct {
	convs   map[uuid.UUID]conversation.Conversation
	msgs    []message.Message
	nextSeq int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{convs: map[uuid.UUID]conversation.Conversation{}}
}

func (s *fakeStore) GetOrCreate(_ context.Context, _ database.Querier, userA, userB, initiatorID uuid.UUID) (conversation.Conversation, error) {
	a, b := conversation.NormalizePair(userA, userB)
	for _, c := range s.convs {
		if c.ParticipantA == a && c.ParticipantB == b {
			return c, nil
		}
	}
	c := conversation.Conversation{
		ID:           uuid.New(),
		ParticipantA: a,
		ParticipantB: b,
		InitiatorID:  initiatorID,
		Status:       conversation.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	s.convs[c.ID] = c
	return c, nil
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (conversation.Conversation, error) {
	c, ok := s.convs[id]
	if !ok {
		return conversation.Conversation{}, conversation.ErrNotFound
	}
	return c, nil
}

func (s *fakeStore) GetForUpdate(ctx context.Context, _ database.Querier, id uuid.UUID) (conversation.Conversation, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeStore) UpdateStatus(_ context.Context, _ database.Querier, id uuid.UUID, status conversation.Status, acceptedAt *time.Time) error {
	c, ok := s.convs[id]
	if !ok {
		return conversation.ErrNotFound
	}
	c.Status = status
	if acceptedAt != nil {
		c.AcceptedAt = acceptedAt
	}
	s.convs[id] = c
	return nil
}

func (s *fakeStore) ListSummaries(_ context.Context, userID uuid.UUID) ([]conversation.SummaryRow, error) {
	out := make([]conversation.SummaryRow, 0)
	for _, c := range s.convs {
		if !c.HasParticipant(userID) {
			continue
		}
		out = append(out, s.summarize(c, userID))
	}
	sort.Slice(out, func(i, j int) bool {
		return summaryTime(out[i]).After(summaryTime(out[j]))
	})
	return out, nil
}

func (s *fakeStore) GetSummary(_ context.Context, id, userID uuid.UUID) (conversation.SummaryRow, error) {
	c, ok := s.convs[id]
	if !ok || !c.HasParticipant(userID) {
		return conversation.SummaryRow{}, conversation.ErrNotFound
	}
	return s.summarize(c, userID), nil
}

func summaryTime(row conversation.SummaryRow) time.Time {
	if row.LastMessageSentAt != nil {
		return *row.LastMessageSentAt
	}
	return row.Conversation.CreatedAt
}

func (s *fakeStore) summarize(c conversation.Conversation, userID uuid.UUID) conversation.SummaryRow {
	row := conversation.SummaryRow{Conversation: c}
	for i := range s.msgs {
		m := s.msgs[i]
		if m.ConversationID != c.ID {
			continue
		}
		if m.SenderID != userID && !m.IsRead {
			row.UnreadCount++
		}
		if row.LastMessageSentAt == nil || m.SentAt.After(*row.LastMessageSentAt) {
			row.LastMessageID = &m.ID
			row.LastMessageSenderID = &m.SenderID
			row.LastMessageContent = &m.Content
			row.LastMessageSentAt = &m.SentAt
			row.LastMessageIsRead = &m.IsRead
		}
	}
	return row
}

func (s *fakeStore) Create(_ context.Context, _ database.Querier, m message.Message) (message.Message, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	s.nextSeq++
	m.Seq = s.nextSeq
	s.msgs = append(s.msgs, m)
	return m, nil
}

func (s *fakeStore) ListByConversation(_ context.Context, conversationID uuid.UUID) ([]message.Message, error) {
	out := make([]message.Message, 0)
	for _, m := range s.msgs {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].Seq < out[j].Seq
		}
		return out[i].SentAt.Before(out[j].SentAt)
	})
	return out, nil
}

func (s *fakeStore) MarkRead(_ context.Context, _ database.Querier, conversationID, readerID uuid.UUID, readAt time.Time) (int64, error) {
	var n int64
	for i := range s.msgs {
		m := &s.msgs[i]
		if m.ConversationID == conversationID && m.SenderID != readerID && !m.IsRead {
			m.IsRead = true
			t := readAt
			m.ReadAt = &t
			n++
		}
	}
	return n, nil
}

type fakeUsers struct {
	profiles map[uuid.UUID]user.Profile
}

func (f fakeUsers) GetProfile(_ context.Context, id uuid.UUID) (user.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return user.Profile{}, user.ErrNotFound
	}
	return p, nil
}

func (f fakeUsers) GetProfiles(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]user.Profile, error) {
	out := map[uuid.UUID]user.Profile{}
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f fakeUsers) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.profiles[id]
	return ok, nil
}

type fakePusher struct {
	events map[uuid.UUID][]ws.Event
}

func newFakePusher() *fakePusher {
	return &fakePusher{events: map[uuid.UUID][]ws.Event{}}
}

func (p *fakePusher) Push(userID uuid.UUID, event ws.Event) {
	p.events[userID] = append(p.events[userID], event)
}

func (p *fakePusher) count(userID uuid.UUID, eventType string) int {
	n := 0
	for _, e := range p.events[userID] {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

type fakeNotifier struct {
	receivers []uuid.UUID
}

func (n *fakeNotifier) NotifyNewMessage(_ context.Context, receiverID uuid.UUID, _ string, _ uuid.UUID) {
	n.receivers = append(n.receivers, receiverID)
}

type fixture struct {
	store    *fakeStore
	pusher   *fakePusher
	notifier *fakeNotifier
	uc       *Messaging
	userA    uuid.UUID
	userB    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	userA := uuid.New()
	userB := uuid.New()
	store := newFakeStore()
	pusher := newFakePusher()
	notifier := &fakeNotifier{}
	users := fakeUsers{profiles: map[uuid.UUID]user.Profile{
		userA: {ID: userA, DisplayName: "Alice"},
		userB: {ID: userB, DisplayName: "Bob"},
	}}

	uc := NewMessagingUsecase(mockDB{}, store, store, users, notifier, pusher, nil)
	return &fixture{store: store, pusher: pusher, notifier: notifier, uc: uc, userA: userA, userB: userB}
}

func (f *fixture) conversationID(t *testing.T) uuid.UUID {
	t.Helper()
	if len(f.store.convs) != 1 {
		t.Fatalf("expected exactly 1 conversation, got %d", len(f.store.convs))
	}
	for id := range f.store.convs {
		return id
	}
	return uuid.Nil
}

func TestSendMessage_CreatesPendingConversation(t *testing.T) {
	f := newFixture(t)

	rec, err := f.uc.SendMessage(context.Background(), f.userA, f.userB, "Hi")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.Sender.DisplayName != "Alice" {
		t.Fatalf("expected resolved sender profile, got %+v", rec.Sender)
	}

	convID := f.conversationID(t)
	conv := f.store.convs[convID]
	if conv.Status != conversation.StatusPending {
		t.Fatalf("expected pending, got %s", conv.Status)
	}
	if conv.InitiatorID != f.userA {
		t.Fatalf("expected initiator A")
	}

	summaries, err := f.uc.GetConversations(context.Background(), f.userB)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(summaries) != 1 || summaries[0].UnreadCount != 1 {
		t.Fatalf("expected B unread count 1, got %+v", summaries)
	}
	if summaries[0].IsInitiator {
		t.Fatalf("B is not the initiator")
	}

	if f.pusher.count(f.userA, ws.EventMessageReceived) != 1 {
		t.Fatalf("sender should receive an echo push")
	}
	if f.pusher.count(f.userB, ws.EventMessageReceived) != 1 {
		t.Fatalf("receiver should receive a push")
	}
	if len(f.notifier.receivers) != 1 || f.notifier.receivers[0] != f.userB {
		t.Fatalf("only the receiver gets a notification, got %v", f.notifier.receivers)
	}
}

func TestSendMessage_InvalidInput(t *testing.T) {
	f := newFixture(t)

	if _, err := f.uc.SendMessage(context.Background(), f.userA, f.userB, "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty content, got %v", err)
	}
	if _, err := f.uc.SendMessage(context.Background(), f.userA, f.userA, "hello"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self-message, got %v", err)
	}
	if _, err := f.uc.SendMessage(context.Background(), f.userA, uuid.New(), "hello"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown receiver, got %v", err)
	}
}

func TestSendMessage_ReusesConversationAcrossDirections(t *testing.T) {
	f := newFixture(t)

	if _, err := f.uc.SendMessage(context.Background(), f.userA, f.userB, "hi"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := f.uc.SendMessage(context.Background(), f.userB, f.userA, "hello back"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(f.store.convs) != 1 {
		t.Fatalf("expected one conversation per unordered pair, got %d", len(f.store.convs))
	}
}

func TestAccept_ByInitiatorFails(t *testing.T) {
	f := newFixture(t)
	_, _ = f.uc.SendMessage(context.Background(), f.userA, f.userB, "hi")
	convID := f.conversationID(t)

	changed, err := f.uc.Accept(context.Background(), convID, f.userA)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if changed {
		t.Fatalf("initiator accept must fail silently")
	}
	if f.store.convs[convID].Status != conversation.StatusPending {
		t.Fatalf("status must remain pending")
	}
}

func TestAccept_ByReceiver(t *testing.T) {
	f := newFixture(t)
	_, _ = f.uc.SendMessage(context.Background(), f.userA, f.userB, "hi")
	convID := f.conversationID(t)

	changed, err := f.uc.Accept(context.Background(), convID, f.userB)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !changed {
		t.Fatalf("receiver accept must succeed")
	}

	conv := f.store.convs[convID]
	if conv.Status != conversation.StatusAccepted {
		t.Fatalf("expected accepted, got %s", conv.Status)
	}
	if conv.AcceptedAt == nil {
		t.Fatalf("acceptedAt must be set")
	}

	if f.pusher.count(f.userA, ws.EventConversationStatusChanged) != 1 ||
		f.pusher.count(f.userB, ws.EventConversationStatusChanged) != 1 {
		t.Fatalf("both participants must receive a status-changed push")
	}
}

func TestAccept_UnknownConversationFailsSilently(t *testing.T) {
	f := newFixture(t)

	changed, err := f.uc.Accept(context.Background(), uuid.New(), f.userB)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if changed {
		t.Fatalf("accept on missing conversation must report false")
	}
}

func TestBlock_ThenSendFails(t *testing.T) {
	f := newFixture(t)
	_, _ = f.uc.SendMessage(context.Background(), f.userA, f.userB, "hi")
	convID := f.conversationID(t)

	changed, err := f.uc.Block(context.Background(), convID, f.userB)
	if err != nil || !changed {
		t.Fatalf("block by participant must succeed, changed=%v err=%v", changed, err)
	}

	before := len(f.store.msgs)
	_, err = f.uc.SendMessage(context.Background(), f.userA, f.userB, "hello")
	if !errors.Is(err, ErrConversationBlocked) {
		t.Fatalf("expected ErrConversationBlocked, got %v", err)
	}
	if len(f.store.msgs) != before {
		t.Fatalf("no message may persist into a blocked conversation")
	}
}

func TestBlock_FromAccepted(t *testing.T) {
	f := newFixture(t)
	_, _ = f.uc.SendMessage(context.Background(), f.userA, f.userB, "hi")
	convID := f.conversationID(t)

	if changed, _ := f.uc.Accept(context.Background(), convID, f.userB); !changed {
		t.Fatalf("accept should succeed")
	}
	if changed, _ := f.uc.Block(context.Background(), convID, f.userA); !changed {
		t.Fatalf("block from accepted should succeed for either participant")
	}
	if changed, _ := f.uc.Accept(context.Background(), convID, f.userB); changed {
		t.Fatalf("accept after block must fail")
	}
}

func TestMarkAsRead_Idempotent(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		if _, err := f.uc.SendMessage(context.Background(), f.userA, f.userB, "msg"); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}
	convID := f.conversationID(t)

	if err := f.uc.MarkAsRead(context.Background(), convID, f.userB); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	for _, m := range f.store.msgs {
		if !m.IsRead || m.ReadAt == nil {
			t.Fatalf("every message from A must be read")
		}
	}
	if f.pusher.count(f.userA, ws.EventMessageRead) != 1 {
		t.Fatalf("read receipt must target the original sender once")
	}
	if f.pusher.count(f.userB, ws.EventMessageRead) != 0 {
		t.Fatalf("reader must not receive its own read receipt")
	}

	snapshot := make([]message.Message, len(f.store.msgs))
	copy(snapshot, f.store.msgs)

	if err := f.uc.MarkAsRead(context.Background(), convID, f.userB); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for i, m := range f.store.msgs {
		if m.IsRead != snapshot[i].IsRead || !m.ReadAt.Equal(*snapshot[i].ReadAt) {
			t.Fatalf("second markAsRead must not change persisted state")
		}
	}

	summaries, _ := f.uc.GetConversations(context.Background(), f.userB)
	if summaries[0].UnreadCount != 0 {
		t.Fatalf("unread count must be 0 after markAsRead, got %d", summaries[0].UnreadCount)
	}
}

func TestMarkAsRead_NonParticipant(t *testing.T) {
	f := newFixture(t)
	_, _ = f.uc.SendMessage(context.Background(), f.userA, f.userB, "hi")
	convID := f.conversationID(t)

	if err := f.uc.MarkAsRead(context.Background(), convID, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("non-participants see not-found, got %v", err)
	}
}

func TestGetMessages_NonParticipantSeesNotFound(t *testing.T) {
	f := newFixture(t)
	_, _ = f.uc.SendMessage(context.Background(), f.userA, f.userB, "hi")
	convID := f.conversationID(t)

	if _, err := f.uc.GetMessages(context.Background(), convID, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetMessages_TotalOrderWithTimestampTies(t *testing.T) {
	f := newFixture(t)

	ts := time.Now().UTC()
	f.uc.now = func() time.Time { return ts }

	for i := 0; i < 4; i++ {
		if _, err := f.uc.SendMessage(context.Background(), f.userA, f.userB, "same instant"); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}
	convID := f.conversationID(t)

	first, err := f.uc.GetMessages(context.Background(), convID, f.userB)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for i := 1; i < len(first); i++ {
		if first[i].Seq <= first[i-1].Seq {
			t.Fatalf("seq must break timestamp ties in ascending order")
		}
	}

	second, _ := f.uc.GetMessages(context.Background(), convID, f.userA)
	if len(first) != len(second) {
		t.Fatalf("order must be stable across calls")
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("order must be identical for every reader")
		}
	}
}

func TestGetConversation_ShapesOtherParticipant(t *testing.T) {
	f := newFixture(t)
	_, _ = f.uc.SendMessage(context.Background(), f.userA, f.userB, "hi")
	convID := f.conversationID(t)

	summary, err := f.uc.GetConversation(context.Background(), convID, f.userA)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if summary.OtherParticipant.ID != f.userB || summary.OtherParticipant.DisplayName != "Bob" {
		t.Fatalf("expected Bob as the other participant, got %+v", summary.OtherParticipant)
	}
	if !summary.IsInitiator {
		t.Fatalf("A initiated the conversation")
	}
	if summary.LastMessage == nil || summary.LastMessage.Content != "hi" {
		t.Fatalf("expected last message to be shaped in")
	}
}
