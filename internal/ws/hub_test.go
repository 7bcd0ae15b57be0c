package ws

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(nil)
	go h.Run()
	return h
}

func waitForCount(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("client count never reached %d (now %d)", want, h.ClientCount())
}

func recvEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case b := <-c.send:
		var e Event
		if err := json.Unmarshal(b, &e); err != nil {
			t.Fatalf("bad event payload: %v", err)
		}
		return e
	case <-time.After(time.Second):
		t.Fatalf("no event received")
		return Event{}
	}
}

func TestPushTargetsEveryConnectionOfUser(t *testing.T) {
	h := startHub(t)
	userID := uuid.New()
	otherID := uuid.New()

	tab1 := NewClient(h, nil, userID, ClientOptions{})
	tab2 := NewClient(h, nil, userID, ClientOptions{})
	other := NewClient(h, nil, otherID, ClientOptions{})
	h.Register(tab1)
	h.Register(tab2)
	h.Register(other)
	waitForCount(t, h, 3)

	h.Push(userID, Event{Type: EventMessageRead, Data: map[string]string{"conversationId": "c1"}})

	for _, c := range []*Client{tab1, tab2} {
		e := recvEvent(t, c)
		if e.Type != EventMessageRead {
			t.Fatalf("expected %s, got %s", EventMessageRead, e.Type)
		}
	}

	select {
	case <-other.send:
		t.Fatalf("events must be targeted, not broadcast")
	default:
	}
}

func TestPushToOfflineUserIsDropped(t *testing.T) {
	h := startHub(t)

	// Must not panic or block.
	h.Push(uuid.New(), Event{Type: EventMessageReceived, Data: "x"})
}

func TestUnregisterRemovesMembership(t *testing.T) {
	h := startHub(t)
	userID := uuid.New()

	c := NewClient(h, nil, userID, ClientOptions{})
	h.Register(c)
	waitForCount(t, h, 1)
	if !h.UserOnline(userID) {
		t.Fatalf("user should be online")
	}

	h.Unregister(c)
	waitForCount(t, h, 0)
	if h.UserOnline(userID) {
		t.Fatalf("user should be offline after last disconnect")
	}

	// Unregistering again must be a no-op (no double close).
	h.Unregister(c)
	waitForCount(t, h, 0)
}

func TestConcurrentConnectionChurn(t *testing.T) {
	h := startHub(t)
	userID := uuid.New()

	const tabs = 32
	var wg sync.WaitGroup
	clients := make([]*Client, tabs)

	for i := 0; i < tabs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := NewClient(h, nil, userID, ClientOptions{})
			clients[i] = c
			h.Register(c)
		}(i)
	}
	wg.Wait()
	waitForCount(t, h, tabs)

	for i := 0; i < tabs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.Unregister(clients[i])
		}(i)
	}
	wg.Wait()
	waitForCount(t, h, 0)
}

func TestPushDuringDisconnectChurn(t *testing.T) {
	h := startHub(t)
	userID := uuid.New()

	stop := make(chan struct{})
	var wg sync.WaitGroup

	const pushers = 8
	for i := 0; i < pushers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					h.Push(userID, Event{Type: EventMessageReceived, Data: "x"})
				}
			}
		}()
	}

	// Connections come and go while the pushers run; a push landing on a
	// connection mid-teardown must drop, never panic.
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		c := NewClient(h, nil, userID, ClientOptions{})
		h.Register(c)
		h.Unregister(c)
	}
	close(stop)
	wg.Wait()
}

func TestSlowClientDoesNotBlockPush(t *testing.T) {
	h := startHub(t)
	userID := uuid.New()

	c := NewClient(h, nil, userID, ClientOptions{})
	h.Register(c)
	waitForCount(t, h, 1)

	// Fill the send buffer; further pushes must drop rather than block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < cap(c.send)+10; i++ {
			h.Push(userID, Event{Type: EventMessageReceived, Data: i})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("push blocked on a slow client")
	}
}
