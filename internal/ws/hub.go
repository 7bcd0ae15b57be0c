package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub keeps one addressable group per user identity; a user may hold any
// number of live connections (tabs, devices) in that group at once.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set := h.clients[client.userID]
			if set == nil {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			conns := len(set)
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS connected | user=%s user_conns=%d", client.userID, conns)
			}

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			if set, ok := h.clients[client.userID]; ok {
				if _, exists := set[client]; exists {
					delete(set, client)
					close(client.send)
				}
				if len(set) == 0 {
					delete(h.clients, client.userID)
				}
			}
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS disconnected | user=%s", client.userID)
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// Push delivers an event to every live connection of userID. Delivery is
// best-effort: a disconnected user receives nothing and slow connections
// are skipped rather than blocked on.
func (h *Hub) Push(userID uuid.UUID, event Event) {
	if h == nil {
		return
	}

	b, err := json.Marshal(event)
	if err != nil {
		if h.logger != nil {
			h.logger.Printf("WS marshal error | type=%s error=%v", event.Type, err)
		}
		return
	}

	// Sends stay under the read lock: unregister closes client.send under
	// the write lock, so a send can never race the close. Each send is a
	// non-blocking select, so the lock is never held on a slow connection.
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- b:
		default:
			if h.logger != nil {
				h.logger.Printf("WS push dropped | user=%s type=%s reason=buffer_full", userID, event.Type)
			}
		}
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	total := 0
	for _, set := range h.clients {
		total += len(set)
	}
	return total
}

// UserOnline reports whether at least one connection exists for userID.
func (h *Hub) UserOnline(userID uuid.UUID) bool {
	if h == nil {
		return false
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[userID]) > 0
}
