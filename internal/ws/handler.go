package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"hirelink/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub    *Hub
	jwt    jwt.Service
	opts   ClientOptions
	logger *log.Logger
}

func NewHandler(hub *Hub, jwtSvc jwt.Service, opts ClientOptions, logger *log.Logger) *Handler {
	return &Handler{hub: hub, jwt: jwtSvc, opts: opts, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWS upgrades an authenticated connection and joins it to the user's
// group. Browser WebSocket clients cannot set headers, so the token rides
// in the query string.
func (h *Handler) HandleWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.URL.Query().Get("token"))
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		claims, err := h.jwt.ValidateToken(token)
		if err != nil || claims.TokenType != jwt.TokenTypeAccess {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			if h.logger != nil {
				h.logger.Printf("WS upgrade error | error=%v", err)
			}
			return
		}

		client := NewClient(h.hub, conn, claims.UserID, h.opts)
		h.hub.Register(client)

		// Reconnect contract: on hello, clients re-poll conversations and
		// unread notifications to reconcile anything missed while offline.
		// Queued before the pumps start so it is the first frame out.
		if b, err := json.Marshal(Event{
			Type: EventHello,
			Data: map[string]string{"serverTime": time.Now().UTC().Format(time.RFC3339)},
		}); err == nil {
			client.send <- b
		}

		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}
