package handler

import (
	"context"
	"time"

	"hirelink/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type ClientCounter interface {
	ClientCount() int
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
	hub   ClientCounter
}

func NewHealthHandler(db, cache Pinger, hub ClientCounter) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, hub: hub}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}
	app.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.Map{
		"db":    componentStatus(ctx, h.db),
		"redis": componentStatus(ctx, h.cache),
	}
	if h.hub != nil {
		status["wsClients"] = h.hub.ClientCount()
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, status)
}

func componentStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
