package handler

import (
	"strconv"

	"hirelink/internal/delivery/http/middleware"
	"hirelink/internal/pkg/response"
	"hirelink/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type NotificationHandler struct {
	uc usecase.NotificationUsecase
}

func NewNotificationHandler(uc usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/notifications")
	grp.Get("/unread", h.Unread)
	grp.Patch("/:id/read", h.MarkRead)
}

func (h *NotificationHandler) Unread(c fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return response.Error(c, fiber.StatusUnauthorized, response.MessageUnauthorized, nil)
	}

	items, err := h.uc.GetUnread(c.Context(), callerID)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return response.Error(c, fiber.StatusUnauthorized, response.MessageUnauthorized, nil)
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}

	changed, err := h.uc.MarkAsRead(c.Context(), id, callerID)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
	}
	if !changed {
		// Unknown, foreign, or already-read notifications all look the same
		// to the caller.
		return response.Error(c, fiber.StatusNotFound, response.MessageNotFound, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}
