package handler

import (
	"context"
	"errors"

	"hirelink/internal/delivery/http/middleware"
	"hirelink/internal/pkg/response"
	"hirelink/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ConversationHandler struct {
	uc usecase.MessagingUsecase
}

func NewConversationHandler(uc usecase.MessagingUsecase) *ConversationHandler {
	return &ConversationHandler{uc: uc}
}

func (h *ConversationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/conversations")
	grp.Get("/", h.List)
	grp.Get("/:id", h.Get)
	grp.Get("/:id/messages", h.Messages)
	grp.Post("/:id/accept", h.Accept)
	grp.Post("/:id/reject", h.Reject)
	grp.Post("/:id/block", h.Block)
	grp.Put("/:id/read", h.MarkRead)
}

func (h *ConversationHandler) List(c fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return response.Error(c, fiber.StatusUnauthorized, response.MessageUnauthorized, nil)
	}

	items, err := h.uc.GetConversations(c.Context(), callerID)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *ConversationHandler) Get(c fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return response.Error(c, fiber.StatusUnauthorized, response.MessageUnauthorized, nil)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}

	item, err := h.uc.GetConversation(c.Context(), id, callerID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, response.MessageNotFound, nil)
		}
		return response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, item)
}

func (h *ConversationHandler) Messages(c fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return response.Error(c, fiber.StatusUnauthorized, response.MessageUnauthorized, nil)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}

	items, err := h.uc.GetMessages(c.Context(), id, callerID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, response.MessageNotFound, nil)
		}
		return response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *ConversationHandler) Accept(c fiber.Ctx) error {
	return h.transition(c, h.uc.Accept, "Conversation accepted")
}

func (h *ConversationHandler) Reject(c fiber.Ctx) error {
	return h.transition(c, h.uc.Reject, "Conversation rejected")
}

func (h *ConversationHandler) Block(c fiber.Ctx) error {
	return h.transition(c, h.uc.Block, "Conversation blocked")
}

func (h *ConversationHandler) transition(c fiber.Ctx, fn func(ctx context.Context, conversationID, callerID uuid.UUID) (bool, error), okMsg string) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return response.Error(c, fiber.StatusUnauthorized, response.MessageUnauthorized, nil)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}

	changed, err := fn(c.Context(), id, callerID)
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
	}
	if !changed {
		return response.Error(c, fiber.StatusBadRequest, "Conversation transition not allowed", nil)
	}
	return response.Success(c, fiber.StatusOK, okMsg, nil)
}

func (h *ConversationHandler) MarkRead(c fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return response.Error(c, fiber.StatusUnauthorized, response.MessageUnauthorized, nil)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}

	if err := h.uc.MarkAsRead(c.Context(), id, callerID); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, response.MessageNotFound, nil)
		}
		return response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}
