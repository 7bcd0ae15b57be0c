package handler

import (
	"errors"

	"hirelink/internal/delivery/http/middleware"
	"hirelink/internal/pkg/response"
	"hirelink/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MessageHandler struct {
	uc usecase.MessagingUsecase
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

func NewMessageHandler(uc usecase.MessagingUsecase) *MessageHandler {
	return &MessageHandler{uc: uc}
}

func (h *MessageHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/messages", h.Send)
}

func (h *MessageHandler) Send(c fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return response.Error(c, fiber.StatusUnauthorized, response.MessageUnauthorized, nil)
	}

	var req sendMessageRequest
	if err := c.Bind().Body(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}

	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
	}

	rec, err := h.uc.SendMessage(c.Context(), callerID, receiverID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			return response.Error(c, fiber.StatusBadRequest, response.MessageBadRequest, nil)
		case errors.Is(err, usecase.ErrConversationBlocked):
			return response.Error(c, fiber.StatusBadRequest, "Conversation is blocked", nil)
		case errors.Is(err, usecase.ErrNotFound):
			return response.Error(c, fiber.StatusNotFound, response.MessageNotFound, nil)
		default:
			return response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
		}
	}

	return response.Success(c, fiber.StatusOK, "Message sent successfully", rec)
}
