package usecase

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrConversationBlocked = errors.New("conversation is blocked")
	ErrInternal            = errors.New("internal error")
)
