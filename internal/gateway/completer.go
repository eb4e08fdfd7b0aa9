package gateway

import (
	"context"
	"errors"
)

var (
	// ErrInvalidConfig indicates invalid gateway configuration.
	ErrInvalidConfig = errors.New("invalid gateway configuration")

	// ErrEmptyPrompt indicates a completion request with no messages.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrRateLimited indicates the provider rejected the request for
	// rate limiting. Retryable.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrAuthentication indicates invalid or missing credentials.
	// Never retried.
	ErrAuthentication = errors.New("provider authentication failed")

	// ErrUnavailable indicates a transport failure or provider-side
	// error. Retryable.
	ErrUnavailable = errors.New("provider unavailable")
)

// Role identifies a message author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a chat completion prompt.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Completer produces a chat completion for a message sequence.
type Completer interface {
	// Complete returns the assistant's reply to the given messages.
	Complete(ctx context.Context, messages []Message) (string, error)
}
