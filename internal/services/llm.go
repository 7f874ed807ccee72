package services

import (
	"context"

	"github.com/duskmantle/beacon/pkg/state"
)

const (
	ChatRoleUser   = "user"
	ChatRoleSystem = "system"
)

// ChatMessage is a single message sent to the text-generation backend.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMService calls a text-generation backend. The connection settings
// travel with the session (live_setup supplies them at runtime), so
// they are passed per call rather than fixed at construction.
type LLMService interface {
	ChatCompletion(ctx context.Context, cfg state.LiveConfig, messages []ChatMessage) (string, error)
}
