package services

import (
	"context"

	"github.com/kessoku-hq/bocchi-life/pkg/chat"
)

// LLMService is the boundary to the external generative model. All
// narration text and stat-delta decisions originate behind it.
type LLMService interface {
	// InitModel prepares the model on startup.
	InitModel(ctx context.Context, modelName string) error

	// Narrate sends the assembled prompt and returns the parsed,
	// whitelisted narration result. A malformed reply yields
	// ErrMalformedNarration; callers fail closed to chat.Fallback().
	Narrate(ctx context.Context, messages []chat.ChatMessage) (*chat.NarrationResult, error)

	// Close releases the underlying client.
	Close() error
}
