// Package cache bridges "the LLM generated N choices" to "the user
// clicked button K". Entries are keyed by player id and expire after a
// short TTL; nothing here is durable.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kessoku-hq/bocchi-life/pkg/chat"
	"github.com/kessoku-hq/bocchi-life/pkg/rules"
)

// DefaultTTL is how long a generated choice set stays clickable.
const DefaultTTL = 5 * time.Minute

// ChoiceSet is one batch of dynamic action buttons plus the validation
// context they were generated under.
type ChoiceSet struct {
	ID        uuid.UUID          `json:"id"`
	Choices   []chat.ActionChoice `json:"choices"`
	Context   rules.Context      `json:"context"`
	CreatedAt time.Time          `json:"created_at"`
}

// ChoiceCache stores at most one pending choice set per player. It is an
// injected dependency, never a package global.
type ChoiceCache interface {
	// Put stores the set, replacing any pending one for the player.
	Put(ctx context.Context, playerID string, set ChoiceSet) error

	// Get returns the pending set, or nil when absent or expired.
	Get(ctx context.Context, playerID string) (*ChoiceSet, error)

	// Delete removes the pending set, if any.
	Delete(ctx context.Context, playerID string) error

	// Close stops background work and releases connections.
	Close() error
}
