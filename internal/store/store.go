// Package store persists per-player game state in SQLite.
package store

import (
	"context"
	"errors"

	"github.com/kessoku-hq/bocchi-life/pkg/player"
)

var (
	// ErrPlayerExists is returned by Create for a duplicate discord id.
	ErrPlayerExists = errors.New("player already registered")

	// ErrInvalidField is returned when a write names a column outside
	// the allowed set for that operation.
	ErrInvalidField = errors.New("invalid player field")
)

// PlayerStore is the persistence boundary for player rows.
//
// SetField and ApplyDelta are deliberately two distinct operations:
// absolute writes (weather, seeding) and relative stat accumulation must
// never share a call path, or call sites silently produce runaway
// accumulation or accidental resets.
type PlayerStore interface {
	// Get returns the player row, or nil when not registered.
	Get(ctx context.Context, discordID string) (*player.Player, error)

	// Create inserts a new row with all relationship counters at zero.
	Create(ctx context.Context, discordID string, origin player.OriginStory, energy int) error

	// SetField performs an absolute write: SET field = value.
	SetField(ctx context.Context, discordID string, field string, value any) error

	// ApplyDelta performs relative accumulation: SET field = field + n
	// for every whitelisted key in the delta.
	ApplyDelta(ctx context.Context, discordID string, delta player.StatDelta) error

	// AddKnownCharacter appends a name to the known-characters list.
	// Idempotent; reports whether the name was newly added.
	AddKnownCharacter(ctx context.Context, discordID string, name string) (bool, error)

	// RecoverEnergy adds energy, clamped at player.MaxEnergy. This is
	// the only clamped write path.
	RecoverEnergy(ctx context.Context, discordID string, amount int) error

	// RestoreAllEnergy raises every player's energy to at least the
	// given floor. The 05:00 sweep uses it; the lazy per-player reset
	// covers players it misses.
	RestoreAllEnergy(ctx context.Context, floor int) error

	// Migrate creates the schema and runs the one-time legacy
	// action_points backfill.
	Migrate(ctx context.Context) error

	// Ping verifies the connection.
	Ping(ctx context.Context) error

	// Close releases the database handle.
	Close() error
}
