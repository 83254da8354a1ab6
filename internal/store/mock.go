package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/kessoku-hq/bocchi-life/pkg/player"
)

// MockStore is an in-memory PlayerStore for handler and engine tests.
// Stat columns are kept in a flat map mirroring the SQLite layout.
type MockStore struct {
	mu      sync.Mutex
	rows    map[string]*mockRow
	FailAll bool // force every operation to error
}

type mockRow struct {
	player player.Player
	stats  map[string]int
}

var _ PlayerStore = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{rows: make(map[string]*mockRow)}
}

func (m *MockStore) fail() error {
	if m.FailAll {
		return fmt.Errorf("mock store failure")
	}
	return nil
}

func (m *MockStore) Get(ctx context.Context, discordID string) (*player.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}

	row, ok := m.rows[discordID]
	if !ok {
		return nil, nil
	}

	p := row.player
	p.Energy = row.stats["energy"]
	p.KnownCharacters = slices.Clone(row.player.KnownCharacters)
	p.Relationships = make(map[string]player.Relationship, 4)
	for _, name := range []string{"bocchi", "nijika", "ryo", "kita"} {
		p.Relationships[name] = player.Relationship{
			Trust:     row.stats[name+"_trust"],
			Comfort:   row.stats[name+"_comfort"],
			Affection: row.stats[name+"_affection"],
		}
	}
	return &p, nil
}

func (m *MockStore) Create(ctx context.Context, discordID string, origin player.OriginStory, energy int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	if _, ok := m.rows[discordID]; ok {
		return ErrPlayerExists
	}

	stats := make(map[string]int)
	for _, f := range player.StatFields() {
		stats[f] = 0
	}
	stats["energy"] = energy

	m.rows[discordID] = &mockRow{
		player: player.Player{
			DiscordID:   discordID,
			OriginStory: origin,
		},
		stats: stats,
	}
	return nil
}

func (m *MockStore) SetField(ctx context.Context, discordID string, field string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	row, ok := m.rows[discordID]
	if !ok {
		return nil // UPDATE on a missing row affects nothing
	}

	switch field {
	case "origin_story":
		row.player.OriginStory = player.OriginStory(fmt.Sprint(value))
	case "last_played_date":
		row.player.LastPlayedDate = fmt.Sprint(value)
	case "current_weather":
		row.player.CurrentWeather = fmt.Sprint(value)
	case "energy":
		n, ok := value.(int)
		if !ok {
			return fmt.Errorf("%w: energy must be an int", ErrInvalidField)
		}
		row.stats["energy"] = n
	default:
		return fmt.Errorf("%w: %s is not settable", ErrInvalidField, field)
	}
	return nil
}

func (m *MockStore) ApplyDelta(ctx context.Context, discordID string, delta player.StatDelta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	row, ok := m.rows[discordID]
	if !ok {
		return nil
	}
	for k, v := range delta {
		if !player.IsStatField(k) {
			return fmt.Errorf("%w: %s", ErrInvalidField, k)
		}
		row.stats[k] += v
	}
	return nil
}

func (m *MockStore) AddKnownCharacter(ctx context.Context, discordID string, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return false, err
	}
	row, ok := m.rows[discordID]
	if !ok {
		return false, fmt.Errorf("player not found: %s", discordID)
	}
	if slices.Contains(row.player.KnownCharacters, name) {
		return false, nil
	}
	row.player.KnownCharacters = append(row.player.KnownCharacters, name)
	return true, nil
}

func (m *MockStore) RecoverEnergy(ctx context.Context, discordID string, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	row, ok := m.rows[discordID]
	if !ok {
		return nil
	}
	row.stats["energy"] += amount
	if row.stats["energy"] > player.MaxEnergy {
		row.stats["energy"] = player.MaxEnergy
	}
	return nil
}

func (m *MockStore) RestoreAllEnergy(ctx context.Context, floor int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	if floor > player.MaxEnergy {
		floor = player.MaxEnergy
	}
	for _, row := range m.rows {
		if row.stats["energy"] < floor {
			row.stats["energy"] = floor
		}
	}
	return nil
}

func (m *MockStore) Migrate(ctx context.Context) error { return m.fail() }
func (m *MockStore) Ping(ctx context.Context) error    { return m.fail() }
func (m *MockStore) Close() error                      { return nil }
