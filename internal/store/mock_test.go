package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kessoku-hq/bocchi-life/pkg/player"
)

// MockStore stands in for SQLite in engine and handler tests, so its
// semantics have to track the real store.
func TestMockStore_MatchesStoreSemantics(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	require.NoError(t, m.Create(ctx, "user1", player.OriginMuridPindahan, 100))
	assert.ErrorIs(t, m.Create(ctx, "user1", player.OriginMuridPindahan, 100), ErrPlayerExists)

	p, err := m.Get(ctx, "user1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 100, p.Energy)

	missing, err := m.Get(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, m.ApplyDelta(ctx, "user1", player.StatDelta{"energy": -10, "ryo_comfort": 3}))
	p, err = m.Get(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 90, p.Energy)
	assert.Equal(t, 3, p.Relationships["ryo"].Comfort)

	assert.Error(t, m.ApplyDelta(ctx, "user1", player.StatDelta{"gold": 5}))

	added, err := m.AddKnownCharacter(ctx, "user1", "ryo")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = m.AddKnownCharacter(ctx, "user1", "ryo")
	require.NoError(t, err)
	assert.False(t, added)

	require.NoError(t, m.RecoverEnergy(ctx, "user1", 50))
	p, _ = m.Get(ctx, "user1")
	assert.Equal(t, player.MaxEnergy, p.Energy)
}

func TestMockStore_RestoreAllEnergy(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	require.NoError(t, m.Create(ctx, "a", player.OriginTetangga, 100))
	require.NoError(t, m.Create(ctx, "b", player.OriginTetangga, 100))
	require.NoError(t, m.ApplyDelta(ctx, "a", player.StatDelta{"energy": -90}))

	require.NoError(t, m.RestoreAllEnergy(ctx, player.MaxEnergy))

	for _, id := range []string{"a", "b"} {
		p, err := m.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, player.MaxEnergy, p.Energy, id)
	}
}

func TestMockStore_FailAll(t *testing.T) {
	m := NewMockStore()
	m.FailAll = true

	_, err := m.Get(context.Background(), "user1")
	assert.Error(t, err)
	assert.Error(t, m.Create(context.Background(), "user1", player.OriginTetangga, 100))
}
