package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/kessoku-hq/bocchi-life/pkg/player"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return s
}

func TestSQLiteStore_CreateAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, "user1", player.OriginMuridPindahan, 100); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	p, err := s.Get(ctx, "user1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if p == nil {
		t.Fatal("expected player row")
	}
	if p.Energy != 100 {
		t.Errorf("energy = %d, want 100", p.Energy)
	}
	if p.OriginStory != player.OriginMuridPindahan {
		t.Errorf("origin = %s", p.OriginStory)
	}
	for name, rel := range p.Relationships {
		if rel.Trust != 0 || rel.Comfort != 0 || rel.Affection != 0 {
			t.Errorf("%s counters should start at zero: %+v", name, rel)
		}
	}
}

func TestSQLiteStore_GetMissingPlayer(t *testing.T) {
	s := testStore(t)
	p, err := s.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Error("expected nil for unregistered player")
	}
}

func TestSQLiteStore_CreateDuplicate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, "user1", player.OriginTetangga, 100); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	err := s.Create(ctx, "user1", player.OriginTetangga, 100)
	if !errors.Is(err, ErrPlayerExists) {
		t.Errorf("expected ErrPlayerExists, got %v", err)
	}
}

func TestSQLiteStore_ApplyDelta_Accumulates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, "user1", player.OriginStafStarry, 100); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := s.ApplyDelta(ctx, "user1", player.StatDelta{"bocchi_trust": 5}); err != nil {
		t.Fatalf("seed delta failed: %v", err)
	}
	if err := s.ApplyDelta(ctx, "user1", player.StatDelta{"bocchi_trust": 3}); err != nil {
		t.Fatalf("delta failed: %v", err)
	}
	if err := s.ApplyDelta(ctx, "user1", player.StatDelta{"bocchi_trust": -1}); err != nil {
		t.Fatalf("delta failed: %v", err)
	}

	p, err := s.Get(ctx, "user1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got := p.Relationships["bocchi"].Trust; got != 7 {
		t.Errorf("bocchi trust = %d, want 7", got)
	}
	// Unrelated fields untouched.
	if p.Relationships["nijika"].Trust != 0 {
		t.Error("delta leaked into unrelated field")
	}
	if p.Energy != 100 {
		t.Errorf("delta leaked into energy: %d", p.Energy)
	}
}

func TestSQLiteStore_ApplyDelta_RejectsNonStatField(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if err := s.Create(ctx, "user1", player.OriginTetangga, 100); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	err := s.ApplyDelta(ctx, "user1", player.StatDelta{"discord_id": 1})
	if !errors.Is(err, ErrInvalidField) {
		t.Errorf("expected ErrInvalidField, got %v", err)
	}
}

func TestSQLiteStore_SetField_AbsoluteWrite(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if err := s.Create(ctx, "user1", player.OriginTetangga, 100); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := s.SetField(ctx, "user1", "current_weather", "hujan deras"); err != nil {
		t.Fatalf("set weather failed: %v", err)
	}
	// Absolute semantics: a second write replaces, never accumulates.
	if err := s.SetField(ctx, "user1", "current_weather", "cerah"); err != nil {
		t.Fatalf("set weather failed: %v", err)
	}

	p, _ := s.Get(ctx, "user1")
	if p.CurrentWeather != "cerah" {
		t.Errorf("weather = %q, want cerah", p.CurrentWeather)
	}

	if err := s.SetField(ctx, "user1", "bocchi_trust", 99); !errors.Is(err, ErrInvalidField) {
		t.Errorf("stat counters must not be settable absolutely, got %v", err)
	}
}

func TestSQLiteStore_AddKnownCharacter(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if err := s.Create(ctx, "user1", player.OriginTetangga, 100); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	added, err := s.AddKnownCharacter(ctx, "user1", "nijika")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !added {
		t.Error("first add should report newly added")
	}

	added, err = s.AddKnownCharacter(ctx, "user1", "nijika")
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if added {
		t.Error("second add must be a no-op")
	}

	p, _ := s.Get(ctx, "user1")
	if len(p.KnownCharacters) != 1 || p.KnownCharacters[0] != "nijika" {
		t.Errorf("known characters = %v", p.KnownCharacters)
	}
}

func TestSQLiteStore_RecoverEnergy_Clamps(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if err := s.Create(ctx, "user1", player.OriginTetangga, 100); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := s.ApplyDelta(ctx, "user1", player.StatDelta{"energy": -30}); err != nil {
		t.Fatalf("delta failed: %v", err)
	}

	if err := s.RecoverEnergy(ctx, "user1", 50); err != nil {
		t.Fatalf("recover failed: %v", err)
	}
	p, _ := s.Get(ctx, "user1")
	if p.Energy != 100 {
		t.Errorf("energy = %d, want clamped to 100", p.Energy)
	}
}

func TestSQLiteStore_RestoreAllEnergy(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	for _, u := range []string{"low", "high"} {
		if err := s.Create(ctx, u, player.OriginTetangga, 100); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	if err := s.ApplyDelta(ctx, "low", player.StatDelta{"energy": -80}); err != nil {
		t.Fatalf("delta failed: %v", err)
	}

	if err := s.RestoreAllEnergy(ctx, player.MaxEnergy); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	for _, u := range []string{"low", "high"} {
		p, _ := s.Get(ctx, u)
		if p.Energy != 100 {
			t.Errorf("%s energy = %d, want 100", u, p.Energy)
		}
	}
}

func TestSQLiteStore_Migrate_LegacyActionPoints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	// Build a legacy database by hand: action_points, no energy column.
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	_, err = db.Exec(`
		CREATE TABLE players (
			discord_id       TEXT PRIMARY KEY,
			origin_story     TEXT NOT NULL DEFAULT '',
			last_played_date TEXT NOT NULL DEFAULT '',
			action_points    INTEGER NOT NULL DEFAULT 10,
			current_weather  TEXT NOT NULL DEFAULT '',
			known_characters TEXT NOT NULL DEFAULT '[]',
			bocchi_trust     INTEGER NOT NULL DEFAULT 0,
			bocchi_comfort   INTEGER NOT NULL DEFAULT 0,
			bocchi_affection INTEGER NOT NULL DEFAULT 0,
			nijika_trust     INTEGER NOT NULL DEFAULT 0,
			nijika_comfort   INTEGER NOT NULL DEFAULT 0,
			nijika_affection INTEGER NOT NULL DEFAULT 0,
			ryo_trust        INTEGER NOT NULL DEFAULT 0,
			ryo_comfort      INTEGER NOT NULL DEFAULT 0,
			ryo_affection    INTEGER NOT NULL DEFAULT 0,
			kita_trust       INTEGER NOT NULL DEFAULT 0,
			kita_comfort     INTEGER NOT NULL DEFAULT 0,
			kita_affection   INTEGER NOT NULL DEFAULT 0
		)`)
	if err != nil {
		t.Fatalf("create legacy table failed: %v", err)
	}
	if _, err := db.Exec(
		`INSERT INTO players (discord_id, action_points) VALUES ('user7', 7), ('user20', 20)`); err != nil {
		t.Fatalf("seed legacy rows failed: %v", err)
	}
	_ = db.Close()

	s, err := NewSQLiteStore(path, nil)
	if err != nil {
		t.Fatalf("open store failed: %v", err)
	}
	defer func() { _ = s.Close() }()
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	p, err := s.Get(context.Background(), "user7")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if p.Energy != 70 {
		t.Errorf("user7 energy = %d, want 70", p.Energy)
	}

	p, err = s.Get(context.Background(), "user20")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if p.Energy != 100 {
		t.Errorf("user20 energy = %d, want min(100, 200) = 100", p.Energy)
	}
}
