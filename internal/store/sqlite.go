package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/kessoku-hq/bocchi-life/pkg/player"
)

const schema = `
CREATE TABLE IF NOT EXISTS players (
	discord_id       TEXT PRIMARY KEY,
	origin_story     TEXT NOT NULL DEFAULT '',
	last_played_date TEXT NOT NULL DEFAULT '',
	energy           INTEGER NOT NULL DEFAULT 100,
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
);
`

// settableFields are the columns SetField may write absolutely. Stat
// counters are excluded on purpose; they go through ApplyDelta.
var settableFields = map[string]bool{
	"origin_story":     true,
	"last_played_date": true,
	"current_weather":  true,
	"energy":           true, // initial-value seeding only
}

// SQLiteStore implements PlayerStore over a single SQLite file using the
// pure-Go modernc driver.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ PlayerStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database file.
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One shared handle, single-process bot: serialize writers.
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates the players table and backfills energy from the legacy
// action_points column when present: energy = min(100, action_points*10).
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	hasEnergy, err := s.hasColumn(ctx, "energy")
	if err != nil {
		return err
	}
	hasLegacy, err := s.hasColumn(ctx, "action_points")
	if err != nil {
		return err
	}

	if hasLegacy && !hasEnergy {
		if _, err := s.db.ExecContext(ctx,
			`ALTER TABLE players ADD COLUMN energy INTEGER NOT NULL DEFAULT 100`); err != nil {
			return fmt.Errorf("failed to add energy column: %w", err)
		}
		if _, err := s.db.ExecContext(ctx,
			`UPDATE players SET energy = MIN(100, action_points * 10)`); err != nil {
			return fmt.Errorf("failed to backfill energy: %w", err)
		}
		if s.logger != nil {
			s.logger.Info("migrated legacy action_points to energy")
		}
	}

	return nil
}

func (s *SQLiteStore) hasColumn(ctx context.Context, column string) (bool, error) {
	rows, err := s.db.QueryContext(ctx, `PRAGMA table_info(players)`)
	if err != nil {
		return false, fmt.Errorf("failed to inspect players table: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, discordID string) (*player.Player, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT discord_id, origin_story, last_played_date, energy,
		       current_weather, known_characters,
		       bocchi_trust, bocchi_comfort, bocchi_affection,
		       nijika_trust, nijika_comfort, nijika_affection,
		       ryo_trust, ryo_comfort, ryo_affection,
		       kita_trust, kita_comfort, kita_affection
		FROM players WHERE discord_id = ?`, discordID)

	var (
		p        player.Player
		knownRaw string
		rels     [12]int
	)
	err := row.Scan(&p.DiscordID, &p.OriginStory, &p.LastPlayedDate, &p.Energy,
		&p.CurrentWeather, &knownRaw,
		&rels[0], &rels[1], &rels[2],
		&rels[3], &rels[4], &rels[5],
		&rels[6], &rels[7], &rels[8],
		&rels[9], &rels[10], &rels[11])
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load player %s: %w", discordID, err)
	}

	if err := json.Unmarshal([]byte(knownRaw), &p.KnownCharacters); err != nil {
		// A corrupt list should not brick the whole row.
		if s.logger != nil {
			s.logger.Warn("corrupt known_characters column, resetting",
				"player_id", discordID, "error", err)
		}
		p.KnownCharacters = nil
	}

	p.Relationships = map[string]player.Relationship{
		"bocchi": {Trust: rels[0], Comfort: rels[1], Affection: rels[2]},
		"nijika": {Trust: rels[3], Comfort: rels[4], Affection: rels[5]},
		"ryo":    {Trust: rels[6], Comfort: rels[7], Affection: rels[8]},
		"kita":   {Trust: rels[9], Comfort: rels[10], Affection: rels[11]},
	}
	return &p, nil
}

func (s *SQLiteStore) Create(ctx context.Context, discordID string, origin player.OriginStory, energy int) error {
	existing, err := s.Get(ctx, discordID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrPlayerExists
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO players (discord_id, origin_story, energy, known_characters)
		VALUES (?, ?, ?, '[]')`, discordID, string(origin), energy)
	if err != nil {
		return fmt.Errorf("failed to create player %s: %w", discordID, err)
	}
	return nil
}

// SetField is the absolute-write path: SET field = ?.
func (s *SQLiteStore) SetField(ctx context.Context, discordID string, field string, value any) error {
	if !settableFields[field] {
		return fmt.Errorf("%w: %s is not settable", ErrInvalidField, field)
	}
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE players SET %s = ? WHERE discord_id = ?`, field),
		value, discordID)
	if err != nil {
		return fmt.Errorf("failed to set %s for %s: %w", field, discordID, err)
	}
	return nil
}

// ApplyDelta is the relative-accumulation path: SET field = field + ?.
func (s *SQLiteStore) ApplyDelta(ctx context.Context, discordID string, delta player.StatDelta) error {
	if delta.IsEmpty() {
		return nil
	}

	fields := make([]string, 0, len(delta))
	args := make([]any, 0, len(delta)+1)
	for _, f := range player.StatFields() {
		n, ok := delta[f]
		if !ok {
			continue
		}
		fields = append(fields, fmt.Sprintf("%s = %s + ?", f, f))
		args = append(args, n)
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: no whitelisted fields in delta", ErrInvalidField)
	}
	args = append(args, discordID)

	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE players SET %s WHERE discord_id = ?`,
			strings.Join(fields, ", ")), args...)
	if err != nil {
		return fmt.Errorf("failed to apply delta for %s: %w", discordID, err)
	}
	return nil
}

func (s *SQLiteStore) AddKnownCharacter(ctx context.Context, discordID string, name string) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT known_characters FROM players WHERE discord_id = ?`, discordID).Scan(&raw)
	if err != nil {
		return false, fmt.Errorf("failed to load known characters for %s: %w", discordID, err)
	}

	var known []string
	if err := json.Unmarshal([]byte(raw), &known); err != nil {
		known = nil
	}
	for _, k := range known {
		if k == name {
			return false, nil
		}
	}

	known = append(known, name)
	encoded, err := json.Marshal(known)
	if err != nil {
		return false, fmt.Errorf("failed to encode known characters: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE players SET known_characters = ? WHERE discord_id = ?`,
		string(encoded), discordID); err != nil {
		return false, fmt.Errorf("failed to save known characters for %s: %w", discordID, err)
	}
	return true, nil
}

// RecoverEnergy is the only clamped write: energy never exceeds the cap.
func (s *SQLiteStore) RecoverEnergy(ctx context.Context, discordID string, amount int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE players SET energy = MIN(?, energy + ?) WHERE discord_id = ?`,
		player.MaxEnergy, amount, discordID)
	if err != nil {
		return fmt.Errorf("failed to recover energy for %s: %w", discordID, err)
	}
	return nil
}

// RestoreAllEnergy is the daily sweep: every row comes up to the floor.
func (s *SQLiteStore) RestoreAllEnergy(ctx context.Context, floor int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE players SET energy = MAX(energy, MIN(?, ?))`,
		player.MaxEnergy, floor)
	if err != nil {
		return fmt.Errorf("failed to restore energy: %w", err)
	}
	return nil
}
