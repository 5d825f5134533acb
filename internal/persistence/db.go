// Package persistence provides SQLite-based save storage.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hitmaker/internal/engine"
	"github.com/talgya/hitmaker/internal/world"
)

// ErrNoSave is returned when there is nothing to load.
var ErrNoSave = errors.New("no saved game")

const metaCurrentSave = "current_save"

// DB wraps a SQLite connection for save persistence. It implements
// engine.Store and engine.WeekRecorder.
type DB struct {
	conn *sqlx.DB
}

var (
	_ engine.Store        = (*DB)(nil)
	_ engine.WeekRecorder = (*DB)(nil)
)

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		artist_id TEXT PRIMARY KEY,
		artist_name TEXT NOT NULL,
		week INTEGER NOT NULL,
		date TEXT NOT NULL,
		money INTEGER NOT NULL,
		payload TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS week_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		artist_id TEXT NOT NULL,
		week INTEGER NOT NULL,
		date TEXT NOT NULL,
		streams INTEGER NOT NULL,
		sales INTEGER NOT NULL,
		income INTEGER NOT NULL,
		money INTEGER NOT NULL,
		hype REAL NOT NULL,
		best_rank INTEGER NOT NULL,
		records_broken INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_week_history_artist ON week_history(artist_id, week);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveInfo is a row of the save list.
type SaveInfo struct {
	ArtistID   string `db:"artist_id" json:"artist_id"`
	ArtistName string `db:"artist_name" json:"artist_name"`
	Week       int    `db:"week" json:"week"`
	Date       string `db:"date" json:"date"`
	Money      int64  `db:"money" json:"money"`
	UpdatedAt  string `db:"updated_at" json:"updated_at"`
}

// Save writes the save slot for the artist (full replace) and marks it as
// the current game.
func (db *DB) Save(ctx context.Context, sv *world.Save) error {
	payload, err := world.Encode(sv)
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO saves
		(artist_id, artist_name, week, date, money, payload, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sv.Artist.ID, sv.Artist.Name, sv.State.Date.Linear(), sv.State.Date.String(),
		sv.State.Money, string(payload), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("write save %s: %w", sv.Artist.ID, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		metaCurrentSave, sv.Artist.ID,
	); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	return tx.Commit()
}

// Load reads the current save. A malformed payload is an error and nothing
// is returned.
func (db *DB) Load(ctx context.Context) (*world.Save, error) {
	id, err := db.GetMeta(ctx, metaCurrentSave)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("read current save: %w", err)
	}
	return db.LoadArtist(ctx, id)
}

// LoadArtist reads a specific save slot.
func (db *DB) LoadArtist(ctx context.Context, artistID string) (*world.Save, error) {
	var payload string
	err := db.conn.GetContext(ctx, &payload, "SELECT payload FROM saves WHERE artist_id = ?", artistID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoSave, artistID)
	}
	if err != nil {
		return nil, err
	}

	sv, err := world.Decode([]byte(payload))
	if err != nil {
		slog.Error("rejected malformed save", "artist_id", artistID, "error", err)
		return nil, err
	}
	return sv, nil
}

// ListSaves returns every save slot, most recently played first.
func (db *DB) ListSaves(ctx context.Context) ([]SaveInfo, error) {
	var saves []SaveInfo
	err := db.conn.SelectContext(ctx, &saves,
		"SELECT artist_id, artist_name, week, date, money, updated_at FROM saves ORDER BY updated_at DESC, artist_id")
	return saves, err
}

// WeekRow is one logged week.
type WeekRow struct {
	Week          int     `db:"week" json:"week"`
	Date          string  `db:"date" json:"date"`
	Streams       int64   `db:"streams" json:"streams"`
	Sales         int64   `db:"sales" json:"sales"`
	Income        int64   `db:"income" json:"income"`
	Money         int64   `db:"money" json:"money"`
	Hype          float64 `db:"hype" json:"hype"`
	BestRank      int     `db:"best_rank" json:"best_rank"`
	RecordsBroken int     `db:"records_broken" json:"records_broken"`
}

// RecordWeek appends a week summary to the artist's history.
func (db *DB) RecordWeek(ctx context.Context, artistID string, sum engine.Summary) error {
	_, err := db.conn.ExecContext(ctx, `INSERT INTO week_history
		(artist_id, week, date, streams, sales, income, money, hype, best_rank, records_broken)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		artistID, sum.Date.Linear(), sum.Date.String(), sum.Streams, sum.Sales,
		sum.Income, sum.Money, sum.Hype, sum.BestRank, sum.RecordsBroken,
	)
	if err != nil {
		return fmt.Errorf("insert week %d: %w", sum.Date.Linear(), err)
	}
	return nil
}

// WeekHistory returns the most recent weeks for an artist, newest first.
func (db *DB) WeekHistory(ctx context.Context, artistID string, limit int) ([]WeekRow, error) {
	var rows []WeekRow
	err := db.conn.SelectContext(ctx, &rows,
		`SELECT week, date, streams, sales, income, money, hype, best_rank, records_broken
		 FROM week_history WHERE artist_id = ? ORDER BY id DESC LIMIT ?`,
		artistID, limit,
	)
	return rows, err
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(ctx context.Context, key, value string) error {
	_, err := db.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := db.conn.GetContext(ctx, &value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}
