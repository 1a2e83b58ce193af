package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	_ "github.com/lib/pq"

	"github.com/klipworks/klipflow/internal/config"
	"github.com/klipworks/klipflow/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS history_main (
	uuid           TEXT PRIMARY KEY,
	added_time     DOUBLE PRECISION NOT NULL,
	last_used_time DOUBLE PRECISION,
	mimetypes      TEXT NOT NULL DEFAULT '',
	text           TEXT,
	starred        BOOLEAN NOT NULL DEFAULT FALSE
)`

// Store wraps the Postgres clipboard history table.
type Store struct {
	db  *sql.DB
	log *logging.Logger
}

// Open connects to the history database and ensures the schema exists.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logging.Logger) (*Store, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure history schema: %w", err)
	}

	if log == nil {
		log = logging.NewNop()
	}
	log.Info("history store ready", zap.Int("max_open_conns", cfg.MaxOpenConns))

	return &Store{db: db, log: log}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Entries returns the full history, newest first.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT uuid, added_time, last_used_time, mimetypes, text, starred
		FROM history_main
		ORDER BY added_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return entries, nil
}

// Entry returns one history record by UUID.
func (s *Store) Entry(ctx context.Context, uuid string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT uuid, added_time, last_used_time, mimetypes, text, starred
		FROM history_main
		WHERE uuid = $1`, uuid)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("entry %s: %w", uuid, ErrEntryNotFound)
	}
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// ToggleStar flips the starred flag and returns the new value.
func (s *Store) ToggleStar(ctx context.Context, uuid string) (bool, error) {
	var starred bool
	err := s.db.QueryRowContext(ctx, `
		UPDATE history_main
		SET starred = NOT starred
		WHERE uuid = $1
		RETURNING starred`, uuid).Scan(&starred)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("entry %s: %w", uuid, ErrEntryNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("failed to toggle star for %s: %w", uuid, err)
	}

	s.log.Debug("toggled star", zap.String("uuid", uuid), zap.Bool("starred", starred))
	return starred, nil
}

// Touch records a paste of an existing entry by bumping last_used_time.
func (s *Store) Touch(ctx context.Context, uuid string, usedAt float64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE history_main
		SET last_used_time = $2
		WHERE uuid = $1`, uuid, usedAt)
	if err != nil {
		return fmt.Errorf("failed to touch entry %s: %w", uuid, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to touch entry %s: %w", uuid, err)
	}
	if affected == 0 {
		return fmt.Errorf("entry %s: %w", uuid, ErrEntryNotFound)
	}
	return nil
}

// Insert stores a new history entry. An existing UUID is refreshed rather
// than duplicated.
func (s *Store) Insert(ctx context.Context, entry Entry) error {
	mimetypes, err := json.Marshal(entry.Mimetypes)
	if err != nil {
		return fmt.Errorf("failed to serialize mimetypes: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO history_main (uuid, added_time, last_used_time, mimetypes, text, starred)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (uuid)
		DO UPDATE SET
			last_used_time = EXCLUDED.last_used_time,
			mimetypes = EXCLUDED.mimetypes,
			text = EXCLUDED.text`,
		entry.UUID, entry.AddedTime, entry.LastUsedTime, string(mimetypes), entry.Text, entry.Starred)
	if err != nil {
		return fmt.Errorf("failed to insert entry %s: %w", entry.UUID, err)
	}

	s.log.Debug("inserted entry", zap.String("uuid", entry.UUID))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		entry     Entry
		lastUsed  sql.NullFloat64
		mimetypes string
		text      sql.NullString
	)
	if err := row.Scan(&entry.UUID, &entry.AddedTime, &lastUsed, &mimetypes, &text, &entry.Starred); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("failed to scan entry: %w", err)
	}

	if text.Valid {
		entry.Text = &text.String
	}
	var lastUsedPtr *float64
	if lastUsed.Valid {
		lastUsedPtr = &lastUsed.Float64
	}
	entry.AddedTime, entry.LastUsedTime = normalizeTimes(entry.AddedTime, lastUsedPtr)
	entry.Mimetypes = normalizeMimetypes(mimetypes, entry.Text)

	return entry, nil
}
