// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists identifier index snapshots, the name cache and the
// edit journal in a single SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Vesihiisi/Biblioteksdata/internal/mapping"
	"github.com/Vesihiisi/Biblioteksdata/internal/names"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// DefaultPath is used when the configuration names no database.
const DefaultPath = "data/biblioteksdata.db"

// ErrNoSnapshot is returned when an index was never saved.
var ErrNoSnapshot = errors.New("no index snapshot")

// Store manages the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at cfg.Path and creates the schema if
// it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := New(db)
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// New wraps an open database whose schema already exists.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS index_pairs (
			kind TEXT NOT NULL,
			value TEXT NOT NULL,
			item TEXT NOT NULL,
			PRIMARY KEY (kind, value, item)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_index_pairs_item ON index_pairs(kind, item)`,
		`CREATE TABLE IF NOT EXISTS index_status (
			kind TEXT PRIMARY KEY,
			property TEXT NOT NULL,
			fetched_at TEXT NOT NULL,
			row_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS names (
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			item TEXT NOT NULL,
			PRIMARY KEY (kind, name)
		)`,
		`CREATE TABLE IF NOT EXISTS edits (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			target TEXT NOT NULL,
			source_uri TEXT NOT NULL,
			created INTEGER NOT NULL,
			statements INTEGER NOT NULL,
			payload TEXT NOT NULL,
			edited_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_edits_run ON edits(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_edits_source ON edits(source_uri)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Snapshot describes a saved index.
type Snapshot struct {
	Kind      types.MatchKind
	Property  string
	FetchedAt time.Time
	Rows      int
}

// SaveIndex replaces the snapshot of one index in a single transaction.
func (s *Store) SaveIndex(ctx context.Context, kind types.MatchKind, property string, pairs []mapping.Pair) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM index_pairs WHERE kind = ?`, string(kind)); err != nil {
		return fmt.Errorf("clearing %s snapshot: %w", kind, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO index_pairs (kind, value, item) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range pairs {
		if _, err := stmt.ExecContext(ctx, string(kind), p.Value, p.Item); err != nil {
			return fmt.Errorf("inserting %s pair %s: %w", kind, p.Value, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO index_status (kind, property, fetched_at, row_count) VALUES (?, ?, ?, ?)
		 ON CONFLICT(kind) DO UPDATE SET
			property=excluded.property, fetched_at=excluded.fetched_at, row_count=excluded.row_count`,
		string(kind), property, time.Now().UTC().Format(time.RFC3339), len(pairs),
	)
	if err != nil {
		return fmt.Errorf("updating index status: %w", err)
	}

	return tx.Commit()
}

// LoadIndex returns the saved pairs of one index.
func (s *Store) LoadIndex(ctx context.Context, kind types.MatchKind) ([]mapping.Pair, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT row_count FROM index_status WHERE kind = ?`, string(kind)).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s status: %w", kind, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT value, item FROM index_pairs WHERE kind = ? ORDER BY value, item`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("querying %s snapshot: %w", kind, err)
	}
	defer rows.Close()

	pairs := make([]mapping.Pair, 0, n)
	for rows.Next() {
		var p mapping.Pair
		if err := rows.Scan(&p.Value, &p.Item); err != nil {
			return nil, fmt.Errorf("scanning %s pair: %w", kind, err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// Snapshots lists the saved indices.
func (s *Store) Snapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, property, fetched_at, row_count FROM index_status ORDER BY kind`)
	if err != nil {
		return nil, fmt.Errorf("querying index status: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			snap    Snapshot
			kind    string
			fetched string
		)
		if err := rows.Scan(&kind, &snap.Property, &fetched, &snap.Rows); err != nil {
			return nil, fmt.Errorf("scanning index status: %w", err)
		}
		snap.Kind = types.MatchKind(kind)
		snap.FetchedAt, _ = time.Parse(time.RFC3339, fetched)
		out = append(out, snap)
	}
	return out, rows.Err()
}

// GetName implements names.Cache.
func (s *Store) GetName(ctx context.Context, kind names.Kind, name string) (string, bool, error) {
	var item string
	err := s.db.QueryRowContext(ctx,
		`SELECT item FROM names WHERE kind = ? AND name = ?`, string(kind), name).Scan(&item)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading name %q: %w", name, err)
	}
	return item, true, nil
}

// PutName implements names.Cache.
func (s *Store) PutName(ctx context.Context, kind names.Kind, name, id string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO names (kind, name, item) VALUES (?, ?, ?)
		 ON CONFLICT(kind, name) DO UPDATE SET item=excluded.item`,
		string(kind), name, id)
	if err != nil {
		return fmt.Errorf("writing name %q: %w", name, err)
	}
	return nil
}

var _ names.Cache = (*Store)(nil)
