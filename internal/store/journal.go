// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// Edit is one journal row: a write of an item to the knowledge base.
type Edit struct {
	ID         string
	RunID      string
	Mode       types.UploadMode
	Target     string
	SourceURI  string
	Created    bool
	Statements int
	Payload    string
	EditedAt   time.Time
}

// RecordEdit appends e to the journal. A missing ID is generated.
func (s *Store) RecordEdit(ctx context.Context, e Edit) (Edit, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.EditedAt.IsZero() {
		e.EditedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO edits (id, run_id, mode, target, source_uri, created, statements, payload, edited_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.RunID, string(e.Mode), e.Target, e.SourceURI, e.Created, e.Statements,
		e.Payload, e.EditedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Edit{}, fmt.Errorf("recording edit of %s: %w", e.SourceURI, err)
	}
	return e, nil
}

// Edits returns the journal rows of a run in edit order. An empty runID
// returns every row.
func (s *Store) Edits(ctx context.Context, runID string) ([]Edit, error) {
	query := `SELECT id, run_id, mode, target, source_uri, created, statements, payload, edited_at
		FROM edits`
	var args []any
	if runID != "" {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` ORDER BY edited_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying edits: %w", err)
	}
	defer rows.Close()

	var out []Edit
	for rows.Next() {
		var (
			e      Edit
			mode   string
			edited string
		)
		if err := rows.Scan(&e.ID, &e.RunID, &mode, &e.Target, &e.SourceURI,
			&e.Created, &e.Statements, &e.Payload, &edited); err != nil {
			return nil, fmt.Errorf("scanning edit: %w", err)
		}
		e.Mode = types.UploadMode(mode)
		e.EditedAt, _ = time.Parse(time.RFC3339Nano, edited)
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreatedFor returns the entity created earlier for a source record, so
// that a rerun does not create it twice.
func (s *Store) CreatedFor(ctx context.Context, sourceURI string, mode types.UploadMode) (string, bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT target FROM edits WHERE source_uri = ? AND mode = ? AND created = 1
		 ORDER BY edited_at LIMIT 1`, sourceURI, string(mode))
	if err != nil {
		return "", false, fmt.Errorf("querying created entity for %s: %w", sourceURI, err)
	}
	defer rows.Close()
	if !rows.Next() {
		return "", false, rows.Err()
	}
	var target string
	if err := rows.Scan(&target); err != nil {
		return "", false, fmt.Errorf("scanning created entity: %w", err)
	}
	return target, true, nil
}
