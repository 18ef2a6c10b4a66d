// Package sqlite provides a SQLite-backed run store. Node records are
// stored as a serialized blob; the queryable columns stay relational.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/flowcanvas/flowcanvas/internal/app/dto"
	"github.com/flowcanvas/flowcanvas/pkg/serialization"
)

// RunStore implements the engine's RunStore interface on SQLite.
type RunStore struct {
	db         *sql.DB
	serializer *serialization.Serializer
	tableName  string
}

// NewRunStore creates a run store over an open database handle.
func NewRunStore(db *sql.DB, serializer *serialization.Serializer) *RunStore {
	return &RunStore{
		db:         db,
		serializer: serializer,
		tableName:  "runs",
	}
}

// WithTableName overrides the default table name. Only alphanumeric and
// underscore are permitted to prevent SQL injection via identifiers.
func (s *RunStore) WithTableName(name string) *RunStore {
	if isSafeIdent(name) {
		s.tableName = name
	}
	return s
}

func isSafeIdent(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return false
	}
	return true
}

// CreateTables creates the runs table if it does not exist.
func (s *RunStore) CreateTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id     TEXT PRIMARY KEY,
			graph_id   TEXT NOT NULL,
			status     TEXT NOT NULL,
			error      TEXT,
			start_time TIMESTAMP NOT NULL,
			end_time   TIMESTAMP NOT NULL,
			payload    BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_graph ON %s (graph_id, start_time);
	`, s.tableName, s.tableName, s.tableName)
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Save logs a run result, replacing any previous record for the same id.
func (s *RunStore) Save(ctx context.Context, result *dto.RunResult) error {
	if result == nil || result.RunID == "" {
		return dto.ErrRunNotFound
	}
	payload, err := s.serializer.Marshal(result)
	if err != nil {
		return fmt.Errorf("serialize run: %w", err)
	}
	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (run_id, graph_id, status, error, start_time, end_time, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.tableName)
	_, err = s.db.ExecContext(ctx, query,
		result.RunID, result.GraphID, string(result.Status), result.Error,
		result.StartTime.UTC(), result.EndTime.UTC(), payload)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// Get returns a logged run.
func (s *RunStore) Get(ctx context.Context, runID string) (*dto.RunResult, error) {
	query := fmt.Sprintf("SELECT payload FROM %s WHERE run_id = ?", s.tableName)
	var payload []byte
	err := s.db.QueryRowContext(ctx, query, runID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dto.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	var result dto.RunResult
	if err := s.serializer.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("deserialize run: %w", err)
	}
	return &result, nil
}

// List returns the run ids for a graph, oldest first.
func (s *RunStore) List(ctx context.Context, graphID string) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT run_id FROM %s WHERE graph_id = ? ORDER BY start_time, run_id", s.tableName)
	rows, err := s.db.QueryContext(ctx, query, graphID)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PruneBefore deletes run records older than the cutoff and returns how
// many were removed.
func (s *RunStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE end_time < ?", s.tableName)
	res, err := s.db.ExecContext(ctx, query, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}
