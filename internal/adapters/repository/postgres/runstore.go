// Package postgres provides a PostgreSQL-backed run store on pgxpool,
// suitable when run history outlives a single process.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowcanvas/flowcanvas/internal/app/dto"
	"github.com/flowcanvas/flowcanvas/pkg/serialization"
)

// RunStore implements the engine's RunStore interface for PostgreSQL.
type RunStore struct {
	pool       *pgxpool.Pool
	serializer *serialization.Serializer
	tableName  string
}

// NewRunStore creates a run store over a connection pool.
func NewRunStore(pool *pgxpool.Pool, serializer *serialization.Serializer) *RunStore {
	return &RunStore{
		pool:       pool,
		serializer: serializer,
		tableName:  "runs",
	}
}

// CreateTables creates the runs table if it does not exist.
func (s *RunStore) CreateTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id     TEXT PRIMARY KEY,
			graph_id   TEXT NOT NULL,
			status     TEXT NOT NULL,
			error      TEXT,
			start_time TIMESTAMPTZ NOT NULL,
			end_time   TIMESTAMPTZ NOT NULL,
			payload    BYTEA NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_graph ON %s (graph_id, start_time);
	`, s.tableName, s.tableName, s.tableName)
	_, err := s.pool.Exec(ctx, query)
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
		INSERT INTO %s (run_id, graph_id, status, error, start_time, end_time, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (run_id) DO UPDATE SET
			status = EXCLUDED.status,
			error = EXCLUDED.error,
			end_time = EXCLUDED.end_time,
			payload = EXCLUDED.payload
	`, s.tableName)
	_, err = s.pool.Exec(ctx, query,
		result.RunID, result.GraphID, string(result.Status), result.Error,
		result.StartTime, result.EndTime, payload)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// Get returns a logged run.
func (s *RunStore) Get(ctx context.Context, runID string) (*dto.RunResult, error) {
	query := fmt.Sprintf("SELECT payload FROM %s WHERE run_id = $1", s.tableName)
	var payload []byte
	err := s.pool.QueryRow(ctx, query, runID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
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
		"SELECT run_id FROM %s WHERE graph_id = $1 ORDER BY start_time, run_id", s.tableName)
	rows, err := s.pool.Query(ctx, query, graphID)
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
