package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ponder-agent/ponder/internal/config"
	"github.com/ponder-agent/ponder/internal/orchestrator"
	"github.com/ponder-agent/ponder/internal/session"
	"github.com/ponder-agent/ponder/internal/types"
)

// Entry is a summary row for listing without decoding full payloads.
type Entry struct {
	ID         types.ID       `json:"id"`
	Input      string         `json:"input"`
	Effort     config.Effort  `json:"effort"`
	Status     session.Status `json:"status"`
	Confidence float64        `json:"confidence"`
	TokensUsed int            `json:"tokens_used"`
	Iterations int            `json:"iterations"`
	Duration   time.Duration  `json:"duration"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	Status session.Status
	Limit  int
}

// Store provides persistence for processing results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the archive at path, creating the database and schema when
// they do not exist.
func Open(path string) (*Store, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig opens the archive with custom connection settings.
func OpenWithConfig(cfg Config) (*Store, error) {
	db, err := open(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, path: cfg.Path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save persists a result. The full result is stored as a JSON payload
// alongside indexed summary columns.
func (s *Store) Save(ctx context.Context, result *orchestrator.Result) error {
	if result == nil || result.ID.IsZero() {
		return types.NewError(types.ARCHIVE_QUERY_FAILED, "result missing identifier")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return types.WrapError(types.ARCHIVE_QUERY_FAILED, "failed to encode result", err)
	}

	query := `
		INSERT INTO results (
			id, input, effort, status, confidence,
			tokens_used, iterations, duration_ms, created_at, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(
		ctx, query,
		result.ID.String(),
		result.Input,
		string(result.Effort),
		string(result.Status),
		result.Confidence,
		result.TokensUsed,
		result.Iterations,
		result.Duration.Milliseconds(),
		result.Metadata.Timestamp.UTC(),
		string(payload),
	)
	if err != nil {
		return types.WrapError(types.ARCHIVE_QUERY_FAILED, "failed to save result", err)
	}

	return nil
}

// Get retrieves a result by ID.
func (s *Store) Get(ctx context.Context, id types.ID) (*orchestrator.Result, error) {
	query := `SELECT payload FROM results WHERE id = ?`

	var payload string
	err := s.db.QueryRowContext(ctx, query, id.String()).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, types.NewError(types.ARCHIVE_NOT_FOUND, fmt.Sprintf("result not found: %s", id))
	}
	if err != nil {
		return nil, types.WrapError(types.ARCHIVE_QUERY_FAILED, "failed to get result", err)
	}

	var result orchestrator.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, types.WrapError(types.ARCHIVE_QUERY_FAILED, "failed to decode result", err)
	}

	return &result, nil
}

// List returns summary entries, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	query := `
		SELECT id, input, effort, status, confidence,
		       tokens_used, iterations, duration_ms, created_at
		FROM results
	`
	args := []any{}

	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(filter.Status))
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, types.WrapError(types.ARCHIVE_QUERY_FAILED, "failed to list results", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var idStr string
		var durationMS int64

		if err := rows.Scan(
			&idStr,
			&e.Input,
			&e.Effort,
			&e.Status,
			&e.Confidence,
			&e.TokensUsed,
			&e.Iterations,
			&durationMS,
			&e.CreatedAt,
		); err != nil {
			return nil, types.WrapError(types.ARCHIVE_QUERY_FAILED, "failed to scan result row", err)
		}

		e.ID, err = types.ParseID(idStr)
		if err != nil {
			return nil, types.WrapError(types.ARCHIVE_QUERY_FAILED, "failed to parse result ID", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.ARCHIVE_QUERY_FAILED, "failed to iterate results", err)
	}

	return entries, nil
}

// Prune deletes results created before the cutoff and returns the number
// of rows removed.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM results WHERE created_at < ?`, before.UTC())
	if err != nil {
		return 0, types.WrapError(types.ARCHIVE_QUERY_FAILED, "failed to prune results", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, types.WrapError(types.ARCHIVE_QUERY_FAILED, "failed to count pruned rows", err)
	}

	return removed, nil
}
