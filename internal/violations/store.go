package violations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists violation events into Postgres. Only the audit consumer
// writes here, the chat service itself never touches the database.
type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("Failed to connect to database, Error: %w", err)
	}

	return &Store{Pool: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS violations (
		id BIGSERIAL PRIMARY KEY,
		request_id TEXT NOT NULL,
		layer TEXT NOT NULL,
		keyword TEXT NOT NULL DEFAULT '',
		verdict TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL DEFAULT '',
		detected_at TIMESTAMPTZ NOT NULL
	)`

	if _, err := s.Pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("Failed to create violations table: %w", err)
	}

	return nil
}

func (s *Store) Insert(ctx context.Context, event Event) error {
	query := `
	INSERT INTO violations (request_id, layer, keyword, verdict, text, detected_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.Pool.Exec(ctx, query,
		event.RequestID, event.Layer, event.Keyword, event.Verdict, event.Text, event.Timestamp)
	if err != nil {
		return fmt.Errorf("Failed to insert violation for request %s: %w", event.RequestID, err)
	}

	return nil
}

func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	query := `
	SELECT request_id, layer, keyword, verdict, text, detected_at
	FROM violations
	ORDER BY detected_at DESC
	LIMIT $1`

	rows, err := s.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("Unable to query violations: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		if err := rows.Scan(&event.RequestID, &event.Layer, &event.Keyword, &event.Verdict, &event.Text, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("Failed to scan violation row: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}
