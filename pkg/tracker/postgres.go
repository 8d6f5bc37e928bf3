package tracker

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lfl-lab/dutybot/pkg/core/model"
)

// PostgresStore is a transactional alternative to the file store for
// deployments where the tracker must survive the runner's filesystem, or
// where multiple runner instances could ever race.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to Postgres and ensures the tracker table
// exists.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS duty_tracker (
			duty TEXT PRIMARY KEY,
			member_id TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create duty_tracker table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (model.RotationState, error) {
	rows, err := s.pool.Query(ctx, `SELECT duty, member_id FROM duty_tracker`)
	if err != nil {
		return nil, fmt.Errorf("failed to query duty tracker: %w", err)
	}
	defer rows.Close()

	state := model.RotationState{}
	for rows.Next() {
		var duty, memberID string
		if err := rows.Scan(&duty, &memberID); err != nil {
			return nil, fmt.Errorf("failed to scan duty tracker row: %w", err)
		}
		if memberID != "" {
			state[model.DutyType(duty)] = memberID
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating duty tracker rows: %w", err)
	}
	return state, nil
}

func (s *PostgresStore) Advance(ctx context.Context, duty model.DutyType, memberID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO duty_tracker (duty, member_id, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (duty) DO UPDATE SET member_id = $2, updated_at = NOW()
	`, string(duty), memberID)
	if err != nil {
		return fmt.Errorf("failed to advance duty tracker: %w", err)
	}
	return nil
}
