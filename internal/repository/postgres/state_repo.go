package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-bff/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createStateTable = `
CREATE TABLE IF NOT EXISTS storefront_state (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const (
	getStateQuery    = `SELECT value FROM storefront_state WHERE key = $1`
	upsertStateQuery = `
INSERT INTO storefront_state (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	purgeStateQuery  = `DELETE FROM storefront_state WHERE updated_at < $1`
)

// StateRepository stores snapshot blobs in a single key/value table.
type StateRepository struct {
	db *pgxpool.Pool
}

func NewStateRepository(db *pgxpool.Pool) *StateRepository {
	return &StateRepository{db: db}
}

// EnsureSchema creates the state table if it does not exist.
func (r *StateRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createStateTable); err != nil {
		return fmt.Errorf("create storefront_state: %w", err)
	}
	return nil
}

func (r *StateRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	var value []byte
	err := r.db.QueryRow(ctx, getStateQuery, key).Scan(&value)
	logger.StorageOp("postgres", "get", key, time.Since(start), ignoreNoRows(err))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (r *StateRepository) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	_, err := r.db.Exec(ctx, upsertStateQuery, key, value)
	logger.StorageOp("postgres", "upsert", key, time.Since(start), err)
	return err
}

// PurgeOlderThan deletes snapshots not written for maxAge and returns how many
// were removed.
func (r *StateRepository) PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int64, error) {
	tag, err := r.db.Exec(ctx, purgeStateQuery, time.Now().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func ignoreNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}

// RunPurge deletes stale snapshots every interval until ctx is done.
func (r *StateRepository) RunPurge(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := r.PurgeOlderThan(ctx, maxAge)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to purge stale state snapshots")
				continue
			}
			if n > 0 {
				logger.Info().Int64("rows", n).Msg("Purged stale state snapshots")
			}
		case <-ctx.Done():
			return
		}
	}
}
