package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Get(ctx context.Context, shopKey, key string, dst any) (bool, error) {
	const q = `
SELECT value
FROM shop_state
WHERE shop_key = $1 AND key = $2
`
	var raw []byte
	err := r.pool.QueryRow(ctx, q, shopKey, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		r.logger.Error("state repo: get", zap.String("shop_key", shopKey), zap.String("key", key), zap.Error(err))
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("state repo: decode %s/%s: %w", shopKey, key, err)
	}
	return true, nil
}

const upsertState = `
INSERT INTO shop_state (shop_key, key, value, updated_at)
VALUES ($1, $2, $3::jsonb, now())
ON CONFLICT (shop_key, key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at
`

func (r *postgresRepo) Set(ctx context.Context, shopKey, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("state repo: encode %s/%s: %w", shopKey, key, err)
	}
	if _, err := r.pool.Exec(ctx, upsertState, shopKey, key, string(raw)); err != nil {
		r.logger.Error("state repo: set", zap.String("shop_key", shopKey), zap.String("key", key), zap.Error(err))
		return err
	}
	r.logger.Debug("state repo: set", zap.String("shop_key", shopKey), zap.String("key", key), zap.Int("bytes", len(raw)))
	return nil
}

func (r *postgresRepo) SetMany(ctx context.Context, shopKey string, entries ...Entry) error {
	values, err := encodeAll("repo", shopKey, entries)
	if err != nil {
		return err
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, v := range values {
		if _, err := tx.Exec(ctx, upsertState, shopKey, v.key, string(v.raw)); err != nil {
			r.logger.Error("state repo: set many", zap.String("shop_key", shopKey), zap.String("key", v.key), zap.Error(err))
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.Debug("state repo: set many", zap.String("shop_key", shopKey), zap.Int("keys", len(values)))
	return nil
}

func (r *postgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
