package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront/internal/commerce"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

func (r *postgresRepo) List(ctx context.Context) ([]commerce.Product, error) {
	const q = `
SELECT payload
FROM catalog_products
ORDER BY imported_at, handle
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("product repo: list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []commerce.Product
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var p commerce.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("product repo: decode payload: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("product repo: list rows", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("product repo: list", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetByHandle(ctx context.Context, handle string) (*commerce.Product, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT payload FROM catalog_products WHERE handle = $1`, handle).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("product repo: get", zap.String("handle", handle), zap.Error(err))
		return nil, err
	}
	var p commerce.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("product repo: decode payload: %w", err)
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product commerce.Product) error {
	if product.Handle == "" {
		return fmt.Errorf("product repo: handle is required")
	}
	raw, err := json.Marshal(product)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO catalog_products (handle, payload)
VALUES ($1, $2::jsonb)
ON CONFLICT (handle) DO UPDATE SET
    payload = EXCLUDED.payload,
    imported_at = now()
`
	if _, err := r.pool.Exec(ctx, q, product.Handle, string(raw)); err != nil {
		r.logger.Error("product repo: upsert", zap.String("handle", product.Handle), zap.Error(err))
		return err
	}
	r.logger.Debug("product repo: upserted", zap.String("handle", product.Handle))
	return nil
}
