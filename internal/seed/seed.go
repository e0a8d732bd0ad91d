// Package seed loads the demo catalog into the catalog_products table so a
// database-backed deployment serves the same fallback products as memory.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/commerce"
	"storefront/internal/importer"
	"storefront/internal/logging"
	"storefront/internal/mock"
)

// Apply upserts products, or the demo catalog when products is empty. It is
// idempotent because every write is an upsert keyed by handle.
func Apply(ctx context.Context, writer importer.ProductWriter, products []commerce.Product, logger *zap.Logger) (int, error) {
	logger = logging.OrNop(logger)
	if len(products) == 0 {
		products = mock.DefaultCatalog()
	}

	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := writer.Upsert(ctx, p); err != nil {
			return 0, fmt.Errorf("upsert product %s: %w", p.Handle, err)
		}
		logger.Debug("seeded product", zap.String("handle", p.Handle))
	}
	return len(products), nil
}
