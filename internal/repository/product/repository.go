package product

import (
	"context"

	"storefront/internal/commerce"
)

// Repository stores imported catalog products in their wire shape so the
// mock backend can serve them exactly as the Storefront API would.
type Repository interface {
	List(ctx context.Context) ([]commerce.Product, error)
	GetByHandle(ctx context.Context, handle string) (*commerce.Product, error)
	Upsert(ctx context.Context, product commerce.Product) error
}
