// Package mock is an in-memory stand-in for the Storefront cart API. It owns
// a single cart for its lifetime and recomputes totals on every read.
package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/commerce"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

const (
	CartID      = "mock-cart-id"
	CheckoutURL = "https://checkout.shopify.com/mock-checkout"
)

type line struct {
	id      string
	qty     int
	product commerce.Product
	variant commerce.ProductVariant
}

// Backend mirrors the remote cart operations over a fixed catalog.
type Backend struct {
	mu      sync.Mutex
	catalog []commerce.Product
	lines   []*line
	newID   func() string
	logger  *zap.Logger
}

// New builds a Backend over catalog; a nil catalog selects DefaultCatalog.
func New(catalog []commerce.Product, logger *zap.Logger) *Backend {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Backend{
		catalog: catalog,
		newID:   func() string { return "line-" + uuid.NewString() },
		logger:  logging.OrNop(logger),
	}
}

// GetCart returns the single mock cart; an empty one until lines are added.
// The id is ignored.
func (b *Backend) GetCart(_ context.Context, _ string) (*domain.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked(), nil
}

// CreateCart starts a fresh cart holding lines.
func (b *Backend) CreateCart(_ context.Context, lines []commerce.LineInput) (*domain.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	resolved, err := b.resolveLocked(lines)
	if err != nil {
		return nil, err
	}
	b.lines = nil
	b.mergeLocked(resolved)
	b.logger.Debug("mock cart created", zap.Int("lines", len(b.lines)))
	return b.snapshotLocked(), nil
}

// AddLines increments the quantity of a line with the same variant, or
// appends a new line. Unknown variants fail the whole call.
func (b *Backend) AddLines(_ context.Context, _ string, lines []commerce.LineInput) (*domain.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	resolved, err := b.resolveLocked(lines)
	if err != nil {
		return nil, err
	}
	b.mergeLocked(resolved)
	return b.snapshotLocked(), nil
}

// UpdateLines sets quantities; zero or less deletes the line. Unknown line ids are ignored.
func (b *Backend) UpdateLines(_ context.Context, _ string, updates []commerce.LineUpdate) (*domain.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range updates {
		idx := b.indexLocked(u.ID)
		if idx < 0 {
			continue
		}
		if u.Quantity <= 0 {
			b.lines = append(b.lines[:idx], b.lines[idx+1:]...)
			continue
		}
		b.lines[idx].qty = u.Quantity
	}
	return b.snapshotLocked(), nil
}

func (b *Backend) RemoveLines(_ context.Context, _ string, lineIDs []string) (*domain.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	drop := make(map[string]struct{}, len(lineIDs))
	for _, id := range lineIDs {
		drop[id] = struct{}{}
	}
	kept := b.lines[:0]
	for _, l := range b.lines {
		if _, ok := drop[l.id]; !ok {
			kept = append(kept, l)
		}
	}
	b.lines = kept
	return b.snapshotLocked(), nil
}

// Products returns the catalog in domain form.
func (b *Backend) Products() []domain.Product {
	out := make([]domain.Product, 0, len(b.catalog))
	for _, p := range b.catalog {
		out = append(out, commerce.TransformProduct(p))
	}
	return out
}

// ProductByHandle looks a product up by its slug.
func (b *Backend) ProductByHandle(handle string) (*domain.Product, error) {
	for _, p := range b.catalog {
		if strings.EqualFold(p.Handle, handle) {
			out := commerce.TransformProduct(p)
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

type resolvedLine struct {
	qty     int
	product commerce.Product
	variant commerce.ProductVariant
}

func (b *Backend) resolveLocked(lines []commerce.LineInput) ([]resolvedLine, error) {
	out := make([]resolvedLine, 0, len(lines))
	for _, in := range lines {
		if in.Quantity <= 0 {
			return nil, commerce.UserErrors{{Field: []string{"lines", "quantity"}, Message: "Quantity must be positive"}}
		}
		product, variant, ok := b.findVariant(in.MerchandiseID)
		if !ok {
			return nil, fmt.Errorf("mock: product or variant %q: %w", in.MerchandiseID, domain.ErrNotFound)
		}
		out = append(out, resolvedLine{qty: in.Quantity, product: product, variant: variant})
	}
	return out, nil
}

func (b *Backend) mergeLocked(lines []resolvedLine) {
	for _, r := range lines {
		merged := false
		for _, l := range b.lines {
			if l.variant.ID == r.variant.ID {
				l.qty += r.qty
				merged = true
				break
			}
		}
		if !merged {
			b.lines = append(b.lines, &line{id: b.newID(), qty: r.qty, product: r.product, variant: r.variant})
		}
	}
}

func (b *Backend) findVariant(id string) (commerce.Product, commerce.ProductVariant, bool) {
	for _, p := range b.catalog {
		for _, edge := range p.Variants.Edges {
			if edge.Node.ID == id {
				return p, edge.Node, true
			}
		}
	}
	return commerce.Product{}, commerce.ProductVariant{}, false
}

func (b *Backend) indexLocked(lineID string) int {
	for i, l := range b.lines {
		if l.id == lineID {
			return i
		}
	}
	return -1
}

// snapshotLocked renders the cart in wire shape and runs it through the same
// transformer the remote backend uses.
func (b *Backend) snapshotLocked() *domain.Cart {
	wire := b.wireLocked()
	out := commerce.TransformCart(wire)
	return &out
}

func (b *Backend) wireLocked() commerce.Cart {
	currency := "USD"
	subtotal := decimal.Zero
	totalQty := 0
	edges := make([]commerce.CartLineEdge, 0, len(b.lines))
	for _, l := range b.lines {
		if l.variant.Price.CurrencyCode != "" {
			currency = l.variant.Price.CurrencyCode
		}
		unit, err := decimal.NewFromString(l.variant.Price.Amount)
		if err != nil {
			b.logger.Warn("mock: unparseable variant price", zap.String("variant", l.variant.ID), zap.Error(err))
			unit = decimal.Zero
		}
		lineTotal := unit.Mul(decimal.NewFromInt(int64(l.qty)))
		subtotal = subtotal.Add(lineTotal)
		totalQty += l.qty
		edges = append(edges, commerce.CartLineEdge{Node: commerce.CartLine{
			ID:       l.id,
			Quantity: l.qty,
			Merchandise: commerce.Merchandise{
				ID:    l.variant.ID,
				Title: l.variant.Title,
				Price: l.variant.Price,
				Product: commerce.LineProduct{
					ID:     l.product.ID,
					Title:  l.product.Title,
					Handle: l.product.Handle,
					Images: l.product.Images,
				},
			},
			Cost: commerce.LineCost{TotalAmount: commerce.Money{Amount: lineTotal.StringFixed(2), CurrencyCode: currency}},
		}})
	}
	total := commerce.Money{Amount: subtotal.StringFixed(2), CurrencyCode: currency}
	return commerce.Cart{
		ID:            CartID,
		CheckoutURL:   CheckoutURL,
		TotalQuantity: totalQty,
		Lines:         commerce.CartLineConnection{Edges: edges},
		Cost: commerce.CartCost{
			TotalAmount:    total,
			SubtotalAmount: total,
		},
	}
}
