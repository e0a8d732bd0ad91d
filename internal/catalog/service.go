// Package catalog lists and searches products against the Storefront API or
// the mock catalog, then filters and sorts them the same way for both.
package catalog

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logging"
)

const (
	// PageSize is how many products a listing or search asks for.
	PageSize = 50
	// FeaturedCount is the home page's product count.
	FeaturedCount = 8
	// LiveResults caps search-as-you-type results.
	LiveResults = 10
)

// Source is the remote product API.
type Source interface {
	ListProducts(ctx context.Context, first int) ([]domain.Product, error)
	SearchProducts(ctx context.Context, query string, first int) ([]domain.Product, error)
	ProductByHandle(ctx context.Context, handle string) (*domain.Product, error)
}

// Fallback is the local catalog.
type Fallback interface {
	Products() []domain.Product
	ProductByHandle(handle string) (*domain.Product, error)
}

// Result carries the products and whether they came from the local catalog.
type Result struct {
	Products []domain.Product `json:"products"`
	Mock     bool             `json:"mock"`
}

type Service struct {
	remote func() Source
	local  Fallback
	logger *zap.Logger
}

// NewService builds a Service. remote returns nil when no credentials are
// configured and is called on every request.
func NewService(remote func() Source, local Fallback, logger *zap.Logger) *Service {
	if remote == nil {
		remote = func() Source { return nil }
	}
	return &Service{remote: remote, local: local, logger: logging.OrNop(logger)}
}

// Search fetches by text (or lists when text is blank), then filters and
// sorts. A remote failure falls back to the local catalog.
func (s *Service) Search(ctx context.Context, q Query) Result {
	res := s.fetch(ctx, q.Text, PageSize)
	res.Products = Sort(ApplyFilters(res.Products, q.Filters), q.Sort, q.Reverse)
	return res
}

// Featured returns the first n products.
func (s *Service) Featured(ctx context.Context, n int) Result {
	if n <= 0 {
		n = FeaturedCount
	}
	if src := s.remote(); src != nil {
		products, err := src.ListProducts(ctx, n)
		if err == nil {
			return Result{Products: products}
		}
		s.logger.Warn("catalog: featured fetch failed, using mock catalog", zap.Error(err))
	}
	products := s.local.Products()
	if len(products) > n {
		products = products[:n]
	}
	return Result{Products: products, Mock: true}
}

// ProductByHandle returns domain.ErrNotFound when neither source has handle.
func (s *Service) ProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	if src := s.remote(); src != nil {
		p, err := src.ProductByHandle(ctx, handle)
		if err == nil || errors.Is(err, domain.ErrNotFound) {
			return p, err
		}
		s.logger.Warn("catalog: product fetch failed, using mock catalog", zap.String("handle", handle), zap.Error(err))
	}
	return s.local.ProductByHandle(handle)
}

// Live runs a blank-safe search for search-as-you-type: blank text yields
// no products, and at most LiveResults are returned.
func (s *Service) Live(ctx context.Context, text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Products: []domain.Product{}}
	}
	res := s.fetch(ctx, text, LiveResults)
	if len(res.Products) > LiveResults {
		res.Products = res.Products[:LiveResults]
	}
	return res
}

func (s *Service) fetch(ctx context.Context, text string, first int) Result {
	if src := s.remote(); src != nil {
		var (
			products []domain.Product
			err      error
		)
		if strings.TrimSpace(text) != "" {
			products, err = src.SearchProducts(ctx, text, first)
		} else {
			products, err = src.ListProducts(ctx, first)
		}
		if err == nil {
			return Result{Products: products}
		}
		s.logger.Warn("catalog: remote fetch failed, using mock catalog", zap.String("query", text), zap.Error(err))
	}

	all := s.local.Products()
	out := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if MatchText(p, text) {
			out = append(out, p)
		}
	}
	return Result{Products: out, Mock: true}
}
