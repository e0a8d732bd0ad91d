// Package storefront talks to the hosted Storefront GraphQL API.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/machinebox/graphql"
	"go.uber.org/zap"

	"storefront/internal/commerce"
	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

const (
	defaultTimeout = 10 * time.Second
	tokenHeader    = "X-Shopify-Storefront-Access-Token"
	// DefaultPageSize is the first-N used by catalog listing and search.
	DefaultPageSize = 50
)

// Client issues Storefront API queries and cart mutations.
type Client struct {
	gql    *graphql.Client
	token  string
	logger *zap.Logger
}

// Endpoint builds the GraphQL URL for a store domain. A domain that already
// carries a scheme is used as the base unchanged.
func Endpoint(storeDomain, apiVersion string) string {
	base := strings.TrimRight(strings.TrimSpace(storeDomain), "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	if apiVersion == "" {
		apiVersion = config.DefaultAPIVersion
	}
	return base + "/api/" + apiVersion + "/graphql.json"
}

// New builds a client for endpoint. httpClient may be nil.
func New(endpoint, token string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	logger = logging.OrNop(logger)
	gql := graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient))
	gql.Log = func(s string) { logger.Debug(s) }
	return &Client{gql: gql, token: token, logger: logger}
}

func (c *Client) run(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error {
	req := graphql.NewRequest(query)
	for k, v := range vars {
		req.Var(k, v)
	}
	req.Header.Set(tokenHeader, c.token)
	req.Header.Set("Accept", "application/json")
	if err := c.gql.Run(ctx, req, out); err != nil {
		return fmt.Errorf("storefront: %w", err)
	}
	return nil
}

type productsResponse struct {
	Products commerce.ProductConnection `json:"products"`
}

func (c *Client) ListProducts(ctx context.Context, first int) ([]domain.Product, error) {
	var resp productsResponse
	if err := c.run(ctx, productsQuery, map[string]interface{}{"first": pageSize(first)}, &resp); err != nil {
		return nil, err
	}
	return c.products(resp.Products), nil
}

func (c *Client) SearchProducts(ctx context.Context, query string, first int) ([]domain.Product, error) {
	var resp productsResponse
	vars := map[string]interface{}{"query": query, "first": pageSize(first)}
	if err := c.run(ctx, searchProductsQuery, vars, &resp); err != nil {
		return nil, err
	}
	return c.products(resp.Products), nil
}

func (c *Client) ProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	var resp struct {
		ProductByHandle *commerce.Product `json:"productByHandle"`
	}
	if err := c.run(ctx, productByHandleQuery, map[string]interface{}{"handle": handle}, &resp); err != nil {
		return nil, err
	}
	if resp.ProductByHandle == nil {
		return nil, domain.ErrNotFound
	}
	p := commerce.TransformProduct(*resp.ProductByHandle)
	if err := commerce.CheckProduct(p); err != nil {
		return nil, fmt.Errorf("storefront: product %s: %w", p.Handle, err)
	}
	return &p, nil
}

// products drops entries whose prices do not parse.
func (c *Client) products(conn commerce.ProductConnection) []domain.Product {
	out := make([]domain.Product, 0, len(conn.Edges))
	for _, edge := range conn.Edges {
		p := commerce.TransformProduct(edge.Node)
		if err := commerce.CheckProduct(p); err != nil {
			c.logger.Warn("storefront: skipping product", zap.String("handle", p.Handle), zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	return out
}

// GetCart returns domain.ErrCartNotFound when the id no longer resolves.
func (c *Client) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	var resp struct {
		Cart *commerce.Cart `json:"cart"`
	}
	if err := c.run(ctx, getCartQuery, map[string]interface{}{"cartId": cartID}, &resp); err != nil {
		return nil, err
	}
	if resp.Cart == nil {
		return nil, domain.ErrCartNotFound
	}
	return adopt(*resp.Cart)
}

type cartPayload struct {
	Cart       *commerce.Cart       `json:"cart"`
	UserErrors []commerce.UserError `json:"userErrors"`
}

func (p cartPayload) result() (*domain.Cart, error) {
	if len(p.UserErrors) > 0 {
		return nil, commerce.UserErrors(p.UserErrors)
	}
	if p.Cart == nil {
		return nil, fmt.Errorf("storefront: mutation returned no cart: %w", domain.ErrCartNotFound)
	}
	return adopt(*p.Cart)
}

func (c *Client) CreateCart(ctx context.Context, lines []commerce.LineInput) (*domain.Cart, error) {
	var resp struct {
		CartCreate cartPayload `json:"cartCreate"`
	}
	vars := map[string]interface{}{"input": map[string]interface{}{"lines": lines}}
	if err := c.run(ctx, createCartMutation, vars, &resp); err != nil {
		return nil, err
	}
	return resp.CartCreate.result()
}

func (c *Client) AddLines(ctx context.Context, cartID string, lines []commerce.LineInput) (*domain.Cart, error) {
	var resp struct {
		CartLinesAdd cartPayload `json:"cartLinesAdd"`
	}
	vars := map[string]interface{}{"cartId": cartID, "lines": lines}
	if err := c.run(ctx, addLinesMutation, vars, &resp); err != nil {
		return nil, err
	}
	return resp.CartLinesAdd.result()
}

func (c *Client) UpdateLines(ctx context.Context, cartID string, lines []commerce.LineUpdate) (*domain.Cart, error) {
	var resp struct {
		CartLinesUpdate cartPayload `json:"cartLinesUpdate"`
	}
	vars := map[string]interface{}{"cartId": cartID, "lines": lines}
	if err := c.run(ctx, updateLinesMutation, vars, &resp); err != nil {
		return nil, err
	}
	return resp.CartLinesUpdate.result()
}

func (c *Client) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	var resp struct {
		CartLinesRemove cartPayload `json:"cartLinesRemove"`
	}
	vars := map[string]interface{}{"cartId": cartID, "lineIds": lineIDs}
	if err := c.run(ctx, removeLinesMutation, vars, &resp); err != nil {
		return nil, err
	}
	return resp.CartLinesRemove.result()
}

func adopt(wire commerce.Cart) (*domain.Cart, error) {
	cart := commerce.TransformCart(wire)
	if err := commerce.CheckCart(cart); err != nil {
		return nil, fmt.Errorf("storefront: cart %s: %w", cart.ID, err)
	}
	return &cart, nil
}

func pageSize(first int) int {
	if first <= 0 {
		return DefaultPageSize
	}
	return first
}

// Provider hands out a Client for the current credentials, rebuilding it
// only when they change.
type Provider struct {
	httpClient *http.Client
	logger     *zap.Logger

	mu     sync.Mutex
	key    string
	client *Client
}

func NewProvider(httpClient *http.Client, logger *zap.Logger) *Provider {
	return &Provider{httpClient: httpClient, logger: logging.OrNop(logger)}
}

// Client returns nil when creds are not configured.
func (p *Provider) Client(creds config.Commerce) *Client {
	if !creds.Configured() {
		return nil
	}
	endpoint := Endpoint(creds.StoreDomain, creds.APIVersion)
	key := endpoint + "|" + creds.AccessToken

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil || p.key != key {
		p.logger.Info("storefront client configured", zap.String("endpoint", endpoint))
		p.client = New(endpoint, creds.AccessToken, p.httpClient, p.logger)
		p.key = key
	}
	return p.client
}

// IsUserError reports whether err carries backend validation errors.
func IsUserError(err error) bool {
	var ue commerce.UserErrors
	return errors.As(err, &ue)
}
