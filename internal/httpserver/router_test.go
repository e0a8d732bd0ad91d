package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/mock"
	"storefront/internal/session"
	"storefront/internal/storage"
)

func newTestRouter(t *testing.T, ready func(context.Context) error) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := storage.NewMemory()
	sessions := session.NewManager(time.Hour, func(id string, notices cart.Notifier) *cart.Engine {
		return cart.New(cart.Fixed(mock.New(nil, nil), cart.ModeMock), cart.Options{
			Storage:    store,
			StorageKey: "shopify-cart-id:" + id,
			Notifier:   notices,
		})
	}, nil)
	return buildRouter(zapNop(), Deps{
		Sessions:     sessions,
		Catalog:      catalog.NewService(nil, mock.New(nil, nil), nil),
		Ready:        ready,
		SearchWindow: 100 * time.Millisecond,
	})
}

// client replays the session cookie like a browser.
type client struct {
	t      *testing.T
	router http.Handler
	cookie *http.Cookie
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionCookie {
			c.cookie = ck
		}
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

type cartBody struct {
	ID             string  `json:"id"`
	TotalQuantity  int     `json:"totalQuantity"`
	CheckoutURL    string  `json:"checkoutUrl"`
	FormattedTotal string  `json:"formattedTotal"`
	SubtotalAmount float64 `json:"subtotalAmount"`
	IsEmpty        bool    `json:"isEmpty"`
	Error          string  `json:"error"`
	Items          []struct {
		ID             string `json:"id"`
		VariantID      string `json:"variantId"`
		Quantity       int    `json:"quantity"`
		FormattedPrice string `json:"formattedPrice"`
		URL            string `json:"url"`
	} `json:"items"`
}

func TestHealthAndReady(t *testing.T) {
	router := newTestRouter(t, nil)
	c := &client{t: t, router: router}
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/readyz", "").Code)

	down := newTestRouter(t, func(context.Context) error { return errors.New("no db") })
	c = &client{t: t, router: down}
	assert.Equal(t, http.StatusServiceUnavailable, c.do(http.MethodGet, "/readyz", "").Code)
}

func TestCartFlow(t *testing.T) {
	c := &client{t: t, router: newTestRouter(t, nil)}

	rec := c.do(http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, c.cookie, "session cookie issued")
	var body cartBody
	decode(t, rec, &body)
	assert.True(t, body.IsEmpty)
	assert.Equal(t, mock.CartID, body.ID)

	rec = c.do(http.MethodPost, "/api/cart/lines", `{"variantId":"var1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = c.do(http.MethodPost, "/api/cart/lines", `{"variantId":"var1","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body = cartBody{}
	decode(t, rec, &body)
	require.Len(t, body.Items, 1)
	assert.Equal(t, 3, body.Items[0].Quantity)
	assert.Equal(t, "$299.99", body.Items[0].FormattedPrice)
	assert.Equal(t, "/products/premium-wireless-headphones", body.Items[0].URL)
	assert.Equal(t, "$899.97", body.FormattedTotal)
	assert.NotEmpty(t, body.CheckoutURL)

	lineID := body.Items[0].ID
	rec = c.do(http.MethodPatch, "/api/cart/lines/"+lineID, `{"quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body = cartBody{}
	decode(t, rec, &body)
	assert.Equal(t, 1, body.TotalQuantity)

	rec = c.do(http.MethodDelete, "/api/cart/lines/"+lineID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = cartBody{}
	decode(t, rec, &body)
	assert.True(t, body.IsEmpty)

	rec = c.do(http.MethodGet, "/api/notifications", "")
	var notes struct {
		Notifications []cart.Notice `json:"notifications"`
	}
	decode(t, rec, &notes)
	var messages []string
	for _, n := range notes.Notifications {
		messages = append(messages, n.Message)
	}
	assert.Equal(t, []string{"Added to cart!", "Added to cart!", "Cart updated!", "Removed from cart!"}, messages)

	rec = c.do(http.MethodDelete, "/api/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = cartBody{}
	decode(t, rec, &body)
	assert.Empty(t, body.ID)
}

func TestSessionsAreIsolated(t *testing.T) {
	router := newTestRouter(t, nil)
	a := &client{t: t, router: router}
	b := &client{t: t, router: router}

	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/cart/lines", `{"variantId":"var2"}`).Code)

	var body cartBody
	decode(t, b.do(http.MethodGet, "/api/cart", ""), &body)
	assert.True(t, body.IsEmpty)
}

func TestCartErrors(t *testing.T) {
	c := &client{t: t, router: newTestRouter(t, nil)}

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/cart/lines", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/cart/lines", `{"variantId":"var1","quantity":0}`).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPatch, "/api/cart/lines/x", `{}`).Code)

	rec := c.do(http.MethodPost, "/api/cart/lines", `{"variantId":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp struct {
		Error string   `json:"error"`
		Cart  cartBody `json:"cart"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "Failed to add to cart", resp.Error)
	assert.Equal(t, "Failed to add to cart", resp.Cart.Error)
}

func TestProductsEndpoints(t *testing.T) {
	c := &client{t: t, router: newTestRouter(t, nil)}

	rec := c.do(http.MethodGet, "/api/products?productType=Electronics&sort=price&reverse=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Products []struct {
			Handle    string `json:"handle"`
			LegacyID  string `json:"legacyId"`
			URL       string `json:"url"`
			PriceText string `json:"priceText"`
			Savings   *struct {
				Percentage int `json:"percentage"`
			} `json:"savings"`
		} `json:"products"`
		Total int  `json:"total"`
		Mock  bool `json:"mock"`
	}
	decode(t, rec, &list)
	assert.True(t, list.Mock)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "premium-wireless-headphones", list.Products[0].Handle)
	assert.Equal(t, "1", list.Products[0].LegacyID)
	assert.Equal(t, "$299.99", list.Products[0].PriceText)
	require.NotNil(t, list.Products[0].Savings)
	assert.Equal(t, 25, list.Products[0].Savings.Percentage)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/products?minPrice=cheap", "").Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/products?availability=maybe", "").Code)

	rec = c.do(http.MethodGet, "/api/products/featured?limit=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	assert.Equal(t, 3, list.Total)

	rec = c.do(http.MethodGet, "/api/products/filters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var opts catalog.Options
	decode(t, rec, &opts)
	assert.Contains(t, opts.ProductTypes, "Clothing")

	rec = c.do(http.MethodGet, "/api/products/led-desk-lamp", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var lamp struct {
		ID       string `json:"id"`
		LegacyID string `json:"legacyId"`
	}
	decode(t, rec, &lamp)
	assert.Equal(t, "gid://shopify/Product/7", lamp.ID)
	assert.Equal(t, "7", lamp.LegacyID)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/products/missing", "").Code)
}

func TestPriceBoundsMustBeFinite(t *testing.T) {
	c := &client{t: t, router: newTestRouter(t, nil)}

	tests := []struct {
		query string
		want  int
	}{
		{"minPrice=NaN", http.StatusBadRequest},
		{"maxPrice=nan", http.StatusBadRequest},
		{"minPrice=Inf", http.StatusBadRequest},
		{"maxPrice=-Infinity", http.StatusBadRequest},
		{"minPrice=%2BInf", http.StatusBadRequest},
		{"minPrice=30&maxPrice=40", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, c.do(http.MethodGet, "/api/products?"+tt.query, "").Code)
		})
	}
}

func TestLiveSearchWebSocket(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, nil))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/search"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(searchMessage{Query: "wat"}))
	require.NoError(t, conn.WriteJSON(searchMessage{Query: "water"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var reply searchReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "water", reply.Query)
	require.Len(t, reply.Products, 1)
	assert.Equal(t, "stainless-steel-water-bottle", reply.Products[0].Handle)
}

func TestCORSConfig(t *testing.T) {
	cfg := corsConfig(zapNop(), nil)
	assert.True(t, cfg.AllowAllOrigins)

	cfg = corsConfig(zapNop(), []string{"https://shop.example/", "shop.example"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"https://shop.example"}, cfg.AllowOrigins)
	assert.True(t, cfg.AllowCredentials)
}
