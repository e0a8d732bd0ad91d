package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		amount   float64
		currency string
		want     string
	}{
		{29.99, "USD", "$29.99"},
		{1234.5, "USD", "$1,234.50"},
		{1234567.891, "usd", "$1,234,567.89"},
		{0, "", "$0.00"},
		{-5, "USD", "-$5.00"},
		{-0.001, "USD", "$0.00"},
		{12345, "JPY", "¥12,345"},
		{9.5, "EUR", "€9.50"},
		{10, "CHF", "CHF 10.00"},
		{math.NaN(), "USD", "NaN"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatPrice(tc.amount, tc.currency), "amount=%v currency=%s", tc.amount, tc.currency)
	}
}

func TestPriceRangeText(t *testing.T) {
	p := domain.Product{PriceRange: domain.PriceRange{Min: 10, Max: 10, CurrencyCode: "USD"}}
	assert.Equal(t, "$10.00", PriceRangeText(p))
	p.PriceRange.Max = 25.5
	assert.Equal(t, "$10.00 - $25.50", PriceRangeText(p))
}

func TestVariantPriceDisplay(t *testing.T) {
	v := domain.ProductVariant{Price: 299.99, CompareAtPrice: floatPtr(399.99), CurrencyCode: "USD"}
	got := VariantPriceDisplay(v)
	assert.Equal(t, PriceDisplay{Price: "$299.99", CompareAtPrice: "$399.99", OnSale: true}, got)

	v.CompareAtPrice = floatPtr(100)
	assert.False(t, VariantPriceDisplay(v).OnSale)

	v.CompareAtPrice = nil
	assert.Equal(t, PriceDisplay{Price: "$299.99"}, VariantPriceDisplay(v))
}

func TestCalculateSavings(t *testing.T) {
	s := CalculateSavings(299.99, 399.99, "USD")
	assert.Equal(t, "$100.00", s.Amount)
	assert.Equal(t, 25, s.Percentage)

	s = CalculateSavings(29.99, 39.99, "USD")
	assert.Equal(t, "$10.00", s.Amount)
	assert.Equal(t, 25, s.Percentage)

	assert.Equal(t, 0, CalculateSavings(1, 0, "USD").Percentage)
}

func TestBestSavings(t *testing.T) {
	p := domain.Product{Variants: []domain.ProductVariant{
		{Price: 10, CurrencyCode: "USD"},
		{Price: 10, CompareAtPrice: floatPtr(12), CurrencyCode: "USD"},
		{Price: 10, CompareAtPrice: floatPtr(20), CurrencyCode: "USD"},
	}}
	best := BestSavings(p)
	if assert.NotNil(t, best) {
		assert.Equal(t, 50, best.Percentage)
	}
	assert.Nil(t, BestSavings(domain.Product{Variants: []domain.ProductVariant{{Price: 1}}}))
}

func TestStockHelpers(t *testing.T) {
	assert.True(t, IsVariantInStock(domain.ProductVariant{AvailableForSale: true}))
	assert.False(t, IsVariantInStock(domain.ProductVariant{AvailableForSale: true, QuantityAvailable: intPtr(0)}))
	assert.False(t, IsVariantInStock(domain.ProductVariant{AvailableForSale: false, QuantityAvailable: intPtr(3)}))

	p := domain.Product{Variants: []domain.ProductVariant{{AvailableForSale: false}, {AvailableForSale: true}}}
	assert.True(t, IsProductInStock(p))
	assert.False(t, IsProductInStock(domain.Product{}))
}

func TestURLHelpers(t *testing.T) {
	assert.Equal(t, "/products/led-desk-lamp", ProductURL("led-desk-lamp"))
	assert.Equal(t, "42", ExtractID("gid://shopify/Product/42"))
	assert.Equal(t, "plain", ExtractID("plain"))
	assert.Equal(t, "gid://shopify/Cart/abc", GID("Cart", "abc"))

	assert.Equal(t, "", OptimizedImageURL("", 100, 100, "center"))
	assert.Equal(t, "https://cdn/x.jpg", OptimizedImageURL("https://cdn/x.jpg", 0, 0, ""))
	assert.Equal(t, "https://cdn/x.jpg?width=300&height=300&crop=center", ResponsiveImageURL("https://cdn/x.jpg", "small"))
	assert.Equal(t, "https://cdn/x.jpg?v=1&width=100", OptimizedImageURL("https://cdn/x.jpg?v=1", 100, 0, ""))
	assert.Equal(t, "https://cdn/x.jpg", ResponsiveImageURL("https://cdn/x.jpg", "giant"))
}

func TestVariantImageFallsBackToProduct(t *testing.T) {
	p := domain.Product{Images: []domain.Image{{ID: "main"}}}
	assert.Equal(t, "main", VariantImage(domain.ProductVariant{}, p).ID)
	assert.Equal(t, "own", VariantImage(domain.ProductVariant{Image: &domain.Image{ID: "own"}}, p).ID)
	assert.Nil(t, MainImage(domain.Product{}))
}
