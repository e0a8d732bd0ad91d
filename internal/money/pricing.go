package money

import (
	"math"

	"storefront/internal/domain"
)

// PriceRangeText shows a single price when min == max, otherwise "min - max".
func PriceRangeText(p domain.Product) string {
	pr := p.PriceRange
	if pr.Min == pr.Max {
		return FormatPrice(pr.Min, pr.CurrencyCode)
	}
	return FormatPrice(pr.Min, pr.CurrencyCode) + " - " + FormatPrice(pr.Max, pr.CurrencyCode)
}

type PriceDisplay struct {
	Price          string `json:"price"`
	CompareAtPrice string `json:"compareAtPrice,omitempty"`
	OnSale         bool   `json:"onSale"`
}

// VariantPriceDisplay formats a variant's price. A compare-at price above
// the price marks the variant as on sale.
func VariantPriceDisplay(v domain.ProductVariant) PriceDisplay {
	out := PriceDisplay{Price: FormatPrice(v.Price, v.CurrencyCode)}
	if v.CompareAtPrice != nil {
		out.CompareAtPrice = FormatPrice(*v.CompareAtPrice, v.CurrencyCode)
		out.OnSale = *v.CompareAtPrice > v.Price
	}
	return out
}

type Savings struct {
	Amount     string `json:"amount"`
	Percentage int    `json:"percentage"`
}

// CalculateSavings returns the formatted difference and the percentage off
// compareAtPrice, rounded half up.
func CalculateSavings(price, compareAtPrice float64, currencyCode string) Savings {
	diff := compareAtPrice - price
	pct := 0
	if compareAtPrice != 0 {
		pct = int(math.Floor(diff/compareAtPrice*100 + 0.5))
	}
	return Savings{
		Amount:     FormatPrice(diff, currencyCode),
		Percentage: pct,
	}
}

// BestSavings picks the largest discount across a product's variants, if any.
func BestSavings(p domain.Product) *Savings {
	var best *Savings
	bestDiff := 0.0
	for _, v := range p.Variants {
		if v.CompareAtPrice == nil || *v.CompareAtPrice <= v.Price {
			continue
		}
		diff := *v.CompareAtPrice - v.Price
		if best == nil || diff > bestDiff {
			s := CalculateSavings(v.Price, *v.CompareAtPrice, v.CurrencyCode)
			best = &s
			bestDiff = diff
		}
	}
	return best
}

func IsProductInStock(p domain.Product) bool {
	for _, v := range p.Variants {
		if v.AvailableForSale {
			return true
		}
	}
	return false
}

// IsVariantInStock treats an unknown quantity as in stock.
func IsVariantInStock(v domain.ProductVariant) bool {
	return v.AvailableForSale && (v.QuantityAvailable == nil || *v.QuantityAvailable > 0)
}
