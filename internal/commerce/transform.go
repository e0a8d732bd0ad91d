package commerce

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain"
)

// ErrMalformedAmount marks a payload whose money amounts do not parse.
var ErrMalformedAmount = errors.New("commerce: malformed amount")

// TransformProduct flattens a product's image and variant connections.
// Unparseable prices become NaN; see CheckProduct.
func TransformProduct(p Product) domain.Product {
	images := make([]domain.Image, 0, len(p.Images.Edges))
	for _, edge := range p.Images.Edges {
		images = append(images, toImage(edge.Node))
	}

	variants := make([]domain.ProductVariant, 0, len(p.Variants.Edges))
	for _, edge := range p.Variants.Edges {
		variants = append(variants, TransformVariant(edge.Node))
	}

	var options []domain.ProductOption
	for _, o := range p.Options {
		options = append(options, domain.ProductOption{ID: o.ID, Name: o.Name, Values: append([]string(nil), o.Values...)})
	}

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	return domain.Product{
		ID:          p.ID,
		Title:       p.Title,
		Handle:      p.Handle,
		Description: p.Description,
		Vendor:      p.Vendor,
		ProductType: p.ProductType,
		Tags:        tags,
		Images:      images,
		Variants:    variants,
		PriceRange: domain.PriceRange{
			Min:          parseAmount(p.PriceRange.MinVariantPrice.Amount),
			Max:          parseAmount(p.PriceRange.MaxVariantPrice.Amount),
			CurrencyCode: p.PriceRange.MinVariantPrice.CurrencyCode,
		},
		Options:   options,
		CreatedAt: parseTime(p.CreatedAt),
		UpdatedAt: parseTime(p.UpdatedAt),
	}
}

func TransformVariant(v ProductVariant) domain.ProductVariant {
	out := domain.ProductVariant{
		ID:                v.ID,
		Title:             v.Title,
		Price:             parseAmount(v.Price.Amount),
		CurrencyCode:      v.Price.CurrencyCode,
		AvailableForSale:  v.AvailableForSale,
		QuantityAvailable: v.QuantityAvailable,
		SelectedOptions:   make([]domain.SelectedOption, 0, len(v.SelectedOptions)),
	}
	if v.CompareAtPrice != nil {
		cmp := parseAmount(v.CompareAtPrice.Amount)
		out.CompareAtPrice = &cmp
	}
	for _, so := range v.SelectedOptions {
		out.SelectedOptions = append(out.SelectedOptions, domain.SelectedOption{Name: so.Name, Value: so.Value})
	}
	if v.Image != nil {
		img := toImage(*v.Image)
		out.Image = &img
	}
	return out
}

// TransformCartLine uses the product's first image as the line image.
func TransformCartLine(line CartLine) domain.CartLine {
	out := domain.CartLine{
		ID:           line.ID,
		VariantID:    line.Merchandise.ID,
		ProductID:    line.Merchandise.Product.ID,
		Title:        line.Merchandise.Title,
		ProductTitle: line.Merchandise.Product.Title,
		Handle:       line.Merchandise.Product.Handle,
		Quantity:     line.Quantity,
		Price:        parseAmount(line.Merchandise.Price.Amount),
		TotalPrice:   parseAmount(line.Cost.TotalAmount.Amount),
		CurrencyCode: line.Merchandise.Price.CurrencyCode,
	}
	if edges := line.Merchandise.Product.Images.Edges; len(edges) > 0 {
		img := toImage(edges[0].Node)
		out.Image = &img
	}
	return out
}

// TransformCart flattens a cart. Tax defaults to zero when the backend omits it.
func TransformCart(c Cart) domain.Cart {
	items := make([]domain.CartLine, 0, len(c.Lines.Edges))
	for _, edge := range c.Lines.Edges {
		items = append(items, TransformCartLine(edge.Node))
	}
	tax := 0.0
	if c.Cost.TotalTaxAmount != nil {
		tax = parseAmount(c.Cost.TotalTaxAmount.Amount)
	}
	return domain.Cart{
		ID:             c.ID,
		CheckoutURL:    c.CheckoutURL,
		TotalQuantity:  c.TotalQuantity,
		Items:          items,
		SubtotalAmount: parseAmount(c.Cost.SubtotalAmount.Amount),
		TotalTaxAmount: tax,
		TotalAmount:    parseAmount(c.Cost.TotalAmount.Amount),
		CurrencyCode:   c.Cost.TotalAmount.CurrencyCode,
	}
}

// CheckCart rejects a transformed cart carrying non-finite amounts.
func CheckCart(c domain.Cart) error {
	if !finite(c.SubtotalAmount) || !finite(c.TotalTaxAmount) || !finite(c.TotalAmount) {
		return ErrMalformedAmount
	}
	for _, line := range c.Items {
		if !finite(line.Price) || !finite(line.TotalPrice) {
			return ErrMalformedAmount
		}
	}
	return nil
}

// CheckProduct rejects a transformed product carrying non-finite prices.
func CheckProduct(p domain.Product) error {
	if !finite(p.PriceRange.Min) || !finite(p.PriceRange.Max) {
		return ErrMalformedAmount
	}
	for _, v := range p.Variants {
		if !finite(v.Price) || (v.CompareAtPrice != nil && !finite(*v.CompareAtPrice)) {
			return ErrMalformedAmount
		}
	}
	return nil
}

func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func toImage(img Image) domain.Image {
	return domain.Image{ID: img.ID, URL: img.URL, AltText: img.AltText, Width: img.Width, Height: img.Height}
}

func parseTime(val string) time.Time {
	val = strings.TrimSpace(val)
	if val == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, val); err == nil {
			return ts
		}
	}
	return time.Time{}
}
