package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"storefront/internal/domain"
	"storefront/internal/money"
)

type Availability string

const (
	AvailabilityAny         Availability = ""
	AvailabilityAvailable   Availability = "available"
	AvailabilityUnavailable Availability = "unavailable"
)

// Filters narrow a product list. Zero values match everything.
type Filters struct {
	Vendor       string       `json:"vendor,omitempty"`
	ProductType  string       `json:"productType,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	MinPrice     *float64     `json:"minPrice,omitempty"`
	MaxPrice     *float64     `json:"maxPrice,omitempty"`
	Availability Availability `json:"availability,omitempty"`
}

type SortKey string

const (
	SortTitle       SortKey = "title"
	SortPrice       SortKey = "price"
	SortCreated     SortKey = "created"
	SortUpdated     SortKey = "updated"
	SortBestSelling SortKey = "best-selling"
	SortRelevance   SortKey = "relevance"
)

// ParseSortKey maps unknown input to SortTitle.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortTitle, SortPrice, SortCreated, SortUpdated, SortBestSelling, SortRelevance:
		return k
	}
	return SortTitle
}

type Query struct {
	Text    string  `json:"text"`
	Filters Filters `json:"filters"`
	Sort    SortKey `json:"sort"`
	Reverse bool    `json:"reverse"`
}

// MatchText reports whether text occurs, ignoring case, in the product's
// title, description, vendor or any tag. Blank text matches.
func MatchText(p domain.Product, text string) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Vendor), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// ApplyFilters keeps input order. Filters run vendor, product type, tags,
// price overlap, then availability.
func ApplyFilters(products []domain.Product, f Filters) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.Vendor != "" && p.Vendor != f.Vendor {
			continue
		}
		if f.ProductType != "" && p.ProductType != f.ProductType {
			continue
		}
		if len(f.Tags) > 0 && !anyTag(p.Tags, f.Tags) {
			continue
		}
		if f.MinPrice != nil && p.PriceRange.Max < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.PriceRange.Min > *f.MaxPrice {
			continue
		}
		switch f.Availability {
		case AvailabilityAvailable:
			if !money.IsProductInStock(p) {
				continue
			}
		case AvailabilityUnavailable:
			if money.IsProductInStock(p) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func anyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// Sort returns a stably sorted copy. Best-selling and relevance keep the
// backend's order. reverse flips the final sequence.
func Sort(products []domain.Product, key SortKey, reverse bool) []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)

	switch key {
	case SortTitle:
		col := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Title, out[j].Title) < 0
		})
	case SortPrice:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PriceRange.Min < out[j].PriceRange.Min
		})
	case SortCreated:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	case SortUpdated:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		})
	}

	if reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Options lists the values a filter UI can offer for products.
type Options struct {
	Vendors      []string `json:"vendors"`
	ProductTypes []string `json:"productTypes"`
	Tags         []string `json:"tags"`
	MinPrice     float64  `json:"minPrice"`
	MaxPrice     float64  `json:"maxPrice"`
}

func FilterOptions(products []domain.Product) Options {
	vendors := map[string]struct{}{}
	types := map[string]struct{}{}
	tags := map[string]struct{}{}
	opts := Options{}
	for i, p := range products {
		if p.Vendor != "" {
			vendors[p.Vendor] = struct{}{}
		}
		if p.ProductType != "" {
			types[p.ProductType] = struct{}{}
		}
		for _, t := range p.Tags {
			tags[t] = struct{}{}
		}
		if i == 0 || p.PriceRange.Min < opts.MinPrice {
			opts.MinPrice = p.PriceRange.Min
		}
		if i == 0 || p.PriceRange.Max > opts.MaxPrice {
			opts.MaxPrice = p.PriceRange.Max
		}
	}
	opts.Vendors = sortedKeys(vendors)
	opts.ProductTypes = sortedKeys(types)
	opts.Tags = sortedKeys(tags)
	return opts
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	col := collate.New(language.English)
	col.SortStrings(out)
	return out
}
