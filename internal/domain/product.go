package domain

import "time"

type Image struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ProductOption struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// ProductVariant is a purchasable configuration of a product. Cart lines
// reference it by ID.
type ProductVariant struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Price             float64          `json:"price"`
	CompareAtPrice    *float64         `json:"compareAtPrice,omitempty"`
	CurrencyCode      string           `json:"currencyCode"`
	AvailableForSale  bool             `json:"availableForSale"`
	QuantityAvailable *int             `json:"quantityAvailable,omitempty"`
	SelectedOptions   []SelectedOption `json:"selectedOptions"`
	Image             *Image           `json:"image,omitempty"`
}

type PriceRange struct {
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	CurrencyCode string  `json:"currencyCode"`
}

type Product struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Handle      string           `json:"handle"`
	Description string           `json:"description"`
	Vendor      string           `json:"vendor"`
	ProductType string           `json:"productType"`
	Tags        []string         `json:"tags"`
	Images      []Image          `json:"images"`
	Variants    []ProductVariant `json:"variants"`
	PriceRange  PriceRange       `json:"priceRange"`
	Options     []ProductOption  `json:"options,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}
