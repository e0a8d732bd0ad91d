// Package commerce describes the Storefront GraphQL payload shapes and maps
// them onto the flat domain types.
package commerce

import "strings"

type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type Image struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

type ImageEdge struct {
	Node Image `json:"node"`
}

type ImageConnection struct {
	Edges []ImageEdge `json:"edges"`
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

type ProductVariant struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Price             Money            `json:"price"`
	CompareAtPrice    *Money           `json:"compareAtPrice"`
	AvailableForSale  bool             `json:"availableForSale"`
	QuantityAvailable *int             `json:"quantityAvailable"`
	SelectedOptions   []SelectedOption `json:"selectedOptions"`
	Image             *Image           `json:"image"`
}

type VariantEdge struct {
	Node ProductVariant `json:"node"`
}

type VariantConnection struct {
	Edges []VariantEdge `json:"edges"`
}

type PriceRange struct {
	MinVariantPrice Money `json:"minVariantPrice"`
	MaxVariantPrice Money `json:"maxVariantPrice"`
}

type Product struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Handle      string            `json:"handle"`
	Description string            `json:"description"`
	Tags        []string          `json:"tags"`
	Vendor      string            `json:"vendor"`
	ProductType string            `json:"productType"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
	Images      ImageConnection   `json:"images"`
	Variants    VariantConnection `json:"variants"`
	PriceRange  PriceRange        `json:"priceRange"`
	Options     []ProductOption   `json:"options"`
}

type ProductEdge struct {
	Node   Product `json:"node"`
	Cursor string  `json:"cursor"`
}

type PageInfo struct {
	HasNextPage     bool   `json:"hasNextPage"`
	HasPreviousPage bool   `json:"hasPreviousPage"`
	StartCursor     string `json:"startCursor"`
	EndCursor       string `json:"endCursor"`
}

type ProductConnection struct {
	Edges    []ProductEdge `json:"edges"`
	PageInfo PageInfo      `json:"pageInfo"`
}

type LineProduct struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Handle string          `json:"handle"`
	Images ImageConnection `json:"images"`
}

type Merchandise struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Price   Money       `json:"price"`
	Product LineProduct `json:"product"`
}

type LineCost struct {
	TotalAmount    Money  `json:"totalAmount"`
	SubtotalAmount *Money `json:"subtotalAmount"`
}

type CartLine struct {
	ID          string      `json:"id"`
	Quantity    int         `json:"quantity"`
	Merchandise Merchandise `json:"merchandise"`
	Cost        LineCost    `json:"cost"`
}

type CartLineEdge struct {
	Node CartLine `json:"node"`
}

type CartLineConnection struct {
	Edges []CartLineEdge `json:"edges"`
}

type CartCost struct {
	TotalAmount     Money  `json:"totalAmount"`
	SubtotalAmount  Money  `json:"subtotalAmount"`
	TotalTaxAmount  *Money `json:"totalTaxAmount"`
	TotalDutyAmount *Money `json:"totalDutyAmount"`
}

type Cart struct {
	ID            string             `json:"id"`
	CreatedAt     string             `json:"createdAt"`
	UpdatedAt     string             `json:"updatedAt"`
	CheckoutURL   string             `json:"checkoutUrl"`
	TotalQuantity int                `json:"totalQuantity"`
	Lines         CartLineConnection `json:"lines"`
	Cost          CartCost           `json:"cost"`
}

// LineInput adds merchandise to a cart.
type LineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// LineUpdate sets the quantity of an existing line.
type LineUpdate struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// UserError is a validation failure reported inside a mutation payload.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// UserErrors is returned when a mutation payload carries a non-empty
// userErrors list. It is recoverable, unlike a transport failure.
type UserErrors []UserError

func (e UserErrors) Error() string {
	if len(e) == 0 {
		return "commerce: user error"
	}
	msgs := make([]string, 0, len(e))
	for _, ue := range e {
		msg := ue.Message
		if len(ue.Field) > 0 {
			msg = strings.Join(ue.Field, ".") + ": " + msg
		}
		msgs = append(msgs, msg)
	}
	return "commerce: " + strings.Join(msgs, "; ")
}
