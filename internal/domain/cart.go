package domain

// Cart is the flat view of a backend cart. Totals are always taken from the
// backend response, never summed locally.
type Cart struct {
	ID             string     `json:"id"`
	CheckoutURL    string     `json:"checkoutUrl"`
	TotalQuantity  int        `json:"totalQuantity"`
	Items          []CartLine `json:"items"`
	SubtotalAmount float64    `json:"subtotalAmount"`
	TotalTaxAmount float64    `json:"totalTaxAmount"`
	TotalAmount    float64    `json:"totalAmount"`
	CurrencyCode   string     `json:"currencyCode"`
}

type CartLine struct {
	ID           string  `json:"id"`
	VariantID    string  `json:"variantId"`
	ProductID    string  `json:"productId"`
	Title        string  `json:"title"`
	ProductTitle string  `json:"productTitle"`
	Handle       string  `json:"handle"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	TotalPrice   float64 `json:"totalPrice"`
	CurrencyCode string  `json:"currencyCode"`
	Image        *Image  `json:"image,omitempty"`
}
