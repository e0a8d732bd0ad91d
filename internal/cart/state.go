package cart

import "storefront/internal/domain"

const initialCurrency = "USD"

// State is the engine's observable value. ID and CheckoutURL are empty until
// a cart exists.
type State struct {
	ID             string            `json:"id"`
	Items          []domain.CartLine `json:"items"`
	TotalQuantity  int               `json:"totalQuantity"`
	SubtotalAmount float64           `json:"subtotalAmount"`
	TotalTaxAmount float64           `json:"totalTaxAmount"`
	TotalAmount    float64           `json:"totalAmount"`
	CurrencyCode   string            `json:"currencyCode"`
	CheckoutURL    string            `json:"checkoutUrl"`
	IsLoading      bool              `json:"isLoading"`
	Error          string            `json:"error,omitempty"`

	// mode is the backend that issued ID.
	mode Mode
}

func initialState() State {
	return State{Items: []domain.CartLine{}, CurrencyCode: initialCurrency}
}

func (s State) clone() State {
	items := make([]domain.CartLine, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}

type event interface{ isEvent() }

type loading struct{ on bool }

type failed struct{ message string }

type adopted struct {
	cart domain.Cart
	mode Mode
}

type cleared struct{}

func (loading) isEvent() {}
func (failed) isEvent()  {}
func (adopted) isEvent() {}
func (cleared) isEvent() {}

// reduce is the only place State changes.
func reduce(s State, e event) State {
	switch ev := e.(type) {
	case loading:
		s.IsLoading = ev.on
	case failed:
		s.IsLoading = false
		s.Error = ev.message
	case adopted:
		c := ev.cart
		items := make([]domain.CartLine, 0, len(c.Items))
		for _, line := range c.Items {
			if line.Quantity > 0 {
				items = append(items, line)
			}
		}
		s = State{
			ID:             c.ID,
			Items:          items,
			TotalQuantity:  c.TotalQuantity,
			SubtotalAmount: c.SubtotalAmount,
			TotalTaxAmount: c.TotalTaxAmount,
			TotalAmount:    c.TotalAmount,
			CurrencyCode:   c.CurrencyCode,
			CheckoutURL:    c.CheckoutURL,
			mode:           ev.mode,
		}
		if s.CurrencyCode == "" {
			s.CurrencyCode = initialCurrency
		}
	case cleared:
		s = initialState()
	}
	return s
}
