package cart

import (
	"context"

	"storefront/internal/commerce"
	"storefront/internal/config"
	"storefront/internal/domain"
)

// Backend is the cart capability shared by the Storefront API client and the
// mock backend.
type Backend interface {
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)
	CreateCart(ctx context.Context, lines []commerce.LineInput) (*domain.Cart, error)
	AddLines(ctx context.Context, cartID string, lines []commerce.LineInput) (*domain.Cart, error)
	UpdateLines(ctx context.Context, cartID string, lines []commerce.LineUpdate) (*domain.Cart, error)
	RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error)
}

type Mode int

const (
	ModeMock Mode = iota
	ModeRemote
)

func (m Mode) String() string {
	if m == ModeRemote {
		return "remote"
	}
	return "mock"
}

// Selector picks the backend for one operation. The engine calls it at the
// start of every operation.
type Selector func() (Backend, Mode)

// Fixed always selects b.
func Fixed(b Backend, mode Mode) Selector {
	return func() (Backend, Mode) { return b, mode }
}

// ConfiguredSelector selects remote whenever creds reports a complete set of
// credentials, and mock otherwise. creds is re-read on every call.
func ConfiguredSelector(creds func() config.Commerce, remote func(config.Commerce) Backend, mock Backend) Selector {
	return func() (Backend, Mode) {
		c := creds()
		if c.Configured() {
			if b := remote(c); b != nil {
				return b, ModeRemote
			}
		}
		return mock, ModeMock
	}
}
