package cart

import (
	"errors"
	"fmt"
)

// ErrInvalidLine rejects an add with an empty variant or a quantity below one.
var ErrInvalidLine = errors.New("cart: variant id and a positive quantity are required")

type ErrorKind int

const (
	LoadFailed ErrorKind = iota + 1
	CreateFailed
	AddFailed
	UpdateFailed
	RemoveFailed
	RefreshFailed
)

// Message is the text recorded in State.Error.
func (k ErrorKind) Message() string {
	switch k {
	case LoadFailed:
		return "Failed to load cart"
	case CreateFailed:
		return "Failed to create cart"
	case AddFailed:
		return "Failed to add to cart"
	case UpdateFailed:
		return "Failed to update cart"
	case RemoveFailed:
		return "Failed to remove from cart"
	case RefreshFailed:
		return "Failed to refresh cart"
	}
	return "Cart operation failed"
}

// Toast is the notification shown to the shopper. A failed create surfaces
// as a failed add.
func (k ErrorKind) Toast() string {
	if k == CreateFailed {
		return AddFailed.Message()
	}
	return k.Message()
}

func (k ErrorKind) String() string {
	switch k {
	case LoadFailed:
		return "LoadFailed"
	case CreateFailed:
		return "CreateFailed"
	case AddFailed:
		return "AddFailed"
	case UpdateFailed:
		return "UpdateFailed"
	case RemoveFailed:
		return "RemoveFailed"
	case RefreshFailed:
		return "RefreshFailed"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// OpError is returned by a failed operation. The engine state already holds
// Kind.Message() when the caller sees it.
type OpError struct {
	Kind ErrorKind
	Err  error
}

func (e *OpError) Error() string {
	return e.Kind.Message() + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }
