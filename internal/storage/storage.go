// Package storage persists small string values under string keys, the way a
// browser's local storage would. The cart engine keeps one cart id per key.
package storage

import (
	"context"
	"errors"
)

// ErrUnavailable marks a store that cannot be read or written right now.
var ErrUnavailable = errors.New("storage: unavailable")

// Storage is a string key/value store. Get reports ok=false for a missing key.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by stores backed by something that can go away.
type Pinger interface {
	Ping(ctx context.Context) error
}
