package catalog

import (
	"context"
	"time"

	"storefront/internal/debounce"
)

// LiveSearch runs Service.Live for the latest text typed within a quiet
// window and hands the result to deliver.
type LiveSearch struct {
	deb *debounce.Debouncer[string]
}

func (s *Service) NewLiveSearch(ctx context.Context, window time.Duration, deliver func(text string, res Result)) *LiveSearch {
	return &LiveSearch{deb: debounce.New(window, func(text string) {
		if ctx.Err() != nil {
			return
		}
		deliver(text, s.Live(ctx, text))
	})}
}

func (l *LiveSearch) Type(text string) { l.deb.Call(text) }

// Stop drops any pending search; later Type calls are ignored.
func (l *LiveSearch) Stop() { l.deb.Stop() }
