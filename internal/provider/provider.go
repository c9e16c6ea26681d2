package provider

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/imelnik/stock_quotes/internal/quote"
)

// MarketData is the upstream retrieval port. Implementations fetch daily
// bars for one instrument; timeout handling is theirs, not the caller's.
type MarketData interface {
	FetchLatest(ctx context.Context, symbol string, windowDays int) (quote.BarSeries, error)
	// FetchRange returns bars with dates in [start, end).
	FetchRange(ctx context.Context, symbol string, start, end time.Time) (quote.BarSeries, error)
	FetchBatch(ctx context.Context, symbols []string, windowDays int) map[string]quote.SeriesResult
}

// FanOut fetches every symbol concurrently with at most limit in flight
// and captures the result or error per symbol. A failing symbol never
// cancels its siblings.
func FanOut(ctx context.Context, symbols []string, limit int,
	fetch func(ctx context.Context, symbol string) (quote.BarSeries, error)) map[string]quote.SeriesResult {

	if limit < 1 {
		limit = 1
	}

	var mu sync.Mutex
	results := make(map[string]quote.SeriesResult, len(symbols))

	g := new(errgroup.Group)
	g.SetLimit(limit)
	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			series, err := fetch(ctx, symbol)
			mu.Lock()
			results[symbol] = quote.SeriesResult{Series: series, Err: err}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return results
}
