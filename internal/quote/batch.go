package quote

// SeriesResult is the per-symbol outcome of a retrieval call: either a
// series or the error that prevented one.
type SeriesResult struct {
	Series BarSeries
	Err    error
}

// BatchResult maps requested symbols, case preserved, to their quotes.
type BatchResult map[string]Quote

// Batch extracts a quote per symbol independently. A failed retrieval
// becomes an error-tagged quote for that symbol and never affects the
// other entries.
func (e Extractor) Batch(results map[string]SeriesResult) BatchResult {
	batch := make(BatchResult, len(results))
	for symbol, res := range results {
		if res.Err != nil {
			batch[symbol] = Quote{
				Symbol:  symbol,
				Outcome: OutcomeError,
				Message: res.Err.Error(),
			}
			continue
		}
		series := res.Series
		if series.Symbol == "" {
			series.Symbol = symbol
		}
		batch[symbol] = e.LatestQuote(series)
	}
	return batch
}
