package quote_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imelnik/stock_quotes/internal/quote"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func bar(date time.Time, close string, high, low string, volume int64) quote.Bar {
	return quote.Bar{
		Date:   date,
		Close:  decimal.NullDecimal{Decimal: decimal.RequireFromString(close), Valid: true},
		High:   decimal.RequireFromString(high),
		Low:    decimal.RequireFromString(low),
		Volume: volume,
	}
}

func barNoClose(date time.Time) quote.Bar {
	return quote.Bar{Date: date, Volume: 0}
}

func TestLatestQuote(t *testing.T) {
	extractor := quote.Extractor{DefaultCurrency: "EUR"}

	series := quote.BarSeries{
		Symbol:   "AIR",
		Currency: "USD",
		Bars: []quote.Bar{
			bar(day(2024, time.January, 2), "100.111", "101", "99", 1000),
			bar(day(2024, time.January, 3), "102.999", "103", "100", 2000),
		},
	}

	q := extractor.LatestQuote(series)

	require.Equal(t, quote.OutcomeSuccess, q.Outcome)
	assert.Equal(t, "AIR", q.Symbol)
	assert.Equal(t, "2024-01-03", q.Date)
	assert.Equal(t, "102.999", q.Close.String())
	assert.Equal(t, "103", q.High.String())
	assert.Equal(t, "100", q.Low.String())
	assert.Equal(t, int64(2000), q.Volume)
	assert.Equal(t, "USD", q.Currency)
	require.True(t, q.ChangePercent.Valid)
	assert.Equal(t, "2.88", q.ChangePercent.Decimal.String())
}

func TestLatestQuoteEmptySeries(t *testing.T) {
	extractor := quote.Extractor{DefaultCurrency: "EUR"}

	q := extractor.LatestQuote(quote.BarSeries{Symbol: "AIR"})

	assert.Equal(t, quote.OutcomeNoData, q.Outcome)
	assert.Equal(t, "no data returned", q.Message)
}

func TestLatestQuoteAllClosesMissing(t *testing.T) {
	extractor := quote.Extractor{DefaultCurrency: "EUR"}

	series := quote.BarSeries{
		Symbol: "AIR",
		Bars: []quote.Bar{
			barNoClose(day(2024, time.January, 2)),
			barNoClose(day(2024, time.January, 3)),
		},
	}

	q := extractor.LatestQuote(series)
	assert.Equal(t, quote.OutcomeNoData, q.Outcome)
}

func TestLatestQuoteSingleBarOmitsChange(t *testing.T) {
	extractor := quote.Extractor{DefaultCurrency: "EUR"}

	series := quote.BarSeries{
		Symbol: "AIR",
		Bars:   []quote.Bar{bar(day(2024, time.January, 3), "50", "51", "49", 10)},
	}

	q := extractor.LatestQuote(series)
	require.Equal(t, quote.OutcomeSuccess, q.Outcome)
	assert.False(t, q.ChangePercent.Valid)
}

func TestLatestQuoteTwoBarChange(t *testing.T) {
	extractor := quote.Extractor{DefaultCurrency: "EUR"}

	series := quote.BarSeries{
		Symbol: "AIR",
		Bars: []quote.Bar{
			bar(day(2024, time.January, 2), "100", "101", "99", 1),
			bar(day(2024, time.January, 3), "110", "111", "109", 1),
		},
	}

	q := extractor.LatestQuote(series)
	require.True(t, q.ChangePercent.Valid)
	assert.Equal(t, "10", q.ChangePercent.Decimal.String())
}

func TestLatestQuoteZeroPreviousClose(t *testing.T) {
	extractor := quote.Extractor{DefaultCurrency: "EUR"}

	series := quote.BarSeries{
		Symbol: "AIR",
		Bars: []quote.Bar{
			bar(day(2024, time.January, 2), "0", "0", "0", 0),
			bar(day(2024, time.January, 3), "5", "6", "4", 1),
		},
	}

	q := extractor.LatestQuote(series)
	require.Equal(t, quote.OutcomeSuccess, q.Outcome)
	require.True(t, q.ChangePercent.Valid)
	assert.True(t, q.ChangePercent.Decimal.IsZero())
}

func TestLatestQuoteSkipsBarsWithoutClose(t *testing.T) {
	extractor := quote.Extractor{DefaultCurrency: "EUR"}

	// The hole on Jan 3 must not count as latest nor as the previous bar.
	series := quote.BarSeries{
		Symbol: "AIR",
		Bars: []quote.Bar{
			bar(day(2024, time.January, 1), "90", "91", "89", 1),
			bar(day(2024, time.January, 2), "100", "101", "99", 1),
			barNoClose(day(2024, time.January, 3)),
			bar(day(2024, time.January, 4), "105", "106", "104", 1),
		},
	}

	q := extractor.LatestQuote(series)
	require.Equal(t, quote.OutcomeSuccess, q.Outcome)
	assert.Equal(t, "2024-01-04", q.Date)
	require.True(t, q.ChangePercent.Valid)
	assert.Equal(t, "5", q.ChangePercent.Decimal.String())
}

func TestLatestQuoteDefaultCurrency(t *testing.T) {
	extractor := quote.Extractor{DefaultCurrency: "EUR"}

	series := quote.BarSeries{
		Symbol: "AIR",
		Bars:   []quote.Bar{bar(day(2024, time.January, 3), "50", "51", "49", 10)},
	}

	q := extractor.LatestQuote(series)
	assert.Equal(t, "EUR", q.Currency)
}

func TestRoundingIdempotent(t *testing.T) {
	extractor := quote.Extractor{DefaultCurrency: "EUR"}

	series := quote.BarSeries{
		Symbol: "AIR",
		Bars:   []quote.Bar{bar(day(2024, time.January, 3), "102.9985", "103.0001", "99.9995", 10)},
	}

	first := extractor.LatestQuote(series)
	again := extractor.LatestQuote(quote.BarSeries{
		Symbol: "AIR",
		Bars: []quote.Bar{{
			Date:   day(2024, time.January, 3),
			Close:  decimal.NullDecimal{Decimal: first.Close, Valid: true},
			High:   first.High,
			Low:    first.Low,
			Volume: first.Volume,
		}},
	})

	assert.True(t, first.Close.Equal(again.Close))
	assert.True(t, first.High.Equal(again.High))
	assert.True(t, first.Low.Equal(again.Low))
}

func TestHistoryPreservesOrderAndCount(t *testing.T) {
	extractor := quote.Extractor{DefaultCurrency: "EUR"}

	series := quote.BarSeries{
		Symbol: "AIR",
		Bars: []quote.Bar{
			bar(day(2024, time.January, 2), "100.1114", "101", "99", 1000),
			barNoClose(day(2024, time.January, 3)),
			bar(day(2024, time.January, 4), "102.9996", "103", "100", 2000),
		},
	}

	rows := extractor.History(series)

	require.Len(t, rows, 2)
	assert.Equal(t, "2024-01-02", rows[0].Date)
	assert.Equal(t, "100.111", rows[0].Close.String())
	assert.Equal(t, "2024-01-04", rows[1].Date)
	assert.Equal(t, "103", rows[1].Close.String())
}

func TestHistoryEmptySeries(t *testing.T) {
	extractor := quote.Extractor{DefaultCurrency: "EUR"}
	assert.Empty(t, extractor.History(quote.BarSeries{Symbol: "AIR"}))
}
