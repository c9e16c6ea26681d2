package quote

import (
	"time"

	"github.com/shopspring/decimal"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeNoData  Outcome = "no_data"
	OutcomeError   Outcome = "error"
)

const (
	priceScale  = 3
	changeScale = 2

	dateLayout = "2006-01-02"
)

// Bar is one trading day for one instrument. Close is nullable because
// providers return holes in the close series for halted or illiquid days.
type Bar struct {
	Date   time.Time
	Close  decimal.NullDecimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Volume int64
}

// BarSeries holds daily bars for a single instrument, ascending by date.
type BarSeries struct {
	Symbol   string
	Currency string
	Bars     []Bar
}

// Quote is the user-facing record for one instrument. ChangePercent is
// invalid when the series holds a single usable bar: absence means
// "no prior bar", a value of 0 means "zero change".
type Quote struct {
	Symbol        string
	Date          string
	Close         decimal.Decimal
	High          decimal.Decimal
	Low           decimal.Decimal
	Volume        int64
	ChangePercent decimal.NullDecimal
	Currency      string
	Outcome       Outcome
	Message       string
}

type HistoryRow struct {
	Date   string
	Close  decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Volume int64
}

// Extractor derives quotes from already-fetched bar series. It never
// returns errors: every result carries an Outcome tag instead.
type Extractor struct {
	DefaultCurrency string
}

// LatestQuote picks the newest bar with a usable close, rounds its price
// fields to 3 decimal places and computes the day-over-day change against
// the preceding usable bar when one exists.
func (e Extractor) LatestQuote(series BarSeries) Quote {
	bars := withClose(series.Bars)
	if len(bars) == 0 {
		return Quote{
			Symbol:  series.Symbol,
			Outcome: OutcomeNoData,
			Message: "no data returned",
		}
	}

	last := bars[len(bars)-1]
	q := Quote{
		Symbol:   series.Symbol,
		Date:     last.Date.Format(dateLayout),
		Close:    last.Close.Decimal.Round(priceScale),
		High:     last.High.Round(priceScale),
		Low:      last.Low.Round(priceScale),
		Volume:   last.Volume,
		Currency: e.currency(series.Currency),
		Outcome:  OutcomeSuccess,
	}

	if len(bars) >= 2 {
		prev := bars[len(bars)-2]
		q.ChangePercent = decimal.NullDecimal{
			Decimal: changePercent(prev.Close.Decimal, last.Close.Decimal),
			Valid:   true,
		}
	}
	return q
}

// History renders every usable bar in ascending order with the same
// rounding rules as LatestQuote.
func (e Extractor) History(series BarSeries) []HistoryRow {
	bars := withClose(series.Bars)
	rows := make([]HistoryRow, 0, len(bars))
	for _, b := range bars {
		rows = append(rows, HistoryRow{
			Date:   b.Date.Format(dateLayout),
			Close:  b.Close.Decimal.Round(priceScale),
			High:   b.High.Round(priceScale),
			Low:    b.Low.Round(priceScale),
			Volume: b.Volume,
		})
	}
	return rows
}

func (e Extractor) currency(fromSeries string) string {
	if fromSeries != "" {
		return fromSeries
	}
	return e.DefaultCurrency
}

// A previous close of exactly zero reports zero change instead of failing.
func changePercent(prev, last decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		return decimal.Zero
	}
	return last.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(changeScale)
}

func withClose(bars []Bar) []Bar {
	out := make([]Bar, 0, len(bars))
	for _, b := range bars {
		if b.Close.Valid {
			out = append(out, b)
		}
	}
	return out
}
