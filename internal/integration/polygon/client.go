package polygon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/imelnik/stock_quotes/internal/common/log"
	"github.com/imelnik/stock_quotes/internal/config"
	"github.com/imelnik/stock_quotes/internal/provider"
	"github.com/imelnik/stock_quotes/internal/quote"
)

type Client struct {
	*polygon.Client
	logger           *zap.Logger
	batchConcurrency int
}

func NewClient(logger *zap.Logger, conf *config.Config) *Client {
	client := &http.Client{
		Transport: &log.LoggingRoundTripper{
			Proxied: http.DefaultTransport,
			Logger:  logger,
		},
	}
	c := polygon.NewWithClient(os.Getenv("POLYGON_TKN"), client)
	return &Client{c, logger, conf.MarketData.BatchConcurrency}
}

func (c *Client) FetchLatest(ctx context.Context, symbol string, windowDays int) (quote.BarSeries, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -windowDays)
	return c.fetchAggs(ctx, symbol, start, end)
}

func (c *Client) FetchRange(ctx context.Context, symbol string, start, end time.Time) (quote.BarSeries, error) {
	// Daily agg timestamps sit at the Eastern market-day start, not UTC
	// midnight, so the window must include end and get trimmed after the
	// dates are truncated. The contract is end exclusive.
	series, err := c.fetchAggs(ctx, symbol, start, end)
	if err != nil {
		return quote.BarSeries{}, err
	}

	bars := series.Bars[:0]
	for _, b := range series.Bars {
		if b.Date.Before(end) {
			bars = append(bars, b)
		}
	}
	series.Bars = bars
	return series, nil
}

func (c *Client) FetchBatch(ctx context.Context, symbols []string, windowDays int) map[string]quote.SeriesResult {
	return provider.FanOut(ctx, symbols, c.batchConcurrency,
		func(ctx context.Context, symbol string) (quote.BarSeries, error) {
			return c.FetchLatest(ctx, symbol, windowDays)
		})
}

func (c *Client) fetchAggs(ctx context.Context, symbol string, from, to time.Time) (quote.BarSeries, error) {
	params := models.GetAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(from),
		To:         models.Millis(to),
	}.WithOrder(models.Asc).WithAdjusted(true)

	resp, err := c.GetAggs(ctx, params)
	if err != nil {
		c.logger.Error("Failed to fetch aggs", zap.String("symbol", symbol), zap.Error(err))
		return quote.BarSeries{}, fmt.Errorf("polygon: fetch aggs for %s: %w", symbol, err)
	}

	series := quote.BarSeries{Symbol: symbol}
	for _, agg := range resp.Results {
		day := time.Time(agg.Timestamp).UTC()
		series.Bars = append(series.Bars, quote.Bar{
			Date:   time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Close:  decimal.NullDecimal{Decimal: decimal.NewFromFloat(agg.Close), Valid: true},
			High:   decimal.NewFromFloat(agg.High),
			Low:    decimal.NewFromFloat(agg.Low),
			Volume: int64(agg.Volume),
		})
	}
	return series, nil
}
