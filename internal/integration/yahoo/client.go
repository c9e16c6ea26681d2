package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/imelnik/stock_quotes/internal/common/log"
	"github.com/imelnik/stock_quotes/internal/config"
	"github.com/imelnik/stock_quotes/internal/provider"
	"github.com/imelnik/stock_quotes/internal/quote"
)

const chartPath = "/v8/finance/chart/{symbol}"

type Client struct {
	*resty.Client
	logger           *zap.Logger
	batchConcurrency int
}

func NewClient(logger *zap.Logger, conf *config.Config) *Client {
	c := resty.New()
	c.SetTransport(&log.LoggingRoundTripper{
		Proxied: http.DefaultTransport,
		Logger:  logger,
	})
	c.SetCloseConnection(true)
	c.SetTimeout(30 * time.Second)
	c.SetHeader("Accept", "application/json")
	// Yahoo rejects the default Go user agent.
	c.SetHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) stock_quotes/1.0")

	url := os.Getenv("YAHOO_URL")
	if url == "" {
		url = conf.Yahoo.URL
	}
	c.SetBaseURL(url)

	return &Client{c, logger, conf.MarketData.BatchConcurrency}
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Currency string `json:"currency"`
		Symbol   string `json:"symbol"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

// Null entries mark days without a usable observation.
type chartQuote struct {
	Low    []*float64 `json:"low"`
	High   []*float64 `json:"high"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

func (c *Client) FetchLatest(ctx context.Context, symbol string, windowDays int) (quote.BarSeries, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -windowDays)
	return c.fetchChart(ctx, symbol, start, end)
}

func (c *Client) FetchRange(ctx context.Context, symbol string, start, end time.Time) (quote.BarSeries, error) {
	series, err := c.fetchChart(ctx, symbol, start, end)
	if err != nil {
		return quote.BarSeries{}, err
	}

	// The chart endpoint can include the boundary day, the contract is
	// end exclusive.
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

func (c *Client) fetchChart(ctx context.Context, symbol string, start, end time.Time) (quote.BarSeries, error) {
	resp, err := c.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"period1":  strconv.FormatInt(start.Unix(), 10),
			"period2":  strconv.FormatInt(end.Unix(), 10),
			"interval": "1d",
		}).
		Get(chartPath)
	if err != nil {
		c.logger.Error("Failed to fetch chart", zap.String("symbol", symbol), zap.Error(err))
		return quote.BarSeries{}, fmt.Errorf("yahoo: fetch chart for %s: %w", symbol, err)
	}

	var response chartResponse
	if err := json.Unmarshal(resp.Body(), &response); err != nil {
		if resp.StatusCode() != http.StatusOK {
			return quote.BarSeries{}, fmt.Errorf("yahoo: chart request for %s failed with status %d", symbol, resp.StatusCode())
		}
		c.logger.Error("Failed to unmarshal response", zap.Error(err))
		return quote.BarSeries{}, fmt.Errorf("yahoo: decode chart for %s: %w", symbol, err)
	}

	if apiErr := response.Chart.Error; apiErr != nil {
		return quote.BarSeries{}, fmt.Errorf("yahoo: %s: %s", apiErr.Code, apiErr.Description)
	}
	if resp.StatusCode() != http.StatusOK {
		return quote.BarSeries{}, fmt.Errorf("yahoo: chart request for %s failed with status %d", symbol, resp.StatusCode())
	}
	if len(response.Chart.Result) == 0 {
		return quote.BarSeries{Symbol: symbol}, nil
	}

	return toSeries(symbol, response.Chart.Result[0]), nil
}

func toSeries(symbol string, result chartResult) quote.BarSeries {
	series := quote.BarSeries{
		Symbol:   symbol,
		Currency: result.Meta.Currency,
	}
	if len(result.Indicators.Quote) == 0 {
		return series
	}

	q := result.Indicators.Quote[0]
	for i, ts := range result.Timestamp {
		day := time.Unix(ts, 0).UTC()
		bar := quote.Bar{
			Date: time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
		}
		if v := at(q.Close, i); v != nil {
			bar.Close = decimal.NullDecimal{Decimal: decimal.NewFromFloat(*v), Valid: true}
		}
		if v := at(q.High, i); v != nil {
			bar.High = decimal.NewFromFloat(*v)
		}
		if v := at(q.Low, i); v != nil {
			bar.Low = decimal.NewFromFloat(*v)
		}
		if v := at(q.Volume, i); v != nil {
			bar.Volume = *v
		}
		series.Bars = append(series.Bars, bar)
	}
	return series
}

func at[T any](values []*T, i int) *T {
	if i >= len(values) {
		return nil
	}
	return values[i]
}
