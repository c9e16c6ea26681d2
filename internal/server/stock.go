package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/imelnik/stock_quotes/internal/quote"
	"github.com/imelnik/stock_quotes/internal/utils"
)

const dateLayout = "2006-01-02"

type QuoteResponse struct {
	Ticker        string   `json:"ticker"`
	Date          string   `json:"date,omitempty"`
	Close         *float64 `json:"close,omitempty"`
	High          *float64 `json:"high,omitempty"`
	Low           *float64 `json:"low,omitempty"`
	Volume        *int64   `json:"volume,omitempty"`
	ChangePercent *float64 `json:"change_percent,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	Status        string   `json:"status"`
	Error         string   `json:"error,omitempty"`
}

type BatchResponse struct {
	Quotes map[string]QuoteResponse `json:"quotes"`
}

type HistoryRowResponse struct {
	Date   string  `json:"date"`
	Close  float64 `json:"close"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Volume int64   `json:"volume"`
}

type HistoryResponse struct {
	Ticker  string               `json:"ticker"`
	History []HistoryRowResponse `json:"history"`
	Status  string               `json:"status"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

func (s *Server) GetStockData(c *fiber.Ctx) error {
	ticker, err := s.requireTicker(c)
	if ticker == "" {
		return err
	}

	var series quote.BarSeries
	if dateStr := c.Query("date"); dateStr != "" {
		asOf, parseErr := time.Parse(dateLayout, dateStr)
		if parseErr != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(ErrorResponse{Error: "invalid date, expected YYYY-MM-DD", Status: string(quote.OutcomeError)})
		}
		// Window ends the day after asOf so the bar for asOf is included.
		series, err = s.marketData.FetchRange(c.Context(), ticker,
			asOf.AddDate(0, 0, -s.windowDays), asOf.AddDate(0, 0, 1))
	} else {
		series, err = s.marketData.FetchLatest(c.Context(), ticker, s.windowDays)
	}
	if err != nil {
		s.log.Error("Failed to fetch latest bars", zap.String("ticker", ticker), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse{Error: err.Error(), Status: string(quote.OutcomeError)})
	}

	q := s.extractor.LatestQuote(series)
	return c.Status(statusFor(q.Outcome)).JSON(toQuoteResponse(ticker, q))
}

func (s *Server) GetBatchData(c *fiber.Ctx) error {
	tickers := utils.RemoveDuplicates(utils.SplitTickers(c.Query("tickers")))
	if len(tickers) == 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(ErrorResponse{Error: "tickers is required", Status: string(quote.OutcomeError)})
	}
	for _, ticker := range tickers {
		if !utils.ValidateTicker(ticker) {
			s.log.Sugar().Warnf("Incorrect ticker sent: %s", ticker)
			return c.Status(fiber.StatusBadRequest).
				JSON(ErrorResponse{Error: fmt.Sprintf("incorrect ticker: %s", ticker), Status: string(quote.OutcomeError)})
		}
	}

	results := s.marketData.FetchBatch(c.Context(), tickers, s.windowDays)
	batch := s.extractor.Batch(results)

	resp := BatchResponse{Quotes: make(map[string]QuoteResponse, len(batch))}
	for symbol, q := range batch {
		resp.Quotes[symbol] = toQuoteResponse(symbol, q)
	}
	// Partial failure is not a transport failure, per-symbol tags carry it.
	return c.JSON(resp)
}

func (s *Server) GetStockHistory(c *fiber.Ctx) error {
	ticker, tickerErr := s.requireTicker(c)
	if ticker == "" {
		return tickerErr
	}

	start, err := time.Parse(dateLayout, c.Query("start"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(ErrorResponse{Error: "invalid start date, expected YYYY-MM-DD", Status: string(quote.OutcomeError)})
	}
	end, err := time.Parse(dateLayout, c.Query("end"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(ErrorResponse{Error: "invalid end date, expected YYYY-MM-DD", Status: string(quote.OutcomeError)})
	}
	if !end.After(start) {
		return c.Status(fiber.StatusBadRequest).
			JSON(ErrorResponse{Error: "end must be after start", Status: string(quote.OutcomeError)})
	}

	series, err := s.marketData.FetchRange(c.Context(), ticker, start, end)
	if err != nil {
		s.log.Error("Failed to fetch bar range", zap.String("ticker", ticker), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse{Error: err.Error(), Status: string(quote.OutcomeError)})
	}

	rows := s.extractor.History(series)
	if len(rows) == 0 {
		return c.Status(fiber.StatusNotFound).
			JSON(ErrorResponse{Error: "no data returned", Status: string(quote.OutcomeNoData)})
	}

	resp := HistoryResponse{
		Ticker:  ticker,
		History: make([]HistoryRowResponse, 0, len(rows)),
		Status:  string(quote.OutcomeSuccess),
	}
	for _, row := range rows {
		resp.History = append(resp.History, HistoryRowResponse{
			Date:   row.Date,
			Close:  row.Close.InexactFloat64(),
			High:   row.High.InexactFloat64(),
			Low:    row.Low.InexactFloat64(),
			Volume: row.Volume,
		})
	}
	return c.JSON(resp)
}

// requireTicker validates the ticker parameter, writing the 400 response
// itself. An empty ticker means the request is already answered and the
// handler must return the accompanying write result.
func (s *Server) requireTicker(c *fiber.Ctx) (string, error) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Query("ticker")))
	if ticker == "" {
		return "", c.Status(fiber.StatusBadRequest).
			JSON(ErrorResponse{Error: "ticker is required", Status: string(quote.OutcomeError)})
	}
	if !utils.ValidateTicker(ticker) {
		s.log.Sugar().Warnf("Incorrect ticker sent: %s", ticker)
		return "", c.Status(fiber.StatusBadRequest).
			JSON(ErrorResponse{Error: fmt.Sprintf("incorrect ticker: %s", ticker), Status: string(quote.OutcomeError)})
	}
	return ticker, nil
}

func statusFor(outcome quote.Outcome) int {
	switch outcome {
	case quote.OutcomeSuccess:
		return fiber.StatusOK
	case quote.OutcomeNoData:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func toQuoteResponse(ticker string, q quote.Quote) QuoteResponse {
	resp := QuoteResponse{
		Ticker: ticker,
		Status: string(q.Outcome),
		Error:  q.Message,
	}
	if q.Outcome != quote.OutcomeSuccess {
		return resp
	}

	close := q.Close.InexactFloat64()
	high := q.High.InexactFloat64()
	low := q.Low.InexactFloat64()
	volume := q.Volume

	resp.Date = q.Date
	resp.Close = &close
	resp.High = &high
	resp.Low = &low
	resp.Volume = &volume
	resp.Currency = q.Currency
	if q.ChangePercent.Valid {
		change := q.ChangePercent.Decimal.InexactFloat64()
		resp.ChangePercent = &change
	}
	return resp
}
