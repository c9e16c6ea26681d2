package server

import (
	"go.uber.org/zap"

	"github.com/imelnik/stock_quotes/internal/provider"
	"github.com/imelnik/stock_quotes/internal/quote"
)

type Server struct {
	marketData provider.MarketData
	extractor  quote.Extractor
	windowDays int
	log        *zap.Logger
}

func NewServer(marketData provider.MarketData,
	extractor quote.Extractor, windowDays int, logger *zap.Logger) *Server {
	return &Server{
		marketData: marketData,
		extractor:  extractor,
		windowDays: windowDays,
		log:        logger,
	}
}
