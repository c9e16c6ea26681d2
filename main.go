package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	newLogger "github.com/imelnik/stock_quotes/internal/common/log"
	"github.com/imelnik/stock_quotes/internal/config"
	"github.com/imelnik/stock_quotes/internal/integration/polygon"
	"github.com/imelnik/stock_quotes/internal/integration/yahoo"
	"github.com/imelnik/stock_quotes/internal/middleware"
	"github.com/imelnik/stock_quotes/internal/provider"
	"github.com/imelnik/stock_quotes/internal/quote"
	"github.com/imelnik/stock_quotes/internal/server"
	"go.uber.org/zap"
)

const ConfigPath = "./configs/app.yaml"

func main() {

	config := config.LoadConfig(ConfigPath)

	logger, err := newLogger.NewLogger()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %s", err)
	}
	defer logger.Sync()

	webApp := middleware.New(logger)

	var marketData provider.MarketData
	switch config.MarketData.Provider {
	case "polygon":
		marketData = polygon.NewClient(logger, config)
	default:
		marketData = yahoo.NewClient(logger, config)
	}

	extractor := quote.Extractor{DefaultCurrency: config.MarketData.DefaultCurrency}

	server := server.NewServer(marketData, extractor, config.MarketData.WindowDays, logger)
	server.InitRoutes(webApp)

	port := os.Getenv("PORT")
	if port == "" {
		port = config.HTTPServer.Port
	}
	go func() {
		logger.Sugar().Infof("http server is starting on port %s", port)
		if err := webApp.Listen(":" + port); err != nil {
			logger.Sugar().Fatalf("failed to listen: %s", err.Error())
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	<-signalChan

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := webApp.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Sugar().Errorf("Failed to shutdown server: %v", zap.Error(err))
	} else {
		logger.Info("http server is shut down")
	}
}
