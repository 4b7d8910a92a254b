package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market-data-backend/internal/api"
	"market-data-backend/internal/api/gateway"
	"market-data-backend/internal/api/handler"
	"market-data-backend/internal/api/usecase"
	"market-data-backend/internal/binance"
	"market-data-backend/internal/bus"
	"market-data-backend/internal/chart"
	"market-data-backend/internal/config"
	"market-data-backend/internal/history"
	"market-data-backend/internal/ingest"
	"market-data-backend/internal/kafka"
	"market-data-backend/internal/logging"
	"market-data-backend/internal/stream"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env feeds the endpoint overrides picked up by LoadConfig.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := config.LoadConfig("config/config.yml")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Core wiring: client -> ingestor/relay -> bus -> aggregator/gateway.
	b := bus.New()
	client := binance.NewClient(cfg.Binance.APIURL, logger)
	ingestor := ingest.NewIngestor(cfg.Binance.Symbol, b, client, logger)
	relay := ingest.NewRelay(b, logger)
	chart.NewAggregator(b, logger)
	fetcher := history.NewFetcher(client, logger)
	gw := gateway.New(b, logger)

	if cfg.Kafka.BrokerURL != "" {
		if err := kafka.EnsureTopic(cfg.Kafka, logger); err != nil {
			logger.Warn("could not ensure Kafka topic, trade feed may fail", zap.Error(err))
		}
		publisher := kafka.NewPublisher(cfg.Kafka, logger)
		publisher.Bridge(b)
		defer publisher.Close()
	}

	// Warm downstream state before the streams deliver anything.
	seedCtx, cancelSeed := context.WithTimeout(ctx, 10*time.Second)
	ingestor.Seed(seedCtx)
	cancelSeed()

	primary := stream.NewConnection(stream.Config{
		Name:        "aggTrade",
		URL:         cfg.Binance.WSURL,
		FallbackURL: cfg.Binance.WSFallbackURL,
	}, ingestor.HandleMessage, logger)
	secondary := stream.NewConnection(stream.Config{
		Name: "trade",
		URL:  cfg.Binance.WSTradeURL,
	}, relay.HandleMessage, logger)

	primary.Connect()
	secondary.Connect()
	defer primary.Close()
	defer secondary.Close()

	uc := usecase.NewUsecase(fetcher, ingestor)
	hd := handler.NewHandler(uc, cfg.Binance.Symbol)
	router := api.NewRouter(hd, gw, cfg.Server.RequestTimeout)

	srv := &http.Server{Addr: cfg.Server.Port, Handler: router}
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
}
