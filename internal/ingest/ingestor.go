package ingest

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"market-data-backend/internal/bus"
	"market-data-backend/internal/models"

	"go.uber.org/zap"
)

// seedQuantity is the synthetic quantity attached to the trade built from
// the one-shot REST snapshot at startup.
const seedQuantity = "0.1"

// PriceSource provides the one-shot latest-price lookup used to warm
// downstream state before any stream data arrives.
type PriceSource interface {
	TickerPrice(ctx context.Context, symbol string) (string, error)
}

// Ingestor parses raw aggTrade stream payloads into canonical trades,
// keeps the latest price and trade snapshots, and publishes each accepted
// trade on the priceUpdate topic. Malformed payloads are dropped and
// logged; the stream continues.
type Ingestor struct {
	symbol string
	bus    *bus.Bus
	prices PriceSource
	logger *zap.Logger

	mu          sync.RWMutex
	latestPrice string
	latestTrade *models.Trade
}

func NewIngestor(symbol string, b *bus.Bus, prices PriceSource, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		symbol: symbol,
		bus:    b,
		prices: prices,
		logger: logger.Named("ingestor"),
	}
}

// Seed fetches the latest known price over REST and runs it through the
// normal trade path with a default quantity, so subscribers have a value
// before the first stream message. Failure is logged and non-fatal.
func (ing *Ingestor) Seed(ctx context.Context) {
	ing.logger.Info("fetching initial price")
	price, err := ing.prices.TickerPrice(ctx, ing.symbol)
	if err != nil {
		ing.logger.Error("initial price fetch failed", zap.Error(err))
		return
	}

	msg := models.StreamTradeMessage{
		Price:     price,
		Quantity:  seedQuantity,
		TradeTime: time.Now().UnixMilli(),
	}
	ing.logger.Info("seeding initial price", zap.String("price", price))
	ing.handleTrade(msg)
}

// HandleMessage is the stream callback for the aggTrade feed.
func (ing *Ingestor) HandleMessage(data []byte) {
	var msg models.StreamTradeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		ing.logger.Error("dropping unparseable trade message", zap.Error(err))
		return
	}
	ing.handleTrade(msg)
}

func (ing *Ingestor) handleTrade(msg models.StreamTradeMessage) {
	trade, err := validateTrade(ing.symbol, msg)
	if err != nil {
		ing.logger.Error("dropping invalid trade", zap.Error(err),
			zap.String("price", msg.Price),
			zap.String("quantity", msg.Quantity),
			zap.Int64("T", msg.TradeTime))
		return
	}

	ing.mu.Lock()
	ing.latestPrice = trade.Price
	ing.latestTrade = &trade
	ing.mu.Unlock()

	ing.bus.Publish(bus.TopicPriceUpdate, trade)
}

// LatestPrice returns the most recent accepted price, if any.
func (ing *Ingestor) LatestPrice() (string, bool) {
	ing.mu.RLock()
	defer ing.mu.RUnlock()
	return ing.latestPrice, ing.latestPrice != ""
}

// LatestTrade returns the most recent accepted trade, if any.
func (ing *Ingestor) LatestTrade() (models.Trade, bool) {
	ing.mu.RLock()
	defer ing.mu.RUnlock()
	if ing.latestTrade == nil {
		return models.Trade{}, false
	}
	return *ing.latestTrade, true
}
