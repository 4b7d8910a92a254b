package ingest

import (
	"encoding/json"
	"strconv"

	"market-data-backend/internal/bus"
	"market-data-backend/internal/models"

	"go.uber.org/zap"
)

// Relay consumes the secondary raw trade stream and forwards each
// validated tick as a pass-through sample on the tradeUpdate topic.
// No bucketing, no baseline.
type Relay struct {
	bus    *bus.Bus
	logger *zap.Logger
}

func NewRelay(b *bus.Bus, logger *zap.Logger) *Relay {
	return &Relay{bus: b, logger: logger.Named("relay")}
}

// HandleMessage is the stream callback for the raw trade feed.
func (r *Relay) HandleMessage(data []byte) {
	var msg models.StreamTradeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		r.logger.Error("dropping unparseable trade message", zap.Error(err))
		return
	}

	if msg.TradeTime <= 0 || msg.Price == "" {
		r.logger.Error("dropping trade with missing T or p",
			zap.Int64("T", msg.TradeTime), zap.String("p", msg.Price))
		return
	}

	price, err := strconv.ParseFloat(msg.Price, 64)
	if err != nil {
		r.logger.Error("dropping trade with non-numeric price",
			zap.String("p", msg.Price), zap.Error(err))
		return
	}

	r.bus.Publish(bus.TopicTradeUpdate, models.RelayPoint{
		Time:  msg.TradeTime / 1000,
		Value: price,
	})
}
