package kafka

import (
	"context"
	"encoding/json"

	"market-data-backend/internal/bus"
	"market-data-backend/internal/config"
	"market-data-backend/internal/models"

	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher republishes accepted trades from the in-process bus onto a
// Kafka topic. Delivery is fire-and-forget: trades that cannot be queued
// or written are dropped and logged, and no ordering or exactly-once
// guarantee is made to external consumers.
type Publisher struct {
	writer *kafkaGo.Writer
	logger *zap.Logger
	trades chan models.Trade
	done   chan struct{}
}

func NewPublisher(cfg config.KafkaConfig, logger *zap.Logger) *Publisher {
	p := &Publisher{
		writer: &kafkaGo.Writer{
			Addr:     kafkaGo.TCP(cfg.BrokerURL),
			Topic:    cfg.Topic,
			Balancer: &kafkaGo.LeastBytes{},
		},
		logger: logger.Named("kafka"),
		trades: make(chan models.Trade, 256),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// Bridge subscribes the publisher to the priceUpdate topic. The bus
// delivers synchronously on the ingest path, so the handler only enqueues.
func (p *Publisher) Bridge(b *bus.Bus) {
	b.Subscribe(bus.TopicPriceUpdate, func(payload any) {
		trade, ok := payload.(models.Trade)
		if !ok {
			return
		}
		select {
		case p.trades <- trade:
		default:
			p.logger.Warn("trade feed buffer full, dropping trade")
		}
	})
}

func (p *Publisher) run() {
	for {
		select {
		case trade := <-p.trades:
			value, err := json.Marshal(trade)
			if err != nil {
				p.logger.Error("failed to marshal trade", zap.Error(err))
				continue
			}
			err = p.writer.WriteMessages(context.Background(), kafkaGo.Message{
				Key:   []byte(trade.Symbol),
				Value: value,
			})
			if err != nil {
				p.logger.Error("failed to publish trade", zap.Error(err))
			}
		case <-p.done:
			return
		}
	}
}

// Close stops the publish loop and closes the underlying writer.
func (p *Publisher) Close() error {
	close(p.done)
	return p.writer.Close()
}
