package kafka

import (
	"net"
	"strconv"

	"market-data-backend/internal/config"

	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EnsureTopic creates the outbound trade topic if the broker does not
// have it yet.
func EnsureTopic(cfg config.KafkaConfig, logger *zap.Logger) error {
	conn, err := kafkaGo.Dial("tcp", cfg.BrokerURL)
	if err != nil {
		logger.Error("failed to dial Kafka for topic creation", zap.Error(err))
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		logger.Error("failed to get Kafka controller", zap.Error(err))
		return err
	}

	controllerConn, err := kafkaGo.Dial("tcp",
		net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		logger.Error("failed to connect to Kafka controller", zap.Error(err))
		return err
	}
	defer controllerConn.Close()

	topicConfig := kafkaGo.TopicConfig{
		Topic:             cfg.Topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}

	if err := controllerConn.CreateTopics(topicConfig); err != nil {
		logger.Error("failed to create Kafka topic", zap.Error(err))
		return err
	}

	logger.Info("Kafka topic is ready", zap.String("topic", cfg.Topic))
	return nil
}
