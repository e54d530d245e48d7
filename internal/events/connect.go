package events

import (
	"fmt"
	"log"

	"gofun/internal/config"

	"github.com/nats-io/nats.go"
	"github.com/segmentio/kafka-go"
)

func NewNATSConnection(cfg *config.Config) (*nats.Conn, error) {
	nc, err := nats.Connect(cfg.NATS.URL, nats.Name(cfg.Tracing.ServiceName))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Printf("✅ Connected to NATS at %s", cfg.NATS.URL)
	return nc, nil
}

func NewKafkaWriter(cfg *config.Config) (*kafka.Writer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("kafka enabled but KAFKA_BROKERS is empty")
	}
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Kafka.Brokers...),
		Topic:    cfg.Kafka.Topic,
		Balancer: &kafka.Hash{},
	}
	log.Printf("✅ Kafka writer ready for topic %s", cfg.Kafka.Topic)
	return writer, nil
}
