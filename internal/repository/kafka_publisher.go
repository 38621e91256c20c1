package repository

import (
	"context"

	pkgkafka "StockSage/pkg/kafka"
)

// KafkaPublisher implements EventPublisher over a Kafka producer.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
}

func NewKafkaPublisher(producer *pkgkafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, key []byte, value interface{}) error {
	return p.producer.Publish(ctx, topic, key, value)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
