package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"

	"lodge/config"
	"lodge/infras/otel"
	"lodge/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	otelAttrTopic = "kafka.topic"
	otelAttrKey   = "kafka.key"
)

// Producer publishes JSON-encoded domain events. When Kafka is disabled in the
// configuration Publish is a logged no-op, so callers never need to branch.
type Producer interface {
	Publish(ctx context.Context, key string, value any) error
}

type producerImpl struct {
	writer *kafkaGo.Writer
	otel   otel.Otel
}

func NewProducer(cfg *config.Config, ot otel.Otel) Producer {
	if !cfg.External.Kafka.Enable {
		log.Warn().Msg("Kafka is disabled, events will not be published")

		return &producerImpl{otel: ot}
	}

	transport := &kafkaGo.Transport{}
	if cfg.External.Kafka.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: cfg.External.Kafka.Username,
			Password: cfg.External.Kafka.Password,
		}
	}

	writer := &kafkaGo.Writer{
		Addr:      kafkaGo.TCP(cfg.External.Kafka.Brokers...),
		Topic:     cfg.External.Kafka.Topic,
		Balancer:  &kafkaGo.Hash{},
		Transport: transport,
	}

	log.Info().
		Strs("brokers", cfg.External.Kafka.Brokers).
		Str("topic", cfg.External.Kafka.Topic).
		Msg("Kafka producer initialized")

	return &producerImpl{
		writer: writer,
		otel:   ot,
	}
}

func (p *producerImpl) Publish(ctx context.Context, key string, value any) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelAttrKey, key)

	if p.writer == nil {
		log.Debug().Str("key", key).Msg("Kafka disabled, dropping event")

		return nil
	}

	scope.SetAttribute(otelAttrTopic, p.writer.Topic)

	payload, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event payload")

		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkaGo.Message{
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to publish event")

		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
