package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/KretovDmitry/order-management-service/internal/application/interfaces"
	"github.com/KretovDmitry/order-management-service/internal/config"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
	"github.com/KretovDmitry/order-management-service/pkg/logger"
	"github.com/segmentio/kafka-go"
)

const eventTypeHeader = "event-type"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderPublisher writes order events to a Kafka topic keyed by order id,
// so events of one order keep their order within a partition.
type OrderPublisher struct {
	writer messageWriter
	logger logger.Logger
}

func NewOrderPublisher(cfg *config.Config, logger logger.Logger) (*OrderPublisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Kafka.Brokers...),
		Topic:                  cfg.Kafka.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	return newOrderPublisher(w, logger), nil
}

func newOrderPublisher(w messageWriter, logger logger.Logger) *OrderPublisher {
	return &OrderPublisher{writer: w, logger: logger}
}

var _ interfaces.OrderEventPublisher = (*OrderPublisher)(nil)

func (p *OrderPublisher) Publish(ctx context.Context, e entities.OrderEvent) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", e.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(int64(e.OrderID), 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: eventTypeHeader, Value: []byte(e.Type)},
		},
	}

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event: %w", e.Type, err)
	}

	p.logger.With(ctx, "order_id", e.OrderID).Debugf("%s event published", e.Type)

	return nil
}

func (p *OrderPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events. It is used when no brokers are configured.
type NopPublisher struct{}

var _ interfaces.OrderEventPublisher = NopPublisher{}

func (NopPublisher) Publish(context.Context, entities.OrderEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
