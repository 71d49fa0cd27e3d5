package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"shopcart/internal/domain"
)

const eventType = "OrderCompleted"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes OrderCompleted events keyed by shop so one shop's orders
// stay on one partition.
type Publisher struct {
	w      messageWriter
	logger *zap.Logger
}

func NewPublisher(brokers []string, topic string, logger *zap.Logger) *Publisher {
	return newPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}, logger)
}

func newPublisher(w messageWriter, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{w: w, logger: logger}
}

func (p *Publisher) PublishOrderCompleted(ctx context.Context, evt domain.OrderCompleted) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.ShopKey),
		Value: value,
		Time:  evt.CompletedAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
			{Key: "order-number", Value: []byte(evt.OrderNumber)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("publish order event", zap.String("order_number", evt.OrderNumber), zap.Error(err))
		return fmt.Errorf("publish order event: %w", err)
	}
	p.logger.Info("order event published", zap.String("order_number", evt.OrderNumber), zap.String("shop_key", evt.ShopKey))
	return nil
}

func (p *Publisher) Close() error {
	return p.w.Close()
}

// Noop discards events. It backs deployments without KAFKA_BROKERS.
type Noop struct{}

func (Noop) PublishOrderCompleted(context.Context, domain.OrderCompleted) error { return nil }

func (Noop) Close() error { return nil }
