// Package events publishes domain events to Kafka.
package events

import (
	"context"
	"fmt"
	"time"

	"zenith-store/internal/domain"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// Publisher announces committed orders
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, order *domain.Order) error
	Close()
}

// ProducerClient is the subset of *kgo.Client used for producing
type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type kafkaPublisher struct {
	cl     ProducerClient
	topic  string
	logger *zap.Logger
}

// NewKafkaPublisher creates a franz-go client for the seed brokers
func NewKafkaPublisher(seedBrokers []string, topic string, logger *zap.Logger) (Publisher, error) {
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(seedBrokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProduceRequestTimeout(5*time.Second),
		kgo.RecordDeliveryTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	return NewPublisher(cl, topic, logger), nil
}

// NewPublisher wraps an existing producer client
func NewPublisher(cl ProducerClient, topic string, logger *zap.Logger) Publisher {
	return &kafkaPublisher{cl: cl, topic: topic, logger: logger}
}

func (p *kafkaPublisher) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	payload, err := Encode(ToOrderPlaced(order))
	if err != nil {
		return fmt.Errorf("failed to encode order placed event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(order.ID.String()),
		Value: payload,
	}
	if err := p.cl.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to publish order placed event: %w", err)
	}

	p.logger.Debug("Order placed event published",
		zap.String("order_id", order.ID.String()),
		zap.String("topic", p.topic),
	)
	return nil
}

func (p *kafkaPublisher) Close() {
	p.logger.Info("Closing kafka producer")
	p.cl.Close()
}

// ToOrderPlaced maps an order onto its event payload
func ToOrderPlaced(order *domain.Order) OrderPlacedV1 {
	items := make([]OrderPlacedItemV1, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderPlacedItemV1{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.StringFixed(2),
		}
	}

	return OrderPlacedV1{
		EventID:   uuid.NewString(),
		OrderID:   int64(order.ID),
		UserID:    order.UserID,
		Total:     order.Total.StringFixed(2),
		ItemCount: order.ItemCount(),
		Status:    string(order.Status),
		PlacedAt:  order.Date,
		Items:     items,
	}
}

type nopPublisher struct{}

// NewNopPublisher returns a Publisher that drops every event
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	return nil
}

func (nopPublisher) Close() {}
