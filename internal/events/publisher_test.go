package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"zenith-store/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
	closed  bool
}

func (f *fakeProducer) ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	var results kgo.ProduceResults
	for _, r := range rs {
		f.records = append(f.records, r)
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

func (f *fakeProducer) Close() { f.closed = true }

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:     42,
		UserID: 7,
		Date:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Items: []domain.OrderItem{
			{ProductID: 5, Quantity: 2, Price: decimal.NewFromInt(10)},
		},
		Total:  decimal.NewFromInt(20),
		Status: domain.OrderStatusPending,
	}
}

func TestPublishOrderPlacedEncodesAvro(t *testing.T) {
	fp := &fakeProducer{}
	p := NewPublisher(fp, "orders.placed", zap.NewNop())

	require.NoError(t, p.PublishOrderPlaced(context.Background(), sampleOrder()))
	require.Len(t, fp.records, 1)

	rec := fp.records[0]
	assert.Equal(t, "orders.placed", rec.Topic)
	assert.Equal(t, "42", string(rec.Key))

	event, err := Decode(rec.Value)
	require.NoError(t, err)
	assert.Equal(t, int64(42), event.OrderID)
	assert.Equal(t, int64(7), event.UserID)
	assert.Equal(t, "20.00", event.Total)
	assert.Equal(t, 2, event.ItemCount)
	assert.Equal(t, "Pending", event.Status)
	assert.True(t, event.PlacedAt.Equal(sampleOrder().Date))
	require.Len(t, event.Items, 1)
	assert.Equal(t, OrderPlacedItemV1{ProductID: 5, Quantity: 2, Price: "10.00"}, event.Items[0])
	assert.NotEmpty(t, event.EventID)

	p.Close()
	assert.True(t, fp.closed)
}

func TestPublishOrderPlacedReturnsProduceError(t *testing.T) {
	fp := &fakeProducer{err: errors.New("broker down")}
	p := NewPublisher(fp, "orders.placed", zap.NewNop())

	err := p.PublishOrderPlaced(context.Background(), sampleOrder())
	assert.ErrorContains(t, err, "broker down")
}

func TestNopPublisher(t *testing.T) {
	p := NewNopPublisher()
	assert.NoError(t, p.PublishOrderPlaced(context.Background(), sampleOrder()))
	p.Close()
}
