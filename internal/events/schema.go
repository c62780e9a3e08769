package events

import (
	"time"

	"github.com/hamba/avro/v2"
)

// OrderPlacedSchema is the avro schema of the order.placed topic
var OrderPlacedSchema = avro.MustParse(`{
	"type": "record",
	"name": "OrderPlacedV1",
	"namespace": "zenith.orders",
	"fields": [
		{"name": "event_id", "type": "string"},
		{"name": "order_id", "type": "long"},
		{"name": "user_id", "type": "long"},
		{"name": "total", "type": "string"},
		{"name": "item_count", "type": "int"},
		{"name": "status", "type": "string"},
		{"name": "placed_at", "type": {"type": "long", "logicalType": "timestamp-millis"}},
		{"name": "items", "type": {"type": "array", "items": {
			"type": "record",
			"name": "OrderPlacedItemV1",
			"fields": [
				{"name": "product_id", "type": "long"},
				{"name": "quantity", "type": "int"},
				{"name": "price", "type": "string"}
			]
		}}}
	]
}`)

// OrderPlacedV1 is the avro payload published after an order commits.
// Money travels as decimal strings so no precision is lost.
type OrderPlacedV1 struct {
	EventID   string              `avro:"event_id"`
	OrderID   int64               `avro:"order_id"`
	UserID    int64               `avro:"user_id"`
	Total     string              `avro:"total"`
	ItemCount int                 `avro:"item_count"`
	Status    string              `avro:"status"`
	PlacedAt  time.Time           `avro:"placed_at"`
	Items     []OrderPlacedItemV1 `avro:"items"`
}

type OrderPlacedItemV1 struct {
	ProductID int64  `avro:"product_id"`
	Quantity  int    `avro:"quantity"`
	Price     string `avro:"price"`
}

// Encode marshals v with OrderPlacedSchema
func Encode(v OrderPlacedV1) ([]byte, error) {
	return avro.Marshal(OrderPlacedSchema, v)
}

// Decode unmarshals an OrderPlacedV1 payload
func Decode(data []byte) (OrderPlacedV1, error) {
	var v OrderPlacedV1
	err := avro.Unmarshal(OrderPlacedSchema, data, &v)
	return v, err
}
