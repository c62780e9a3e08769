package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// Valid reports whether s is one of the known order statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderID is numeric in storage and a string on the wire.
type OrderID int64

// String is the one place an order id becomes client-facing text.
func (id OrderID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// MarshalJSON implements json.Marshaler
func (id OrderID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON accepts both "42" and 42
func (id *OrderID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n int64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid order id: %s", data)
		}
		*id = OrderID(n)
		return nil
	}
	parsed, err := ParseOrderID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseOrderID converts a path or body value into an OrderID
func ParseOrderID(s string) (OrderID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid order id %q", s)
	}
	return OrderID(n), nil
}

// ShippingAddress is stored as JSONB on the order header
type ShippingAddress struct {
	FullName string `json:"fullName" validate:"required"`
	Street   string `json:"street" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state"`
	Zip      string `json:"zip" validate:"required"`
	Country  string `json:"country" validate:"required"`
}

// Value implements driver.Valuer
func (a ShippingAddress) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *ShippingAddress) Scan(src interface{}) error {
	return scanJSON(src, a)
}

// SelectedVariant maps a variant name to the chosen option
type SelectedVariant map[string]string

// Value implements driver.Valuer; an empty selection is stored as NULL
func (v SelectedVariant) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	return json.Marshal(map[string]string(v))
}

// Scan implements sql.Scanner
func (v *SelectedVariant) Scan(src interface{}) error {
	return scanJSON(src, v)
}

// OrderItem is one line of an order. Price is the unit price captured when
// the order was placed; Name, Images and Category are read from the live
// product when the order is loaded back.
type OrderItem struct {
	ProductID       int64           `json:"id"`
	Name            string          `json:"name,omitempty"`
	Images          []string        `json:"images,omitempty"`
	Category        string          `json:"category,omitempty"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	SelectedVariant SelectedVariant `json:"selectedVariant,omitempty"`
}

// Order is the full purchase aggregate
type Order struct {
	ID              OrderID         `json:"id"`
	UserID          int64           `json:"-"`
	Date            time.Time       `json:"date"`
	Items           []OrderItem     `json:"items"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
}

// ItemCount sums the quantities of all line items
func (o Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// OrderSummary is the header-only view used by administration
type OrderSummary struct {
	ID           OrderID         `json:"id"`
	CustomerName string          `json:"customerName"`
	Date         time.Time       `json:"date"`
	Total        decimal.Decimal `json:"total"`
	Status       OrderStatus     `json:"status"`
}

// AdminStats are the dashboard counters computed from storage aggregates
type AdminStats struct {
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalOrders   int             `json:"totalOrders"`
	TotalProducts int             `json:"totalProducts"`
	TotalUsers    int             `json:"totalUsers"`
}
