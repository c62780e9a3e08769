package sales

import (
	"fmt"
	"time"

	"zenith-store/internal/domain"
)

// Filter narrows the order set before aggregation. Zero fields match all
// orders; set fields compose with AND.
type Filter struct {
	Since     *time.Time
	ProductID *int64
	Category  string
}

// Apply returns the orders matching every set criterion, preserving order
func (f Filter) Apply(orders []domain.Order) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if f.matches(o) {
			out = append(out, o)
		}
	}
	return out
}

func (f Filter) matches(o domain.Order) bool {
	if f.Since != nil && o.Date.Before(*f.Since) {
		return false
	}
	if f.ProductID != nil && !anyItem(o, func(item domain.OrderItem) bool {
		return item.ProductID == *f.ProductID
	}) {
		return false
	}
	if f.Category != "" && !anyItem(o, func(item domain.OrderItem) bool {
		return item.Category == f.Category
	}) {
		return false
	}
	return true
}

func anyItem(o domain.Order, pred func(domain.OrderItem) bool) bool {
	for _, item := range o.Items {
		if pred(item) {
			return true
		}
	}
	return false
}

// SinceDays returns the cutoff n days before now
func SinceDays(now time.Time, n int) time.Time {
	return now.AddDate(0, 0, -n)
}

// ParseRange resolves "7d", "30d" or "all" into a cutoff. "all" and the
// empty string yield nil.
func ParseRange(now time.Time, s string) (*time.Time, error) {
	var days int
	switch s {
	case "", "all":
		return nil, nil
	case "7d":
		days = 7
	case "30d":
		days = 30
	default:
		return nil, fmt.Errorf("invalid range %q", s)
	}
	cutoff := SinceDays(now, days)
	return &cutoff, nil
}
