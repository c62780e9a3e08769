// Package sales derives revenue series and order analytics from an
// already-fetched order list. Everything here is a pure function over
// domain.Order values and is recomputed on every request.
package sales

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"zenith-store/internal/domain"

	"github.com/shopspring/decimal"
)

// Bucketing selects the width of a revenue bucket
type Bucketing string

const (
	BucketDay   Bucketing = "day"
	BucketMonth Bucketing = "month"
	BucketYear  Bucketing = "year"
)

var ErrInvalidBucketing = errors.New("invalid bucketing")

// ParseBucketing maps a query value to a Bucketing; empty means day
func ParseBucketing(s string) (Bucketing, error) {
	switch Bucketing(s) {
	case "":
		return BucketDay, nil
	case BucketDay, BucketMonth, BucketYear:
		return Bucketing(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBucketing, s)
}

// Key returns the bucket key of t: YYYY-MM-DD, YYYY-MM or YYYY
func (b Bucketing) Key(t time.Time) string {
	day := t.UTC().Format("2006-01-02")
	switch b {
	case BucketMonth:
		return day[:7]
	case BucketYear:
		return day[:4]
	default:
		return day
	}
}

// Series is a revenue series with labels in ascending order
type Series struct {
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
}

// Aggregate sums order totals per bucket key
func Aggregate(orders []domain.Order, bucketing Bucketing) Series {
	sums := make(map[string]decimal.Decimal)
	for _, o := range orders {
		key := bucketing.Key(o.Date)
		sums[key] = sums[key].Add(o.Total)
	}

	labels := make([]string, 0, len(sums))
	for key := range sums {
		labels = append(labels, key)
	}
	sort.Strings(labels)

	values := make([]decimal.Decimal, len(labels))
	for i, key := range labels {
		values[i] = sums[key]
	}

	return Series{Labels: labels, Values: values}
}

// Analytics are the headline figures of the sales view
type Analytics struct {
	TotalRevenue         decimal.Decimal `json:"totalRevenue"`
	OrderCount           int             `json:"orderCount"`
	TotalItemsSold       int             `json:"totalItemsSold"`
	AverageOrderValue    decimal.Decimal `json:"averageOrderValue"`
	BestSellingProductID *int64          `json:"bestSellingProductId"`
}

// BestSellingLabel renders the best seller id, or N/A when nothing sold
func (a Analytics) BestSellingLabel() string {
	if a.BestSellingProductID == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *a.BestSellingProductID)
}

// ComputeAnalytics reduces orders into revenue, counts and the best seller.
// Ties for best seller go to the product encountered first.
func ComputeAnalytics(orders []domain.Order) Analytics {
	var a Analytics
	a.OrderCount = len(orders)

	quantities := make(map[int64]int)
	var seen []int64

	for _, o := range orders {
		a.TotalRevenue = a.TotalRevenue.Add(o.Total)
		for _, item := range o.Items {
			a.TotalItemsSold += item.Quantity
			if _, ok := quantities[item.ProductID]; !ok {
				seen = append(seen, item.ProductID)
			}
			quantities[item.ProductID] += item.Quantity
		}
	}

	if a.OrderCount > 0 {
		a.AverageOrderValue = a.TotalRevenue.Div(decimal.NewFromInt(int64(a.OrderCount)))
	}

	best := -1
	for _, id := range seen {
		if q := quantities[id]; q > best {
			best = q
			productID := id
			a.BestSellingProductID = &productID
		}
	}

	return a
}
