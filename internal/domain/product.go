package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices and totals travel as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductVariant is a selectable product dimension, e.g. Color -> [Red, Blue]
type ProductVariant struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// Variants is the JSONB-backed list of product variants
type Variants []ProductVariant

// Value implements driver.Valuer
func (v Variants) Value() (driver.Value, error) {
	if v == nil {
		v = Variants{}
	}
	return json.Marshal(v)
}

// Scan implements sql.Scanner
func (v *Variants) Scan(src interface{}) error {
	return scanJSON(src, v)
}

// Product represents a product in the catalog
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	CostPrice   decimal.Decimal `json:"costPrice"`
	Description string          `json:"description"`
	Stock       int             `json:"stock"`
	Images      []string        `json:"images"`
	Variants    Variants        `json:"variants"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ProductDetail is a product together with its visible reviews
type ProductDetail struct {
	Product
	Reviews []Review `json:"reviews"`
}

func scanJSON(src interface{}, dest interface{}) error {
	switch data := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(data, dest)
	case string:
		return json.Unmarshal([]byte(data), dest)
	default:
		return errors.New("unsupported JSON column type")
	}
}

// Category is a distinct product category with the number of products in it
type Category struct {
	Name         string `json:"name"`
	ProductCount int    `json:"productCount"`
}
