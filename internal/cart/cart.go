// Package cart defines the read-only cart snapshot the engine receives from
// the host checkout on every recompute. The engine never mutates a snapshot.
package cart

import (
	"math"
	"strconv"
	"strings"
)

// Money is a decimal amount with an ISO 4217 currency code, as carried on
// the wire by the host checkout.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

// MinorUnits converts the decimal amount string to integer minor units
// (cents). Malformed or empty amounts yield 0; the engine treats bad money
// data as a zero-value line rather than an error.
func (m Money) MinorUnits() int64 {
	s := strings.TrimSpace(m.Amount)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(f * 100))
}

// Product is the product behind a cart line.
type Product struct {
	Title  string `json:"title"`
	Handle string `json:"handle"`
}

// PriceAdjustment describes a subscription plan pricing policy entry.
type PriceAdjustment struct {
	AdjustmentType  string  `json:"adjustment_type"` // "PERCENTAGE", "FIXED_AMOUNT", "PRICE"
	AdjustmentValue float64 `json:"adjustment_value"`
}

// DeliveryPolicy describes how often a subscription plan delivers.
type DeliveryPolicy struct {
	Interval      string `json:"interval"` // "month", "year", "week"
	IntervalCount int    `json:"interval_count"`
}

// SubscriptionPlan is the recurring-purchase descriptor attached to a line.
type SubscriptionPlan struct {
	Name             string            `json:"name"`
	DeliveryPolicy   DeliveryPolicy    `json:"delivery_policy"`
	PriceAdjustments []PriceAdjustment `json:"price_adjustments,omitempty"`
}

// Line is a single cart line item.
type Line struct {
	Title        string            `json:"title"`
	VariantTitle string            `json:"variant_title,omitempty"`
	Quantity     int               `json:"quantity"`
	UnitPrice    Money             `json:"unit_price"`
	Product      Product           `json:"product"`
	Attribute    string            `json:"attribute,omitempty"` // structured subscription attribute
	Plan         *SubscriptionPlan `json:"subscription_plan,omitempty"`
}

// EffectiveQuantity returns the line quantity, treating non-positive
// values as a single unit.
func (l Line) EffectiveQuantity() int {
	if l.Quantity <= 0 {
		return 1
	}
	return l.Quantity
}

// Snapshot is the full cart state for one recompute.
type Snapshot struct {
	Lines    []Line `json:"lines"`
	Subtotal Money  `json:"subtotal"`
	Locale   string `json:"locale,omitempty"`
}

// Currency returns the snapshot's currency code, defaulting to USD when
// the subtotal carries none.
func (s Snapshot) Currency() string {
	if s.Subtotal.CurrencyCode == "" {
		return "USD"
	}
	return strings.ToUpper(s.Subtotal.CurrencyCode)
}
