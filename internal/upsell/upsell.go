// Package upsell infers subscription-plan upgrade opportunities from cart
// lines and estimates the annual savings of switching to an annual plan.
//
// Because no live competing-plan price is available at detection time,
// savings are estimated from a fixed discount-rate table applied to the
// line's current per-delivery price. The numbers are a heuristic for
// messaging, not an authoritative quote.
package upsell

import (
	"sort"
	"strings"

	"github.com/cartsignal/cartsignal/internal/cart"
)

// Subscription delivery frequencies, ordered by commitment.
const (
	FreqMonthly   = "monthly"
	FreqBimonthly = "bimonthly"
	FreqQuarterly = "quarterly"
	FreqBiannual  = "biannual"
	FreqAnnual    = "annual"
	FreqUnknown   = "unknown"
)

// discountRates are the assumed savings of an annual plan over each
// shorter frequency.
var discountRates = map[string]float64{
	FreqMonthly:   0.18,
	FreqBimonthly: 0.15,
	FreqQuarterly: 0.12,
}

// Opportunity is a detected upgrade suggestion with estimated savings.
// SavingsMinor is always positive; opportunities that would not save
// money are suppressed at detection time.
type Opportunity struct {
	ProductTitle      string `json:"product_title"`
	CurrentFrequency  string `json:"current_frequency"`
	UpgradeFrequency  string `json:"upgrade_frequency"`
	SavingsMinor      int64  `json:"savings_minor"`
	SavingsPercent    int    `json:"savings_percent"`
	CurrentPriceMinor int64  `json:"current_price_minor"`
	UpgradePriceMinor int64  `json:"upgrade_price_minor"`
	Quantity          int    `json:"quantity"`
}

// Detect returns the upgrade opportunity for a line, or nil when the line
// has no subscription plan, is not an upgrade-eligible frequency, or would
// not save money.
func Detect(line cart.Line) *Opportunity {
	if line.Plan == nil {
		return nil
	}

	freq := ExtractFrequency(line.Plan)
	rate, eligible := discountRates[freq]
	if !eligible {
		return nil
	}

	price := line.UnitPrice.MinorUnits()
	if price <= 0 {
		return nil
	}

	qty := line.EffectiveQuantity()
	deliveries := DeliveriesPerYear(freq)

	annualCostNow := price * int64(deliveries) * int64(qty)
	estimatedAnnualCost := roundMinor(float64(annualCostNow) * (1 - rate))
	savings := annualCostNow - estimatedAnnualCost
	if savings <= 0 {
		return nil
	}

	title := line.Title
	if title == "" {
		title = line.Product.Title
	}

	return &Opportunity{
		ProductTitle:      title,
		CurrentFrequency:  freq,
		UpgradeFrequency:  FreqAnnual,
		SavingsMinor:      savings,
		SavingsPercent:    int((savings*100 + annualCostNow/2) / annualCostNow),
		CurrentPriceMinor: price,
		UpgradePriceMinor: roundMinor(float64(estimatedAnnualCost) / float64(qty)),
		Quantity:          qty,
	}
}

// DetectAll returns every opportunity in the cart, in line order.
func DetectAll(lines []cart.Line) []Opportunity {
	var out []Opportunity
	for _, line := range lines {
		if op := Detect(line); op != nil {
			out = append(out, *op)
		}
	}
	return out
}

// Best returns the single highest-savings opportunity, or nil when the
// cart has none. Ties keep the earliest line.
func Best(lines []cart.Line) *Opportunity {
	ops := DetectAll(lines)
	if len(ops) == 0 {
		return nil
	}
	sort.SliceStable(ops, func(i, j int) bool { return ops[i].SavingsMinor > ops[j].SavingsMinor })
	return &ops[0]
}

// ExtractFrequency infers the delivery frequency from a subscription
// plan's delivery policy, falling back to keyword matching on the plan
// name when interval fields are absent.
func ExtractFrequency(plan *cart.SubscriptionPlan) string {
	if plan == nil {
		return FreqUnknown
	}

	interval := strings.ToLower(plan.DeliveryPolicy.Interval)
	count := plan.DeliveryPolicy.IntervalCount
	if count == 0 {
		count = 1
	}

	if interval == "" {
		return frequencyFromName(plan.Name)
	}

	switch interval {
	case "month":
		switch count {
		case 1:
			return FreqMonthly
		case 2:
			return FreqBimonthly
		case 3:
			return FreqQuarterly
		case 6:
			return FreqBiannual
		case 12:
			return FreqAnnual
		}
	case "year":
		if count == 1 {
			return FreqAnnual
		}
	case "week":
		if count == 4 || count == 5 {
			return FreqMonthly
		}
	}
	return FreqUnknown
}

func frequencyFromName(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "annual"), strings.Contains(n, "yearly"):
		return FreqAnnual
	case strings.Contains(n, "biannual"), strings.Contains(n, "semi"):
		return FreqBiannual
	case strings.Contains(n, "quarter"):
		return FreqQuarterly
	case strings.Contains(n, "bimonth"), strings.Contains(n, "bi-month"):
		return FreqBimonthly
	case strings.Contains(n, "month"):
		return FreqMonthly
	}
	return FreqUnknown
}

// DeliveriesPerYear returns how many deliveries a frequency implies.
func DeliveriesPerYear(freq string) int {
	switch freq {
	case FreqMonthly:
		return 12
	case FreqBimonthly:
		return 6
	case FreqQuarterly:
		return 4
	case FreqBiannual:
		return 2
	case FreqAnnual:
		return 1
	}
	return 0
}

func roundMinor(f float64) int64 {
	if f >= 0 {
		return int64(f + 0.5)
	}
	return int64(f - 0.5)
}
