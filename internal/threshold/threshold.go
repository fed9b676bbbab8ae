// Package threshold evaluates spend-threshold status for a cart subtotal.
// Rule lists are per-currency, sorted ascending by value, and immutable at
// runtime; the detector is a pure function over them.
package threshold

import (
	"sort"
	"strings"
)

// Rule is a single merchant-configured spend threshold.
type Rule struct {
	// Value is the threshold in currency minor units (cents).
	Value int64 `json:"value" yaml:"value"`
	// Message is the template shown while the threshold is unmet.
	// Supported placeholders: {amount}, {threshold}, {percentage}, {discount}.
	Message string `json:"message" yaml:"message"`
	// MetMessage is shown once the threshold is reached.
	MetMessage string `json:"met_message" yaml:"met_message"`
	// ProgressText is an optional progress line for unmet thresholds.
	ProgressText string `json:"progress_text,omitempty" yaml:"progress_text,omitempty"`
	// Tone is the banner tone: info, success, warning, or critical.
	Tone string `json:"tone" yaml:"tone"`
	// Priority orders banners; lower values are shown first.
	Priority int `json:"priority" yaml:"priority"`
	// HideWhenMet suppresses the rule from the active set once met.
	HideWhenMet bool `json:"hide_when_met,omitempty" yaml:"hide_when_met,omitempty"`
	// Discount is an optional percentage for {discount} interpolation.
	Discount int `json:"discount,omitempty" yaml:"discount,omitempty"`
	// Inactive rules are skipped entirely.
	Active *bool `json:"active,omitempty" yaml:"active,omitempty"`
}

// IsActive reports whether the rule participates in evaluation.
// Rules default to active when the flag is omitted.
func (r Rule) IsActive() bool {
	return r.Active == nil || *r.Active
}

// Status is the derived threshold state for one cart value.
type Status struct {
	Next      *Rule
	Met       []Rule
	CartValue int64
	Currency  string
}

// Active is one threshold selected for display.
type Active struct {
	Rule      Rule
	Remaining int64
	Met       bool
	Progress  int
}

// Detector evaluates thresholds against per-currency rule tables.
type Detector struct {
	tables   map[string][]Rule
	fallback string
}

// NewDetector builds a detector from per-currency rule lists. Each list is
// copied, filtered to active rules, and sorted ascending by value. The
// fallback currency's table applies when a cart currency has no table of
// its own, so thresholds are never silently dropped.
func NewDetector(tables map[string][]Rule, fallbackCurrency string) *Detector {
	norm := make(map[string][]Rule, len(tables))
	for code, rules := range tables {
		list := make([]Rule, 0, len(rules))
		for _, r := range rules {
			if r.IsActive() {
				list = append(list, r)
			}
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].Value < list[j].Value })
		norm[strings.ToUpper(code)] = list
	}
	if fallbackCurrency == "" {
		fallbackCurrency = "USD"
	}
	return &Detector{tables: norm, fallback: strings.ToUpper(fallbackCurrency)}
}

// Rules returns the rule list for a currency, falling back to the
// configured default currency's list when the code is unknown.
func (d *Detector) Rules(currencyCode string) []Rule {
	if rules, ok := d.tables[strings.ToUpper(currencyCode)]; ok {
		return rules
	}
	return d.tables[d.fallback]
}

// StatusFor computes the threshold status for a cart value in a currency.
func (d *Detector) StatusFor(cartValue int64, currencyCode string) Status {
	rules := d.Rules(currencyCode)

	st := Status{CartValue: cartValue, Currency: strings.ToUpper(currencyCode)}
	for i, r := range rules {
		if r.Value > cartValue {
			rule := rules[i]
			st.Next = &rule
			break
		}
		st.Met = append(st.Met, r)
	}
	return st
}

// ActiveFor selects the thresholds to display: the next unmet rule (if
// any) plus met rules that are not hidden when met, sorted by priority
// ascending and capped to maxVisible.
func (d *Detector) ActiveFor(cartValue int64, currencyCode string, maxVisible int) []Active {
	st := d.StatusFor(cartValue, currencyCode)

	var active []Active
	if st.Next != nil {
		active = append(active, Active{
			Rule:      *st.Next,
			Remaining: Remaining(cartValue, st.Next.Value),
			Met:       false,
			Progress:  Progress(cartValue, st.Next.Value),
		})
	}
	for _, r := range st.Met {
		if r.HideWhenMet {
			continue
		}
		active = append(active, Active{Rule: r, Remaining: 0, Met: true, Progress: 100})
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Rule.Priority < active[j].Rule.Priority
	})

	if maxVisible > 0 && len(active) > maxVisible {
		active = active[:maxVisible]
	}
	return active
}

// Remaining returns how far the cart value is below the threshold,
// never negative.
func Remaining(cartValue, thresholdValue int64) int64 {
	if r := thresholdValue - cartValue; r > 0 {
		return r
	}
	return 0
}

// Progress returns the percentage of the threshold reached, clamped to
// [0, 100]. A non-positive threshold counts as complete.
func Progress(cartValue, thresholdValue int64) int {
	if thresholdValue <= 0 {
		return 100
	}
	p := int((cartValue*100 + thresholdValue/2) / thresholdValue)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
