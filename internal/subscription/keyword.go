package subscription

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cartsignal/cartsignal/internal/cart"
)

// keywordRule binds an interval to its title patterns and default unit
// count. Rules are evaluated in order and the first match wins, so a title
// containing both "annual" and "quarterly" resolves to annual.
type keywordRule struct {
	interval string
	units    int
	patterns []*regexp.Regexp
}

var keywordRules = []keywordRule{
	{
		interval: IntervalAnnual,
		units:    4,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bannual`),
			regexp.MustCompile(`(?i)\byearly\b`),
			regexp.MustCompile(`(?i)\b12[-\s]?month`),
		},
	},
	{
		interval: IntervalQuarterly,
		units:    1,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bquarterly\b`),
			regexp.MustCompile(`(?i)\b3[-\s]?month`),
		},
	},
	{
		interval: IntervalMonthly,
		units:    1,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bmonthly\b`),
			regexp.MustCompile(`(?i)\b1[-\s]?month\b`),
		},
	},
	{
		interval: IntervalSubscription,
		units:    1,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bsubscription\b`),
		},
	},
}

// countPatterns extract an explicit add-on count from titles like
// "4 Premium Glasses" or "2-glass subscription".
var countPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)[-\s]?glasses?\b`),
	regexp.MustCompile(`(?i)\b(\d+)\s+glass`),
}

// keywordAddOnKind is the add-on kind all keyword-detected signals resolve
// to. Keyword detection predates the structured attribute and always meant
// complimentary glassware.
const keywordAddOnKind = "glass"

// detectKeywords scans the line's combined titles for subscription
// keywords. Returns nil when nothing matches.
func (d *Detector) detectKeywords(line cart.Line) *Signal {
	haystack := searchText(line)
	if haystack == "" {
		return nil
	}

	for _, rule := range keywordRules {
		if !matchesAny(rule.patterns, haystack) {
			continue
		}
		count := rule.units
		if n := extractCount(haystack); n > 0 {
			count = n
		}
		return &Signal{
			Interval:    rule.interval,
			UnitCount:   count,
			AddOns:      []string{keywordAddOnKind},
			AddOnCounts: map[string]int{keywordAddOnKind: count},
			Provenance:  ProvenanceKeyword,
			Raw:         "keyword:" + rule.interval,
		}
	}
	return nil
}

// searchText concatenates the line title, variant title, and product title,
// skipping blank values.
func searchText(line cart.Line) string {
	var parts []string
	for _, s := range []string{line.Title, line.VariantTitle, line.Product.Title} {
		if t := strings.TrimSpace(s); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func extractCount(s string) int {
	for _, p := range countPatterns {
		m := p.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			return n
		}
	}
	return 0
}
