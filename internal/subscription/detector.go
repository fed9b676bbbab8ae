// Package subscription resolves a normalized subscription signal from a cart
// line. Detection is attribute-first: a merchant-defined structured attribute
// is tried before falling back to keyword heuristics over the line's titles.
package subscription

import (
	"io"
	"log/slog"

	"github.com/cartsignal/cartsignal/internal/cart"
	"github.com/cartsignal/cartsignal/internal/catalog"
)

// Provenance values identify which strategy produced a signal. The fallback
// rate is a health indicator merchants watch, so the distinction is part of
// the signal itself.
const (
	ProvenanceAttribute = "structured-attribute"
	ProvenanceKeyword   = "keyword"
)

// Intervals a signal may carry. "subscription" is the generic interval
// assigned when only the bare keyword matched.
const (
	IntervalMonthly      = "monthly"
	IntervalQuarterly    = "quarterly"
	IntervalAnnual       = "annual"
	IntervalSubscription = "subscription"
)

// Signal is a normalized subscription detection result. It is derived per
// recompute and never persisted.
type Signal struct {
	Interval    string         `json:"interval"`
	UnitCount   int            `json:"unit_count"`
	AddOns      []string       `json:"add_ons"`
	AddOnCounts map[string]int `json:"add_on_counts"`
	Provenance  string         `json:"provenance"`
	Raw         string         `json:"raw,omitempty"`
}

// Detector resolves subscription signals against a fixed add-on catalog.
type Detector struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewDetector creates a Detector. A nil logger disables detection logging.
func NewDetector(c *catalog.Catalog, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Detector{catalog: c, logger: logger}
}

// Detect resolves a subscription signal from a cart line, or nil when the
// line is not a subscription. It never returns an error: malformed
// structured attributes are logged and fall through to keyword detection.
func (d *Detector) Detect(line cart.Line) *Signal {
	if line.Attribute != "" {
		if sig := d.parseAttribute(line.Attribute); sig != nil {
			return sig
		}
	}
	return d.detectKeywords(line)
}

// DetectAll returns the signal for every subscription line in order,
// paired with the index of the line that produced it.
func (d *Detector) DetectAll(lines []cart.Line) []LineSignal {
	var out []LineSignal
	for i, line := range lines {
		if sig := d.Detect(line); sig != nil {
			out = append(out, LineSignal{LineIndex: i, Signal: sig})
		}
	}
	return out
}

// LineSignal pairs a detected signal with its originating line index.
type LineSignal struct {
	LineIndex int
	Signal    *Signal
}
