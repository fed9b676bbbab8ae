package subscription

import (
	"reflect"
	"testing"

	"github.com/cartsignal/cartsignal/internal/cart"
	"github.com/cartsignal/cartsignal/internal/catalog"
)

func newTestDetector() *Detector {
	return NewDetector(catalog.Default(), nil)
}

// ---------------------------------------------------------------------------
// Structured attribute grammar
// ---------------------------------------------------------------------------

func TestParseAttributeBasic(t *testing.T) {
	d := newTestDetector()
	sig := d.Detect(cart.Line{Attribute: "monthly_1_glass"})
	if sig == nil {
		t.Fatal("expected signal")
	}
	if sig.Interval != IntervalMonthly {
		t.Errorf("expected monthly, got %s", sig.Interval)
	}
	if sig.UnitCount != 1 {
		t.Errorf("expected unit count 1, got %d", sig.UnitCount)
	}
	if !reflect.DeepEqual(sig.AddOns, []string{"glass"}) {
		t.Errorf("unexpected add-ons: %v", sig.AddOns)
	}
	if sig.AddOnCounts["glass"] != 1 {
		t.Errorf("expected glass count 1, got %d", sig.AddOnCounts["glass"])
	}
	if sig.Provenance != ProvenanceAttribute {
		t.Errorf("expected attribute provenance, got %s", sig.Provenance)
	}
}

func TestParseAttributeInheritsBaseCount(t *testing.T) {
	d := newTestDetector()
	sig := d.Detect(cart.Line{Attribute: "annual_4_glass_sticker"})
	if sig == nil {
		t.Fatal("expected signal")
	}
	if sig.AddOnCounts["glass"] != 4 || sig.AddOnCounts["sticker"] != 4 {
		t.Errorf("expected both counts to inherit 4, got %v", sig.AddOnCounts)
	}
}

func TestParseAttributeCountOverride(t *testing.T) {
	d := newTestDetector()
	sig := d.Detect(cart.Line{Attribute: "annual_4_glass_2_sticker"})
	if sig == nil {
		t.Fatal("expected signal")
	}
	if sig.UnitCount != 4 {
		t.Errorf("expected unit count 4, got %d", sig.UnitCount)
	}
	if !reflect.DeepEqual(sig.AddOns, []string{"glass", "sticker"}) {
		t.Errorf("unexpected add-on order: %v", sig.AddOns)
	}
	if sig.AddOnCounts["glass"] != 4 {
		t.Errorf("expected glass to keep base count 4, got %d", sig.AddOnCounts["glass"])
	}
	if sig.AddOnCounts["sticker"] != 2 {
		t.Errorf("expected sticker override 2, got %d", sig.AddOnCounts["sticker"])
	}
}

func TestParseAttributeCaseAndWhitespace(t *testing.T) {
	d := newTestDetector()
	sig := d.Detect(cart.Line{Attribute: "  Quarterly_1_Bottle  "})
	if sig == nil {
		t.Fatal("expected signal")
	}
	if sig.Interval != IntervalQuarterly || sig.AddOnCounts["bottle"] != 1 {
		t.Errorf("unexpected signal: %+v", sig)
	}
}

func TestParseAttributeMalformed(t *testing.T) {
	tests := []struct {
		name string
		attr string
	}{
		{"too few tokens", "monthly_1"},
		{"unknown interval", "weekly_1_glass"},
		{"zero count", "monthly_0_glass"},
		{"negative count", "monthly_-1_glass"},
		{"non-numeric count", "monthly_one_glass"},
		{"unknown add-on kind", "monthly_1_spoon"},
		{"dangling override", "annual_4_glass_2"},
		{"double override", "annual_4_2_3_glass"},
		{"zero override", "annual_4_0_glass"},
		{"empty", ""},
	}

	d := newTestDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := d.parseAttribute(tt.attr)
			if sig != nil {
				t.Errorf("expected nil for %q, got %+v", tt.attr, sig)
			}
		})
	}
}

// A malformed attribute falls through to keyword detection when the titles
// carry subscription keywords.
func TestMalformedAttributeFallsBackToKeywords(t *testing.T) {
	d := newTestDetector()
	sig := d.Detect(cart.Line{
		Attribute: "weekly_1_glass",
		Title:     "Annual Wine Subscription",
	})
	if sig == nil {
		t.Fatal("expected keyword fallback signal")
	}
	if sig.Provenance != ProvenanceKeyword {
		t.Errorf("expected keyword provenance, got %s", sig.Provenance)
	}
	if sig.Interval != IntervalAnnual {
		t.Errorf("expected annual, got %s", sig.Interval)
	}
}

// ---------------------------------------------------------------------------
// Keyword detection
// ---------------------------------------------------------------------------

func TestKeywordDetection(t *testing.T) {
	tests := []struct {
		name      string
		line      cart.Line
		interval  string
		unitCount int
	}{
		{"annual", cart.Line{Title: "Annual Wine Club"}, IntervalAnnual, 4},
		{"yearly", cart.Line{Title: "Yearly Membership"}, IntervalAnnual, 4},
		{"twelve month", cart.Line{Title: "12-Month Plan"}, IntervalAnnual, 4},
		{"quarterly", cart.Line{Title: "Quarterly Espresso Plan"}, IntervalQuarterly, 1},
		{"three month", cart.Line{Title: "3 Month Coffee Box"}, IntervalQuarterly, 1},
		{"monthly", cart.Line{Title: "Monthly Cheese Box"}, IntervalMonthly, 1},
		{"generic", cart.Line{Title: "Wine Lovers Subscription"}, IntervalSubscription, 1},
		{"variant title", cart.Line{Title: "Wine Club", VariantTitle: "Annual"}, IntervalAnnual, 4},
		{"product title", cart.Line{Title: "Membership", Product: cart.Product{Title: "Quarterly Club"}}, IntervalQuarterly, 1},
	}

	d := newTestDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := d.Detect(tt.line)
			if sig == nil {
				t.Fatal("expected signal")
			}
			if sig.Interval != tt.interval {
				t.Errorf("expected interval %s, got %s", tt.interval, sig.Interval)
			}
			if sig.UnitCount != tt.unitCount {
				t.Errorf("expected unit count %d, got %d", tt.unitCount, sig.UnitCount)
			}
			if sig.Provenance != ProvenanceKeyword {
				t.Errorf("expected keyword provenance, got %s", sig.Provenance)
			}
		})
	}
}

// Annual outranks quarterly when a title matches both.
func TestKeywordPrecedence(t *testing.T) {
	d := newTestDetector()
	sig := d.Detect(cart.Line{Title: "Annual plan billed quarterly"})
	if sig == nil {
		t.Fatal("expected signal")
	}
	if sig.Interval != IntervalAnnual {
		t.Errorf("expected annual to win, got %s", sig.Interval)
	}
	if sig.UnitCount != 4 {
		t.Errorf("expected 4 units, got %d", sig.UnitCount)
	}
}

func TestKeywordExplicitCount(t *testing.T) {
	d := newTestDetector()
	sig := d.Detect(cart.Line{Title: "Monthly Club with 2 Glasses"})
	if sig == nil {
		t.Fatal("expected signal")
	}
	if sig.UnitCount != 2 {
		t.Errorf("expected explicit count 2, got %d", sig.UnitCount)
	}
	if sig.AddOnCounts["glass"] != 2 {
		t.Errorf("expected glass count 2, got %d", sig.AddOnCounts["glass"])
	}
}

func TestKeywordNoMatch(t *testing.T) {
	d := newTestDetector()
	if sig := d.Detect(cart.Line{Title: "House Blend Coffee Beans"}); sig != nil {
		t.Errorf("expected nil for non-subscription line, got %+v", sig)
	}
	if sig := d.Detect(cart.Line{}); sig != nil {
		t.Errorf("expected nil for empty line, got %+v", sig)
	}
}

// ---------------------------------------------------------------------------
// DetectAll
// ---------------------------------------------------------------------------

func TestDetectAll(t *testing.T) {
	d := newTestDetector()
	lines := []cart.Line{
		{Title: "House Blend Coffee Beans"},
		{Title: "Quarterly Espresso Plan"},
		{Attribute: "annual_4_glass"},
	}

	signals := d.DetectAll(lines)
	if len(signals) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(signals))
	}
	if signals[0].LineIndex != 1 || signals[0].Signal.Interval != IntervalQuarterly {
		t.Errorf("unexpected first signal: %+v", signals[0])
	}
	if signals[1].LineIndex != 2 || signals[1].Signal.Provenance != ProvenanceAttribute {
		t.Errorf("unexpected second signal: %+v", signals[1])
	}
}
