package catalog

import "testing"

func TestDefaultKinds(t *testing.T) {
	c := Default()
	for _, kind := range []string{"glass", "bottle", "accessory", "sticker", "sample"} {
		if !c.IsValid(kind) {
			t.Errorf("expected built-in kind %q", kind)
		}
	}
	if c.IsValid("spoon") {
		t.Error("did not expect kind spoon")
	}
}

func TestLookup(t *testing.T) {
	c := Default()
	a, ok := c.Lookup("glass")
	if !ok {
		t.Fatal("expected glass to exist")
	}
	if a.Name != "Premium Glass" || a.PluralName != "Premium Glasses" {
		t.Errorf("unexpected add-on: %+v", a)
	}
	if _, ok := c.Lookup("missing"); ok {
		t.Error("expected ok=false for missing kind")
	}
}

func TestFormatName(t *testing.T) {
	tests := []struct {
		kind  string
		count int
		want  string
	}{
		{"glass", 1, "1 Premium Glass"},
		{"glass", 4, "4 Premium Glasses"},
		{"sticker", 2, "2 Stickers"},
		{"missing", 1, "1 Unknown Add-On"},
		{"missing", 3, "3 Unknown Add-Ons"},
	}
	c := Default()
	for _, tt := range tests {
		if got := c.FormatName(tt.kind, tt.count); got != tt.want {
			t.Errorf("FormatName(%q, %d) = %q, want %q", tt.kind, tt.count, got, tt.want)
		}
	}
}

func TestIcon(t *testing.T) {
	c := Default()
	if got := c.Icon("glass"); got != "🍷" {
		t.Errorf("unexpected glass icon %q", got)
	}
	if got := c.Icon("missing"); got != "📦" {
		t.Errorf("expected fallback icon, got %q", got)
	}
}

func TestNewFromMap(t *testing.T) {
	c := NewFromMap(map[string]AddOn{
		"mug": {Name: "Mug", PluralName: "Mugs"},
	})
	if !c.IsValid("mug") {
		t.Error("expected custom kind mug")
	}
	if c.IsValid("glass") {
		t.Error("custom catalog should not inherit built-ins")
	}
	if got := c.FormatName("mug", 2); got != "2 Mugs" {
		t.Errorf("unexpected format: %q", got)
	}
}

func TestNewFromMapEmpty(t *testing.T) {
	c := NewFromMap(nil)
	if len(c.Kinds()) != 0 {
		t.Errorf("expected no kinds, got %v", c.Kinds())
	}
}
