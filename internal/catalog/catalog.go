// Package catalog defines the table of known complimentary add-on kinds.
// Each kind carries display metadata used when rendering inclusion messages.
// The table is configuration, not behavior: new kinds work without code
// changes anywhere else in the engine.
package catalog

import "fmt"

// AddOn describes a single add-on kind.
type AddOn struct {
	Name          string `json:"name" yaml:"name"`
	PluralName    string `json:"plural_name" yaml:"plural_name"`
	ProductHandle string `json:"product_handle" yaml:"product_handle"`
	Icon          string `json:"icon" yaml:"icon"`
}

// Catalog maps add-on kind keys (e.g. "glass") to their display metadata.
type Catalog struct {
	kinds map[string]AddOn
}

// Default returns the built-in add-on catalog.
func Default() *Catalog {
	return &Catalog{kinds: map[string]AddOn{
		"glass": {
			Name:          "Premium Glass",
			PluralName:    "Premium Glasses",
			ProductHandle: "premium-glass",
			Icon:          "🍷",
		},
		"bottle": {
			Name:          "Bottle",
			PluralName:    "Bottles",
			ProductHandle: "wine-bottle",
			Icon:          "🍾",
		},
		"accessory": {
			Name:          "Wine Accessory",
			PluralName:    "Wine Accessories",
			ProductHandle: "wine-accessory",
			Icon:          "🔧",
		},
		"sticker": {
			Name:          "Sticker",
			PluralName:    "Stickers",
			ProductHandle: "wine-sticker",
			Icon:          "✨",
		},
		"sample": {
			Name:          "Sample",
			PluralName:    "Samples",
			ProductHandle: "wine-sample",
			Icon:          "🎁",
		},
	}}
}

// NewFromMap builds a catalog from merchant-supplied kind definitions.
// An empty map yields a catalog that recognizes no kinds.
func NewFromMap(kinds map[string]AddOn) *Catalog {
	m := make(map[string]AddOn, len(kinds))
	for k, v := range kinds {
		m[k] = v
	}
	return &Catalog{kinds: m}
}

// Lookup returns the add-on definition for a kind key.
func (c *Catalog) Lookup(kind string) (AddOn, bool) {
	a, ok := c.kinds[kind]
	return a, ok
}

// IsValid reports whether the kind key exists in the catalog.
func (c *Catalog) IsValid(kind string) bool {
	_, ok := c.kinds[kind]
	return ok
}

// Kinds returns all kind keys in unspecified order.
func (c *Catalog) Kinds() []string {
	out := make([]string, 0, len(c.kinds))
	for k := range c.kinds {
		out = append(out, k)
	}
	return out
}

// FormatName returns a display string for a quantity of an add-on kind,
// choosing singular or plural form. Unknown kinds get a generic label
// rather than failing.
func (c *Catalog) FormatName(kind string, count int) string {
	a, ok := c.kinds[kind]
	if !ok {
		if count == 1 {
			return fmt.Sprintf("%d Unknown Add-On", count)
		}
		return fmt.Sprintf("%d Unknown Add-Ons", count)
	}
	name := a.PluralName
	if count == 1 {
		name = a.Name
	}
	return fmt.Sprintf("%d %s", count, name)
}

// Icon returns the display icon for a kind, or a package icon fallback.
func (c *Catalog) Icon(kind string) string {
	if a, ok := c.kinds[kind]; ok && a.Icon != "" {
		return a.Icon
	}
	return "📦"
}
