package message

import "strings"

// Style kinds form a closed set. Custom supplies its own template fields;
// the rest select a built-in set.
const (
	StyleDefault      = "default"
	StyleLegal        = "legal"
	StyleMinimal      = "minimal"
	StyleEnthusiastic = "enthusiastic"
	StyleCustom       = "custom"
)

// TemplateSet holds the template strings for one wording style.
type TemplateSet struct {
	Heading string `json:"heading" yaml:"heading"`
	Body    string `json:"body" yaml:"body"`
	Context string `json:"context,omitempty" yaml:"context,omitempty"`
}

// Style is a resolved wording selection: a kind plus, for custom, the
// merchant-supplied template fields. Resolve once per render rather than
// merging properties at lookup time.
type Style struct {
	Kind   string
	Custom TemplateSet
}

// ResolveStyle normalizes a merchant style key. Unknown keys fall back to
// the default style; "custom" without templates also falls back, since an
// empty custom set would render blank banners.
func ResolveStyle(key string, custom *TemplateSet) Style {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case StyleLegal:
		return Style{Kind: StyleLegal}
	case StyleMinimal:
		return Style{Kind: StyleMinimal}
	case StyleEnthusiastic:
		return Style{Kind: StyleEnthusiastic}
	case StyleCustom:
		if custom != nil && (custom.Heading != "" || custom.Body != "") {
			return Style{Kind: StyleCustom, Custom: *custom}
		}
		return Style{Kind: StyleDefault}
	default:
		return Style{Kind: StyleDefault}
	}
}

// Templates returns the template set for the style.
func (s Style) Templates() TemplateSet {
	switch s.Kind {
	case StyleLegal:
		return legalTemplates
	case StyleMinimal:
		return minimalTemplates
	case StyleEnthusiastic:
		return enthusiasticTemplates
	case StyleCustom:
		return s.Custom
	default:
		return defaultTemplates
	}
}

var defaultTemplates = TemplateSet{
	Heading: "💡 Save More with {upgradeFrequency} Subscription",
	Body:    "Upgrade your {currentFrequency} subscription to {upgradeFrequency} and save {savingsAmount}/year ({savingsPercentage}% savings)",
	Context: "You're currently subscribed to: {productName}",
}

var legalTemplates = TemplateSet{
	Heading: "Annual Subscription Available",
	Body:    "Switch from {currentFrequency} to {upgradeFrequency} delivery and reduce annual cost by {savingsAmount} ({savingsPercentage}%)",
	Context: "Current subscription: {productName}",
}

var minimalTemplates = TemplateSet{
	Heading: "Switch to {upgradeFrequency}",
	Body:    "Save {savingsAmount}/year with {upgradeFrequency} delivery",
	Context: "{productName}",
}

var enthusiasticTemplates = TemplateSet{
	Heading: "🎉 Huge Savings with {upgradeFrequency} Plan!",
	Body:    "Level up to {upgradeFrequency} and pocket {savingsAmount} every year! That's {savingsPercentage}% more savings on {productName}",
	Context: "Currently on {currentFrequency} - upgrade now!",
}
