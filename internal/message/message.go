// Package message renders banner copy from detector signals. Templates use
// {variableName} placeholders; a placeholder with no matching variable is
// left verbatim in the output. Partial custom templates are a supported
// merchant configuration, so unknown placeholders are not an error.
package message

import (
	"regexp"
	"strconv"

	"github.com/cartsignal/cartsignal/internal/threshold"
	"github.com/cartsignal/cartsignal/internal/upsell"
)

// Rendered is the text output for one banner.
type Rendered struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
	Context string `json:"context,omitempty"`
}

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// Interpolate substitutes {name} placeholders from vars, leaving
// unmatched placeholders untouched.
func Interpolate(template string, vars map[string]string) string {
	if template == "" {
		return ""
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		if v, ok := vars[key]; ok {
			return v
		}
		return match
	})
}

// Render interpolates every field of a template set.
func Render(ts TemplateSet, vars map[string]string) Rendered {
	return Rendered{
		Heading: Interpolate(ts.Heading, vars),
		Body:    Interpolate(ts.Body, vars),
		Context: Interpolate(ts.Context, vars),
	}
}

// UpsellVars builds the interpolation variables for an upsell opportunity.
func UpsellVars(op *upsell.Opportunity, currencyCode string) map[string]string {
	return map[string]string{
		"productName":       op.ProductTitle,
		"currentFrequency":  FormatFrequency(op.CurrentFrequency),
		"upgradeFrequency":  FormatFrequency(op.UpgradeFrequency),
		"savingsAmount":     threshold.FormatAmount(op.SavingsMinor, currencyCode),
		"savingsPercentage": strconv.Itoa(op.SavingsPercent),
		"currentPrice":      threshold.FormatAmount(op.CurrentPriceMinor, currencyCode),
		"upgradePrice":      threshold.FormatAmount(op.UpgradePriceMinor, currencyCode),
	}
}

// ThresholdVars builds the interpolation variables for a threshold banner.
func ThresholdVars(a threshold.Active, currencyCode string) map[string]string {
	vars := map[string]string{
		"amount":     threshold.FormatAmount(a.Remaining, currencyCode),
		"threshold":  threshold.FormatAmount(a.Rule.Value, currencyCode),
		"percentage": strconv.Itoa(a.Progress) + "%",
	}
	if a.Rule.Discount > 0 {
		vars["discount"] = strconv.Itoa(a.Rule.Discount)
	}
	return vars
}

// RenderThreshold renders the copy for one active threshold: the met
// message once reached, otherwise the progress template.
func RenderThreshold(a threshold.Active, currencyCode string) Rendered {
	vars := ThresholdVars(a, currencyCode)
	body := a.Rule.Message
	if a.Met {
		body = a.Rule.MetMessage
	}
	return Rendered{
		Body:    Interpolate(body, vars),
		Context: Interpolate(a.Rule.ProgressText, vars),
	}
}

// RenderUpsell renders an upsell suggestion in the given style.
func RenderUpsell(op *upsell.Opportunity, style Style, currencyCode string) Rendered {
	return Render(style.Templates(), UpsellVars(op, currencyCode))
}

// FormatFrequency converts a frequency key to display form.
func FormatFrequency(freq string) string {
	switch freq {
	case upsell.FreqMonthly:
		return "Monthly"
	case upsell.FreqBimonthly:
		return "Bi-Monthly"
	case upsell.FreqQuarterly:
		return "Quarterly"
	case upsell.FreqBiannual:
		return "Bi-Annual"
	case upsell.FreqAnnual:
		return "Annual"
	case upsell.FreqUnknown:
		return "Subscription"
	}
	return freq
}
