package threshold

import (
	"fmt"
	"strings"
)

// currencySymbols maps ISO 4217 codes to display symbols. Codes outside
// the table are rendered literally rather than failing.
var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "CA$",
	"EUR": "€",
	"GBP": "£",
	"AUD": "A$",
}

// FormatAmount renders minor units as a display amount with a currency
// symbol, e.g. FormatAmount(1500, "USD") == "$15.00".
func FormatAmount(minorUnits int64, currencyCode string) string {
	code := strings.ToUpper(currencyCode)
	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code
	}
	negative := ""
	if minorUnits < 0 {
		negative = "-"
		minorUnits = -minorUnits
	}
	return fmt.Sprintf("%s%s%d.%02d", negative, symbol, minorUnits/100, minorUnits%100)
}
