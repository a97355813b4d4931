package greenops

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats numbers with English thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat formats f with precision decimals and thousand separators.
// Example: FormatFloat(1234.567, 2) returns "1,234.57".
func FormatFloat(f float64, precision int) string {
	if precision <= 0 {
		return FormatNumber(int64(math.Round(f)))
	}
	return printer.Sprintf(fmt.Sprintf("%%.%df", precision), f)
}

// FormatLarge abbreviates millions and billions ("~1.5 billion") and
// otherwise falls back to FormatNumber.
func FormatLarge(n float64) string {
	switch {
	case n >= BillionThreshold:
		return fmt.Sprintf("~%.1f billion", n/BillionThreshold)
	case n >= LargeNumberThreshold:
		return fmt.Sprintf("~%.1f million", n/LargeNumberThreshold)
	default:
		return FormatNumber(int64(math.Round(n)))
	}
}

// FormatCurrency formats a dollar amount with two decimals, e.g. "$1,234.50".
// Negative amounts keep their sign in front of the symbol.
func FormatCurrency(amount float64) string {
	if amount < 0 {
		return "-$" + FormatFloat(-amount, 2)
	}
	return "$" + FormatFloat(amount, 2)
}

// FormatPercent formats a fraction (0.42) as a whole percentage ("42%").
func FormatPercent(fraction float64) string {
	return FormatNumber(int64(math.Round(fraction*100))) + "%"
}
