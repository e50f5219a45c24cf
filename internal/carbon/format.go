package carbon

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	millionThreshold = 1_000_000
	billionThreshold = 1_000_000_000
)

//nolint:gochecknoglobals // x/text printers are safe for concurrent use.
var printer = message.NewPrinter(language.BritishEnglish)

// FormatNumber formats n with thousands separators: 18248 is "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatLarge abbreviates millions and billions ("~1.5 billion") and
// otherwise rounds to a separated integer.
func FormatLarge(v float64) string {
	switch {
	case v >= billionThreshold:
		return fmt.Sprintf("~%.1f billion", v/billionThreshold)
	case v >= millionThreshold:
		return fmt.Sprintf("~%.1f million", v/millionThreshold)
	default:
		return FormatNumber(int64(math.Round(v)))
	}
}

func formatValue(v float64) string { return FormatLarge(v) }
