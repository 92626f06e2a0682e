package events

import (
	"strings"

	"github.com/shopspring/decimal"
)

// formatRule renders an observation value for display.
type formatRule func(v decimal.Decimal) string

// seriesFormats maps tracked series ids to their display rule. Series not
// listed here fall through to unitFormat, keyed on the units string the
// provider reports.
var seriesFormats = map[string]formatRule{
	"UNRATE":   formatPercent,
	"FEDFUNDS": formatPercent,
	"CPIAUCSL": formatPlain,
	"INDPRO":   formatPlain,
	"GDP":      magnitudeCurrency("B"),
	"RSXFS":    magnitudeCurrency("M"),
	"HOUST":    magnitudeCount("K"),
	"PAYEMS":   magnitudeCount("K"),
}

// FormatValue picks a rule by series id first, then by unit string.
// Used for the previous-value snapshot on events and for getdata replies.
func FormatValue(seriesID, units string, v decimal.Decimal) string {
	if rule, ok := seriesFormats[seriesID]; ok {
		return rule(v)
	}
	return unitFormat(units)(v)
}

func unitFormat(units string) formatRule {
	u := strings.ToLower(units)
	switch {
	case strings.Contains(u, "percent"):
		return formatPercent
	case strings.Contains(u, "per barrel"):
		return formatPerUnit("/bbl")
	case strings.Contains(u, "per ounce") || strings.Contains(u, "per troy ounce"):
		return formatPerUnit("/oz")
	case strings.Contains(u, "billions of dollars"):
		return magnitudeCurrency("B")
	case strings.Contains(u, "millions of dollars"):
		return magnitudeCurrency("M")
	case strings.Contains(u, "thousands of dollars"):
		return magnitudeCurrency("K")
	case strings.Contains(u, "billions"):
		return magnitudeCount("B")
	case strings.Contains(u, "millions"):
		return magnitudeCount("M")
	case strings.Contains(u, "thousands"):
		return magnitudeCount("K")
	default:
		return formatPlain
	}
}

func formatPercent(v decimal.Decimal) string {
	return trimTrailing(v) + "%"
}

func formatPlain(v decimal.Decimal) string {
	return trimTrailing(v)
}

func formatPerUnit(unit string) formatRule {
	return func(v decimal.Decimal) string {
		return "$" + groupThousands(v.StringFixed(2)) + unit
	}
}

func magnitudeCurrency(suffix string) formatRule {
	return func(v decimal.Decimal) string {
		return "$" + groupThousands(trimTrailing(v)) + suffix
	}
}

func magnitudeCount(suffix string) formatRule {
	return func(v decimal.Decimal) string {
		return groupThousands(trimTrailing(v)) + suffix
	}
}

// trimTrailing renders without exponent and without trailing zero decimals.
func trimTrailing(v decimal.Decimal) string {
	s := v.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// groupThousands inserts comma separators into the integer part.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) > 3 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}
	out := intPart + frac
	if neg {
		out = "-" + out
	}
	return out
}
