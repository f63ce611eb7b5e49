package research

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCurrency reads a freeform currency string like "$12M", "$1.2B", or
// "450K" into a numeric value. Unparseable input yields 0.
func ParseCurrency(s string) float64 {
	if s == "" || strings.EqualFold(s, "N/A") {
		return 0
	}

	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	multiplier := 1.0
	switch {
	case strings.Contains(s, "B"):
		multiplier = 1e9
		s = strings.ReplaceAll(s, "B", "")
	case strings.Contains(s, "M"):
		multiplier = 1e6
		s = strings.ReplaceAll(s, "M", "")
	case strings.Contains(s, "K"):
		multiplier = 1e3
		s = strings.ReplaceAll(s, "K", "")
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v * multiplier
}

// FormatCurrency renders a numeric value as a compact currency string.
func FormatCurrency(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.0fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
