package invoice

import (
	"regexp"
	"strconv"
	"strings"
)

var reAmountDigits = regexp.MustCompile(`-?\d[\d,]*(\.\d+)?`)

// ParseAmount extracts a numeric value from a recognized money string,
// tolerating currency symbols and thousands separators ("$1,247.50").
func ParseAmount(s string) (float64, bool) {
	m := reAmountDigits.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseQuantity extracts an integer quantity from a recognized string.
func ParseQuantity(s string) (int, bool) {
	m := reAmountDigits.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return 0, false
	}
	return v, true
}
