package invoice

import (
	"strings"
	"time"
)

// dateLayouts are tried in order; the first parse wins. ISO first so
// already-normalized input round-trips unchanged.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"2-1-2006",
	"2006.01.02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02 Jan 2006",
}

// NormalizeDate parses a recognized date string against the accepted layouts
// and returns it in ISO YYYY-MM-DD form.
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// dateBefore reports whether ISO date a is strictly earlier than ISO date b.
// Non-ISO input (which assembly never produces) compares as not-before.
func dateBefore(a, b string) bool {
	ta, errA := time.Parse("2006-01-02", a)
	tb, errB := time.Parse("2006-01-02", b)
	if errA != nil || errB != nil {
		return false
	}
	return ta.Before(tb)
}
