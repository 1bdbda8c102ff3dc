package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"1/2/2006",
	"01/02/2006",
	"1-2-2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// Date parses the formats loan documents use and returns the parsed time.
func Date(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Number parses a numeric field, tolerating currency symbols, thousands
// separators and percent signs.
func Number(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// RateToDecimal converts an interest rate to its decimal form. Values above 1
// are treated as percentages, e.g. 5.25 -> 0.0525. Rounded to 5 places.
func RateToDecimal(rate float64) float64 {
	if rate > 1 {
		rate = rate / 100
	}
	return math.Round(rate*100000) / 100000
}
