package attendance

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ISOLayout is the calendar date format used for view keys and storage.
const ISOLayout = "2006-01-02"

// ISODate formats t as YYYY-MM-DD in t's own location.
func ISODate(t time.Time) string {
	return t.Format(ISOLayout)
}

// NormalizeDates reduces dates to distinct calendar days, returned as UTC
// midnights in ascending order. A nil or empty input yields an empty slice.
func NormalizeDates(dates []time.Time) []time.Time {
	seen := make(map[string]struct{}, len(dates))
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		iso := ISODate(d)
		if _, ok := seen[iso]; ok {
			continue
		}
		seen[iso] = struct{}{}
		day, _ := time.Parse(ISOLayout, iso)
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// ParseDates parses ISO date strings and normalizes the result.
func ParseDates(values []string) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(values))
	for _, v := range values {
		d, err := time.Parse(ISOLayout, strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, v)
		}
		dates = append(dates, d)
	}
	return NormalizeDates(dates), nil
}

// ISODates formats each date with ISODate.
func ISODates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = ISODate(d)
	}
	return out
}
