package domain

import (
	"strings"
	"time"
)

// Frequency tags how a recurring event repeats.
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ParseFrequency normalises user input. Anything unrecognised is weekly.
func ParseFrequency(s string) Frequency {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case FrequencyMonthly:
		return FrequencyMonthly
	default:
		return FrequencyWeekly
	}
}

// next steps t forward by one interval. Monthly steps use time.AddDate, so a
// day that overflows the next month rolls into the one after (Jan 31 -> Mar 2).
func (f Frequency) next(t time.Time) time.Time {
	if f == FrequencyMonthly {
		return t.AddDate(0, 1, 0)
	}
	return t.AddDate(0, 0, 7)
}

// GenerateRecurringDates returns start and every following occurrence up to
// and including end. Empty when start is after end.
func GenerateRecurringDates(start, end time.Time, freq Frequency) []time.Time {
	var dates []time.Time
	for current := start; !current.After(end); current = freq.next(current) {
		dates = append(dates, current)
	}
	return dates
}
