package format

import (
	"math"
	"strings"
	"time"
)

// DefaultNewDays is how long a casino keeps its "new" badge.
const DefaultNewDays = 14

const msPerDay = 24 * 60 * 60 * 1000

type Badge string

const (
	BadgeNone      Badge = ""
	BadgeNew       Badge = "new"
	BadgeExclusive Badge = "exclusive"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts the ISO forms the CMS emits.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysSince floors the millisecond difference between now and date into days.
// Dates in the future give a negative count.
func DaysSince(date string, now time.Time) (int, bool) {
	t, ok := ParseDate(date)
	if !ok {
		return 0, false
	}
	ms := now.Sub(t).Milliseconds()
	return int(math.Floor(float64(ms) / msPerDay)), true
}

// IsNewWithin reports whether date lies at most days days before now.
// Unparseable dates are never new.
func IsNewWithin(date string, days int, now time.Time) bool {
	diff, ok := DaysSince(date, now)
	return ok && diff <= days
}

// IsNewCasino uses the 14 day default unless a threshold is given.
func IsNewCasino(date string, threshold ...int) bool {
	days := DefaultNewDays
	if len(threshold) > 0 {
		days = threshold[0]
	}
	return IsNewWithin(date, days, time.Now())
}

// BadgeFor picks the card badge. An exclusive flag always wins over "new".
func BadgeFor(exclusive bool, createdAt string, days int, now time.Time) Badge {
	if exclusive {
		return BadgeExclusive
	}
	if IsNewWithin(createdAt, days, now) {
		return BadgeNew
	}
	return BadgeNone
}
