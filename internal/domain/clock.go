package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ─── Calendar Helpers ───────────────────────────────────────────────────────
// All policy checks key off the local calendar day and minute-of-day.
// The weekend starts Friday evening in this household, so Friday and
// Saturday count as weekend days (Sunday is a school night).

// ToYMD formats a time as a local calendar day key (YYYY-MM-DD).
func ToYMD(t time.Time) string {
	return t.Format(time.DateOnly)
}

// IsWeekend reports whether the day counts as a weekend for screen-time caps.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Friday || wd == time.Saturday
}

// HMToMinutes converts an "HH:MM" clock string to minutes since midnight.
// Malformed input yields 0 rather than an error — bedtimes come from
// settings the UI already validates.
func HMToMinutes(hhmm string) int {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return h*60 + m
}

// MinutesOfDay returns minutes elapsed since local midnight.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// FormatMinutes renders minutes-since-midnight as "H:MM".
func FormatMinutes(m int) string {
	return fmt.Sprintf("%d:%02d", m/60, m%60)
}
