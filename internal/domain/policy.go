package domain

import (
	"fmt"
	"time"
)

// ─── Screen-Time Policy ─────────────────────────────────────────────────────
// Pure pre-flight checks. They reserve nothing: a race between a check
// and the subsequent start is possible and accepted (parent approval is
// the real gate).

// DailyCapMinutes returns the screen-time cap for the given day.
func DailyCapMinutes(child Child, date time.Time, s Settings) int {
	if IsWeekend(date) {
		return s.WeekendCapMinutes
	}
	return s.SchooldayCapMinutes
}

// CutoffMinutes returns the minute-of-day after which no screen block may
// run: bedtime for the day type minus the no-screen buffer, floored at 0.
func CutoffMinutes(child Child, date time.Time, s Settings) int {
	bed := child.Bedtimes.School
	if IsWeekend(date) {
		bed = child.Bedtimes.Weekend
	}
	off := HMToMinutes(bed) - s.NoScreenBufferMinutes
	if off < 0 {
		return 0
	}
	return off
}

// CanStartBlockNow checks whether a standard screen block may start at
// nowMinutes given the minutes already spent today. A nil return means
// the block may start; otherwise the error wraps ErrCapExceeded or
// ErrPastCutoff with the concrete numbers.
func CanStartBlockNow(child Child, date time.Time, nowMinutes, spentToday int, s Settings) error {
	cap := DailyCapMinutes(child, date, s)
	cutoff := CutoffMinutes(child, date, s)
	block := s.BlockMinutes

	if spentToday+block > cap {
		return fmt.Errorf("%w: daily cap %dm, spent %dm", ErrCapExceeded, cap, spentToday)
	}
	if nowMinutes+block > cutoff {
		return fmt.Errorf("%w: cut-off %s", ErrPastCutoff, FormatMinutes(cutoff))
	}
	return nil
}

// AutoResetDue reports whether the daily task reset should fire: the
// configured reset time has passed and the reset has not already run
// today. The caller stamps LastAutoResetDate after firing.
func AutoResetDue(s Settings, now time.Time) bool {
	if !s.AutoResetEnabled || s.AutoResetTime == "" {
		return false
	}
	if s.LastAutoResetDate == ToYMD(now) {
		return false
	}
	return MinutesOfDay(now) >= HMToMinutes(s.AutoResetTime)
}
