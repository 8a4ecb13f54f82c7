package domain

import (
	"errors"
	"testing"
	"time"
)

func testChild() Child {
	return Child{
		ID:   "a",
		Name: "Avery",
		Age:  9,
		Bedtimes: Bedtimes{
			School:  "21:00",
			Weekend: "22:00",
		},
		WeeklyCashCap: 10,
	}
}

// Monday and Friday in September 2026.
var (
	schoolDay  = time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)  // Monday
	weekendDay = time.Date(2026, 9, 11, 12, 0, 0, 0, time.UTC) // Friday
)

// ─── Caps & Cut-Offs ────────────────────────────────────────────────────────

func TestDailyCapMinutes(t *testing.T) {
	s := DefaultSettings()
	child := testChild()

	if got := DailyCapMinutes(child, schoolDay, s); got != 120 {
		t.Errorf("school day cap = %d, want 120", got)
	}
	if got := DailyCapMinutes(child, weekendDay, s); got != 300 {
		t.Errorf("weekend cap = %d, want 300", got)
	}
}

func TestCutoffMinutes(t *testing.T) {
	s := DefaultSettings()
	child := testChild()

	// 21:00 bedtime − 30m buffer = 20:30.
	if got := CutoffMinutes(child, schoolDay, s); got != 20*60+30 {
		t.Errorf("school cutoff = %d, want %d", got, 20*60+30)
	}
	// 22:00 bedtime − 30m buffer = 21:30.
	if got := CutoffMinutes(child, weekendDay, s); got != 21*60+30 {
		t.Errorf("weekend cutoff = %d, want %d", got, 21*60+30)
	}
}

func TestCutoffMinutes_FloorsAtZero(t *testing.T) {
	s := DefaultSettings()
	s.NoScreenBufferMinutes = 600
	child := testChild()
	child.Bedtimes.School = "01:00"

	if got := CutoffMinutes(child, schoolDay, s); got != 0 {
		t.Errorf("cutoff = %d, want 0", got)
	}
}

// ─── Block Pre-Flight ───────────────────────────────────────────────────────

func TestCanStartBlockNow(t *testing.T) {
	s := DefaultSettings()
	child := testChild()

	tests := []struct {
		name       string
		nowMinutes int
		spentToday int
		wantErr    error
	}{
		{"midday with budget", 12 * 60, 0, nil},
		{"cap reached", 12 * 60, 120, ErrCapExceeded},
		{"cap would overflow", 12 * 60, 100, ErrCapExceeded},
		{"too close to bedtime", 20*60 + 15, 0, ErrPastCutoff},
		{"exactly fits before cutoff", 20 * 60, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanStartBlockNow(child, schoolDay, tt.nowMinutes, tt.spentToday, s)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("CanStartBlockNow() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CanStartBlockNow() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ─── Auto-Reset Due ─────────────────────────────────────────────────────────

func TestAutoResetDue(t *testing.T) {
	now := time.Date(2026, 9, 1, 6, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		mutate   func(*Settings)
		want     bool
	}{
		{"disabled", func(s *Settings) { s.AutoResetEnabled = false }, false},
		{"enabled and past reset time", func(s *Settings) {
			s.AutoResetEnabled = true
			s.AutoResetTime = "06:00"
		}, true},
		{"before reset time", func(s *Settings) {
			s.AutoResetEnabled = true
			s.AutoResetTime = "07:00"
		}, false},
		{"already ran today", func(s *Settings) {
			s.AutoResetEnabled = true
			s.AutoResetTime = "06:00"
			s.LastAutoResetDate = "2026-09-01"
		}, false},
		{"ran yesterday", func(s *Settings) {
			s.AutoResetEnabled = true
			s.AutoResetTime = "06:00"
			s.LastAutoResetDate = "2026-08-31"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			if got := AutoResetDue(s, now); got != tt.want {
				t.Errorf("AutoResetDue() = %v, want %v", got, tt.want)
			}
		})
	}
}
