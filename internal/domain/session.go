package domain

import "time"

// ─── Screen-Time Sessions ───────────────────────────────────────────────────

// SessionStatus is the lifecycle state of a screen-time session.
// "completed" is a display-only value derived when remaining time hits
// zero; the stored session is removed explicitly, never parked there.
type SessionStatus string

const (
	SessionRunning   SessionStatus = "running"
	SessionPaused    SessionStatus = "paused"
	SessionCompleted SessionStatus = "completed"
)

// ScreenTimeSession tracks one child's live screen-time grant. At most
// one session exists per child.
type ScreenTimeSession struct {
	ChildID      string        `json:"child_id"`
	TotalMinutes int           `json:"total_minutes"`
	StartTime    time.Time     `json:"start_time"`
	Status       SessionStatus `json:"status"`
	PausedAt     *time.Time    `json:"paused_at,omitempty"`
	// TotalPaused accumulates completed pause intervals only; an
	// in-progress pause is measured from PausedAt at query time.
	TotalPaused time.Duration `json:"total_paused"`
}

// ElapsedActive returns wall time minus every pause interval, including
// the in-progress one when the session is currently paused.
func (s *ScreenTimeSession) ElapsedActive(now time.Time) time.Duration {
	elapsed := now.Sub(s.StartTime)
	if s.Status == SessionPaused && s.PausedAt != nil {
		elapsed -= now.Sub(*s.PausedAt)
	}
	elapsed -= s.TotalPaused
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// ElapsedMinutes returns whole active minutes (floor).
func (s *ScreenTimeSession) ElapsedMinutes(now time.Time) int {
	return int(s.ElapsedActive(now) / time.Minute)
}

// RemainingSeconds is what a countdown display shows, floored at 0.
func (s *ScreenTimeSession) RemainingSeconds(now time.Time) int {
	remaining := s.TotalMinutes*60 - int(s.ElapsedActive(now)/time.Second)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingMinutes returns whole unexpired minutes of the grant.
func (s *ScreenTimeSession) RemainingMinutes(now time.Time) int {
	remaining := s.TotalMinutes - s.ElapsedMinutes(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// DisplayStatus maps the stored status to what a polling UI should show:
// a session whose time ran out reads as completed even though the record
// still exists until something ends it.
func (s *ScreenTimeSession) DisplayStatus(now time.Time) SessionStatus {
	if s.RemainingSeconds(now) == 0 {
		return SessionCompleted
	}
	return s.Status
}
