package store

import (
	"fmt"

	"github.com/hearthpoints/hearth/internal/domain"
	"github.com/hearthpoints/hearth/internal/infra/observability"
)

// ─── Screen-Time Session Operations ─────────────────────────────────────────

// StartScreenTime opens a running session for the child. An existing
// session is replaced; the pre-flight policy check lives in the caller
// because parents can always override it.
func (s *Store) StartScreenTime(childID string, minutes int) error {
	err := s.apply(OpSessionStart, childID, func(st *State) error {
		if _, ok := st.Household.ChildByID(childID); !ok {
			return domain.ErrChildNotFound
		}
		if minutes <= 0 {
			return fmt.Errorf("session minutes must be positive, got %d", minutes)
		}
		st.Sessions[childID] = &domain.ScreenTimeSession{
			ChildID:      childID,
			TotalMinutes: minutes,
			StartTime:    s.now(),
			Status:       domain.SessionRunning,
		}
		return nil
	})
	if err == nil {
		observability.SessionsStarted.Inc()
		s.bumpActiveSessions()
	}
	return err
}

// PauseScreenTime freezes a running session. Anything other than a
// running session is a no-op.
func (s *Store) PauseScreenTime(childID string) error {
	return s.apply(OpSessionPause, childID, func(st *State) error {
		sess, ok := st.Sessions[childID]
		if !ok || sess.Status != domain.SessionRunning {
			return nil
		}
		now := s.now()
		sess.Status = domain.SessionPaused
		sess.PausedAt = &now
		return nil
	})
}

// ResumeScreenTime folds the finished pause interval into the session's
// paused total and sets it running again. Non-paused sessions are a no-op.
func (s *Store) ResumeScreenTime(childID string) error {
	return s.apply(OpSessionResume, childID, func(st *State) error {
		sess, ok := st.Sessions[childID]
		if !ok || sess.Status != domain.SessionPaused {
			return nil
		}
		if sess.PausedAt != nil {
			sess.TotalPaused += s.now().Sub(*sess.PausedAt)
		}
		sess.Status = domain.SessionRunning
		sess.PausedAt = nil
		return nil
	})
}

// EndScreenTime closes the child's session: the active minutes actually
// used are charged to the ledger, and when refund is set the unexpired
// minutes are credited back. Ending a child with no session is a no-op.
func (s *Store) EndScreenTime(childID string, refund bool) error {
	var hadSession bool
	err := s.apply(OpSessionEnd, childID, func(st *State) error {
		sess, ok := st.Sessions[childID]
		if !ok {
			return nil
		}
		hadSession = true

		now := s.now()
		used := sess.ElapsedMinutes(now)
		remaining := sess.TotalMinutes - used
		if remaining < 0 {
			remaining = 0
		}

		if used > 0 {
			st.Ledger = append(st.Ledger, s.newEntry(
				childID, domain.EntrySpend, domain.CodeScreenTimeUsed,
				fmt.Sprintf("Screen time used (%d min)", used), -used))
		}
		if refund && remaining > 0 {
			points := remaining * st.settings().PointPerMinute
			st.Ledger = append(st.Ledger, s.newEntry(
				childID, domain.EntryEarn, domain.CodeScreenRefund,
				fmt.Sprintf("Screen time refund (%d min)", remaining), points))
		}
		delete(st.Sessions, childID)
		return nil
	})
	if err == nil && hadSession {
		observability.SessionsEnded.Inc()
		s.bumpActiveSessions()
	}
	return err
}

func (s *Store) bumpActiveSessions() {
	s.mu.RLock()
	n := len(s.state.Sessions)
	s.mu.RUnlock()
	observability.ActiveSessions.Set(float64(n))
}
