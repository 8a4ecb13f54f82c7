package store

import (
	"errors"
	"testing"
	"time"

	"github.com/hearthpoints/hearth/internal/domain"
)

func TestStartScreenTime(t *testing.T) {
	s, _, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.StartScreenTime(id, 30); err != nil {
		t.Fatalf("StartScreenTime: %v", err)
	}
	sess, ok := s.Session(id)
	if !ok {
		t.Fatal("expected a session")
	}
	if sess.TotalMinutes != 30 || sess.Status != domain.SessionRunning {
		t.Fatalf("session = %+v", sess)
	}
}

func TestStartScreenTime_Validation(t *testing.T) {
	s, _, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.StartScreenTime("ghost", 30); !errors.Is(err, domain.ErrChildNotFound) {
		t.Fatalf("error = %v, want ErrChildNotFound", err)
	}
	if err := s.StartScreenTime(id, 0); err == nil {
		t.Fatal("expected error for zero minutes")
	}
}

func TestPauseResume_AccountingExcludesPause(t *testing.T) {
	s, clock, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.StartScreenTime(id, 30); err != nil {
		t.Fatalf("StartScreenTime: %v", err)
	}

	clock.Advance(10 * time.Minute)
	if err := s.PauseScreenTime(id); err != nil {
		t.Fatalf("PauseScreenTime: %v", err)
	}

	clock.Advance(5 * time.Minute)
	if err := s.ResumeScreenTime(id); err != nil {
		t.Fatalf("ResumeScreenTime: %v", err)
	}

	clock.Advance(5 * time.Minute)
	sess, _ := s.Session(id)
	if got := sess.ElapsedMinutes(clock.Now()); got != 15 {
		t.Fatalf("elapsed = %d, want 15", got)
	}
	if got := sess.RemainingMinutes(clock.Now()); got != 15 {
		t.Fatalf("remaining = %d, want 15", got)
	}
}

func TestPauseResume_WrongStateIsNoop(t *testing.T) {
	s, _, _ := newTestStore(t)
	id := childID(t, s)

	// No session at all.
	if err := s.PauseScreenTime(id); err != nil {
		t.Fatalf("PauseScreenTime: %v", err)
	}
	if err := s.ResumeScreenTime(id); err != nil {
		t.Fatalf("ResumeScreenTime: %v", err)
	}

	if err := s.StartScreenTime(id, 30); err != nil {
		t.Fatalf("StartScreenTime: %v", err)
	}
	// Resuming a running session changes nothing.
	if err := s.ResumeScreenTime(id); err != nil {
		t.Fatalf("ResumeScreenTime: %v", err)
	}
	sess, _ := s.Session(id)
	if sess.Status != domain.SessionRunning || sess.TotalPaused != 0 {
		t.Fatalf("session = %+v", sess)
	}
}

func TestEndScreenTime_ChargesUsedMinutes(t *testing.T) {
	s, clock, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.AddEarn(id, "BASE_HOMEWORK", "Homework", 20, true); err != nil {
		t.Fatalf("AddEarn: %v", err)
	}
	if err := s.StartScreenTime(id, 30); err != nil {
		t.Fatalf("StartScreenTime: %v", err)
	}

	clock.Advance(12 * time.Minute)
	if err := s.EndScreenTime(id, false); err != nil {
		t.Fatalf("EndScreenTime: %v", err)
	}

	if _, ok := s.Session(id); ok {
		t.Fatal("session should be gone")
	}
	entries := s.LedgerFor(id)
	last := entries[len(entries)-1]
	if last.Code != domain.CodeScreenTimeUsed || last.Points != -12 {
		t.Fatalf("usage entry = %+v", last)
	}
	if last.Label != "Screen time used (12 min)" {
		t.Fatalf("usage label = %q", last.Label)
	}
	if got := s.Balance(id); got != 8 {
		t.Fatalf("balance = %d, want 8", got)
	}
}

func TestEndScreenTime_RefundsRemainder(t *testing.T) {
	s, clock, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.StartScreenTime(id, 30); err != nil {
		t.Fatalf("StartScreenTime: %v", err)
	}
	clock.Advance(10 * time.Minute)
	if err := s.EndScreenTime(id, true); err != nil {
		t.Fatalf("EndScreenTime: %v", err)
	}

	entries := s.LedgerFor(id)
	if len(entries) != 2 {
		t.Fatalf("ledger length = %d, want 2", len(entries))
	}
	refund := entries[1]
	if refund.Code != domain.CodeScreenRefund || refund.Points != 20 {
		t.Fatalf("refund entry = %+v", refund)
	}
	if refund.Label != "Screen time refund (20 min)" {
		t.Fatalf("refund label = %q", refund.Label)
	}
}

func TestEndScreenTime_ImmediateEndChargesNothing(t *testing.T) {
	s, _, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.StartScreenTime(id, 30); err != nil {
		t.Fatalf("StartScreenTime: %v", err)
	}
	// Ending inside the first minute records no usage entry.
	if err := s.EndScreenTime(id, false); err != nil {
		t.Fatalf("EndScreenTime: %v", err)
	}
	if got := len(s.LedgerFor(id)); got != 0 {
		t.Fatalf("ledger length = %d, want 0", got)
	}
}

func TestEndScreenTime_NoSessionIsNoop(t *testing.T) {
	s, _, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.EndScreenTime(id, true); err != nil {
		t.Fatalf("EndScreenTime: %v", err)
	}
	if got := len(s.LedgerFor(id)); got != 0 {
		t.Fatalf("ledger length = %d, want 0", got)
	}
}

func TestEndScreenTime_WhilePaused(t *testing.T) {
	s, clock, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.StartScreenTime(id, 30); err != nil {
		t.Fatalf("StartScreenTime: %v", err)
	}
	clock.Advance(8 * time.Minute)
	if err := s.PauseScreenTime(id); err != nil {
		t.Fatalf("PauseScreenTime: %v", err)
	}
	clock.Advance(20 * time.Minute)

	// The in-progress pause does not count as usage.
	if err := s.EndScreenTime(id, false); err != nil {
		t.Fatalf("EndScreenTime: %v", err)
	}
	entries := s.LedgerFor(id)
	if len(entries) != 1 || entries[0].Points != -8 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestSpentScreenMinutesToday_IncludesLiveSession(t *testing.T) {
	s, clock, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.AddSpend(id, domain.CodeScreenTimeUsed, "Screen time used (40 min)", 40); err != nil {
		t.Fatalf("AddSpend: %v", err)
	}
	if err := s.StartScreenTime(id, 30); err != nil {
		t.Fatalf("StartScreenTime: %v", err)
	}
	clock.Advance(10 * time.Minute)

	if got := s.SpentScreenMinutesToday(id); got != 50 {
		t.Fatalf("spent today = %d, want 50", got)
	}
}
