package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hearthpoints/hearth/internal/domain"
)

// ─── Test Fixtures ──────────────────────────────────────────────────────────

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type memPersister struct {
	saves [][]byte
}

func (p *memPersister) Save(payload []byte) error {
	p.saves = append(p.saves, payload)
	return nil
}

// newTestStore builds a store with a deterministic clock, sequential IDs,
// an in-memory persister, and a household with one child.
func newTestStore(t *testing.T) (*Store, *fakeClock, *memPersister) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)} // Monday
	persister := &memPersister{}
	var seq int
	s := New(
		WithClock(clock.Now),
		WithPersister(persister),
		WithIDs(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	)
	err := s.CreateHousehold("Test Family", []ChildSpec{
		{Name: "Ada", Age: 11, WeeklyCashCap: 7, BedSchool: "21:00", BedWeekend: "22:00"},
	}, "", "")
	if err != nil {
		t.Fatalf("CreateHousehold: %v", err)
	}
	return s, clock, persister
}

func childID(t *testing.T, s *Store) string {
	t.Helper()
	h, err := s.Household()
	if err != nil {
		t.Fatalf("Household: %v", err)
	}
	if len(h.Children) == 0 {
		t.Fatal("no children in household")
	}
	return h.Children[0].ID
}

// ─── Load / Replace ─────────────────────────────────────────────────────────

func TestLoad_EmptyPayload(t *testing.T) {
	s, err := Load(nil)
	if err != nil {
		t.Fatalf("Load(nil): %v", err)
	}
	if _, err := s.Household(); !errors.Is(err, domain.ErrNoHousehold) {
		t.Fatalf("Household error = %v, want ErrNoHousehold", err)
	}
	if got := len(s.Ledger()); got != 0 {
		t.Fatalf("ledger length = %d, want 0", got)
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	s, _, _ := newTestStore(t)
	id := childID(t, s)
	if err := s.AddEarn(id, "BASE_TIDY", "10-minute tidy", 5, true); err != nil {
		t.Fatalf("AddEarn: %v", err)
	}

	loaded, err := Load(s.Snapshot())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := loaded.Balance(id); got != 5 {
		t.Fatalf("balance after round trip = %d, want 5", got)
	}
	h, err := loaded.Household()
	if err != nil {
		t.Fatalf("Household: %v", err)
	}
	if h.Name != "Test Family" {
		t.Fatalf("household name = %q", h.Name)
	}
}

func TestLoad_BadPayload(t *testing.T) {
	if _, err := Load([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestReplace_IdenticalSnapshotIsNoop(t *testing.T) {
	s, _, _ := newTestStore(t)
	events, cancel := s.Events().Subscribe()
	defer cancel()

	if err := s.Replace(s.Snapshot()); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	select {
	case ev := <-events:
		t.Fatalf("unexpected event %q for identical snapshot", ev.Op)
	default:
	}
}

func TestReplace_SwapsStateWholesale(t *testing.T) {
	s, _, _ := newTestStore(t)

	other, _, _ := newTestStore(t)
	otherID := childID(t, other)
	if err := other.AddEarn(otherID, "BASE_HOMEWORK", "Homework complete", 20, true); err != nil {
		t.Fatalf("AddEarn: %v", err)
	}

	events, cancel := s.Events().Subscribe()
	defer cancel()

	if err := s.Replace(other.Snapshot()); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got := s.Balance(otherID); got != 20 {
		t.Fatalf("balance after replace = %d, want 20", got)
	}
	select {
	case ev := <-events:
		if ev.Op != OpSync {
			t.Fatalf("event op = %q, want %q", ev.Op, OpSync)
		}
	default:
		t.Fatal("expected a sync event after replace")
	}
}

func TestMutationPersistsSnapshot(t *testing.T) {
	s, _, persister := newTestStore(t)
	id := childID(t, s)
	before := len(persister.saves)

	if err := s.AddEarn(id, "BASE_TIDY", "10-minute tidy", 5, false); err != nil {
		t.Fatalf("AddEarn: %v", err)
	}
	if len(persister.saves) != before+1 {
		t.Fatalf("saves = %d, want %d", len(persister.saves), before+1)
	}

	var st State
	if err := json.Unmarshal(persister.saves[len(persister.saves)-1], &st); err != nil {
		t.Fatalf("unmarshal saved snapshot: %v", err)
	}
	if len(st.Ledger) != 1 {
		t.Fatalf("persisted ledger length = %d, want 1", len(st.Ledger))
	}
}

func TestFailedOperationPersistsNothing(t *testing.T) {
	s, _, persister := newTestStore(t)
	before := len(persister.saves)

	err := s.CompleteTask("no-such-child", "BASE_TIDY")
	if !errors.Is(err, domain.ErrChildNotFound) {
		t.Fatalf("error = %v, want ErrChildNotFound", err)
	}
	if len(persister.saves) != before {
		t.Fatalf("saves = %d, want unchanged %d", len(persister.saves), before)
	}
}
