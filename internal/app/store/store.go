// Package store owns the whole application state: the point ledger, the
// screen-time session map, pending requests, cash-out requests, and the
// household aggregate. Every public operation is one atomic state
// transition under a single lock — validation happens before any
// mutation, and a mutation that starts always completes. After each
// mutation the serialized snapshot is handed to the persistence adapter
// and an event is published to subscribers.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hearthpoints/hearth/internal/domain"
	"github.com/hearthpoints/hearth/internal/infra/observability"
)

// Persister receives the serialized whole-state snapshot after every
// mutation. Writes are fire-and-forget: a failed save is logged, never
// surfaced to the caller.
type Persister interface {
	Save(payload []byte) error
}

// Store is the single-writer state container.
type Store struct {
	mu      sync.RWMutex
	state   State
	persist Persister
	now     func() time.Time
	newID   func() string
	log     zerolog.Logger
	hub     *Hub
}

// Option configures a Store.
type Option func(*Store)

// WithPersister sets the snapshot sink.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persist = p }
}

// WithClock overrides the wall clock (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs overrides ID generation (tests).
func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		state: State{
			Ledger:   []domain.LedgerEntry{},
			Sessions: map[string]*domain.ScreenTimeSession{},
			Requests: []domain.PendingRequest{},
			CashOuts: []domain.CashOutRequest{},
		},
		now:   time.Now,
		newID: defaultNewID,
		log:   zerolog.Nop(),
		hub:   NewHub(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load creates a store from a persisted snapshot. A nil or empty payload
// yields an empty store; missing optional fields are defaulted.
func Load(payload []byte, opts ...Option) (*Store, error) {
	s := New(opts...)
	if len(payload) == 0 {
		return s, nil
	}
	var st State
	if err := json.Unmarshal(payload, &st); err != nil {
		return nil, fmt.Errorf("decode state snapshot: %w", err)
	}
	st.normalize()
	s.state = st
	return s, nil
}

// Events returns the mutation event hub.
func (s *Store) Events() *Hub { return s.hub }

// ─── Mutation Plumbing ──────────────────────────────────────────────────────

// apply runs one atomic state transition. fn validates and mutates; when
// it returns an error nothing is persisted or published.
func (s *Store) apply(op, childID string, fn func(*State) error) error {
	s.mu.Lock()
	err := fn(&s.state)
	var snapshot []byte
	if err == nil {
		snapshot, _ = json.Marshal(&s.state)
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}

	s.persistSnapshot(snapshot)
	s.hub.Publish(Event{Op: op, ChildID: childID, At: s.now()})
	return nil
}

func (s *Store) persistSnapshot(snapshot []byte) {
	if s.persist == nil {
		return
	}
	if err := s.persist.Save(snapshot); err != nil {
		observability.SnapshotSaveErrors.Inc()
		s.log.Error().Err(err).Msg("state snapshot save failed")
		return
	}
	observability.SnapshotSaves.Inc()
}

// Snapshot returns the serialized whole state.
func (s *Store) Snapshot() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, _ := json.Marshal(&s.state)
	return snapshot
}

// Replace swaps in a snapshot written by another process (the cross-tab
// sync path). When the payload is semantically identical to the current
// state it is a no-op. The replacement itself is not re-persisted.
func (s *Store) Replace(payload []byte) error {
	var incoming State
	if err := json.Unmarshal(payload, &incoming); err != nil {
		return fmt.Errorf("decode incoming snapshot: %w", err)
	}
	incoming.normalize()

	s.mu.Lock()
	current, _ := json.Marshal(&s.state)
	normalized, _ := json.Marshal(&incoming)
	if bytes.Equal(current, normalized) {
		s.mu.Unlock()
		return nil
	}
	s.state = incoming
	s.mu.Unlock()

	observability.SnapshotReplacements.Inc()
	observability.ActiveSessions.Set(float64(len(incoming.Sessions)))
	s.log.Debug().Msg("state replaced from external snapshot")
	s.hub.Publish(Event{Op: OpSync, At: s.now()})
	return nil
}

// ─── Read Accessors ─────────────────────────────────────────────────────────

// Balance returns the child's current point balance.
func (s *Store) Balance(childID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CalcBalance(s.state.Ledger, childID)
}

// Ledger returns a copy of all ledger entries.
func (s *Store) Ledger() []domain.LedgerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LedgerEntry, len(s.state.Ledger))
	copy(out, s.state.Ledger)
	return out
}

// LedgerFor returns a copy of one child's ledger entries.
func (s *Store) LedgerFor(childID string) []domain.LedgerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.LedgerEntry
	for _, e := range s.state.Ledger {
		if e.ChildID == childID {
			out = append(out, e)
		}
	}
	return out
}

// Household returns a copy of the household aggregate, or ErrNoHousehold.
func (s *Store) Household() (domain.Household, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Household == nil {
		return domain.Household{}, domain.ErrNoHousehold
	}
	return *s.state.Household, nil
}

// Settings returns the active settings (defaults when no household).
func (s *Store) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.settings()
}

// Session returns a copy of the child's live session.
func (s *Store) Session(childID string) (domain.ScreenTimeSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.state.Sessions[childID]
	if !ok {
		return domain.ScreenTimeSession{}, false
	}
	return *sess, true
}

// SpentScreenMinutesToday combines ledger usage with the live session's
// elapsed minutes for today's policy checks.
func (s *Store) SpentScreenMinutesToday(childID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	ymd := domain.ToYMD(now)
	spent := domain.SpentScreenMinutes(s.state.Ledger, childID, ymd)
	if sess, ok := s.state.Sessions[childID]; ok && domain.ToYMD(sess.StartTime) == ymd {
		elapsed := sess.ElapsedMinutes(now)
		if elapsed > sess.TotalMinutes {
			elapsed = sess.TotalMinutes
		}
		spent += elapsed
	}
	return spent
}

func defaultNewID() string {
	return uuid.NewString()
}
