package store

import (
	"sync"
	"time"
)

// ─── Mutation Events ────────────────────────────────────────────────────────

// Operation names carried on events. Subscribers that only care that
// something changed can ignore Op entirely.
const (
	OpEarn           = "ledger.earn"
	OpSpend          = "ledger.spend"
	OpDeduction      = "ledger.deduction"
	OpBonus          = "ledger.bonus"
	OpLockout        = "ledger.lockout"
	OpReset          = "ledger.reset"
	OpRemove         = "ledger.remove"
	OpVerify         = "ledger.verify"
	OpIncomplete     = "ledger.incomplete"
	OpTaskReset      = "tasks.reset"
	OpAutoComplete   = "tasks.autocomplete"
	OpSessionStart   = "session.start"
	OpSessionPause   = "session.pause"
	OpSessionResume  = "session.resume"
	OpSessionEnd     = "session.end"
	OpRequestCreate  = "request.create"
	OpRequestApprove = "request.approve"
	OpRequestDeny    = "request.deny"
	OpCashOutCreate  = "cashout.create"
	OpCashOutProcess = "cashout.process"
	OpHousehold      = "household.update"
	OpSync           = "state.sync"
)

// Event describes one completed state transition.
type Event struct {
	Op      string
	ChildID string
	At      time.Time
}

// Hub fans mutation events out to subscribers. Delivery is best-effort:
// a subscriber that is not draining its channel misses events rather
// than blocking writers.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: map[int]chan Event{}}
}

// Subscribe registers a listener. The returned cancel func must be
// called when done; it closes the channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan Event, 16)
	h.subs[id] = ch
	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
}

// Publish delivers the event to every subscriber with room.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
