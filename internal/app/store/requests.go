package store

import (
	"fmt"

	"github.com/hearthpoints/hearth/internal/domain"
	"github.com/hearthpoints/hearth/internal/infra/observability"
)

// ─── Pending Requests ───────────────────────────────────────────────────────
// Child requests live in their own collection with typed payloads. The
// award happens exactly once, at approval; creating or denying a request
// never touches the ledger.

// Points awarded when an approved task request names a code that has
// since been removed from settings.
const fallbackTaskPoints = 10

func (s *Store) addRequest(childID string, build func(st *State, req *domain.PendingRequest) error) error {
	var kind domain.RequestKind
	err := s.apply(OpRequestCreate, childID, func(st *State) error {
		if _, ok := st.Household.ChildByID(childID); !ok {
			return domain.ErrChildNotFound
		}
		now := s.now()
		req := domain.PendingRequest{
			ID:          s.newID(),
			ChildID:     childID,
			Date:        domain.ToYMD(now),
			RequestedAt: now,
		}
		if err := build(st, &req); err != nil {
			return err
		}
		kind = req.Kind
		st.Requests = append(st.Requests, req)
		return nil
	})
	if err == nil {
		observability.RequestsCreated.WithLabelValues(string(kind)).Inc()
	}
	return err
}

// RequestTaskCompletion records a child's claim that a task is done,
// awaiting parent verification.
func (s *Store) RequestTaskCompletion(childID, taskCode string) error {
	return s.addRequest(childID, func(st *State, req *domain.PendingRequest) error {
		label := taskCode
		if task, ok := st.settings().TaskByCode(taskCode); ok {
			label = task.Label
		}
		req.Kind = domain.RequestTask
		req.TaskCode = taskCode
		req.Label = "Request: " + label
		return nil
	})
}

// RequestScreenTime records a child's ask for a screen-time block. The
// child must already hold enough points to cover the cost; the deduction
// itself waits for approval.
func (s *Store) RequestScreenTime(childID string, minutes int) error {
	return s.addRequest(childID, func(st *State, req *domain.PendingRequest) error {
		if minutes <= 0 {
			return fmt.Errorf("requested minutes must be positive, got %d", minutes)
		}
		cost := minutes * st.settings().PointPerMinute
		if domain.CalcBalance(st.Ledger, childID) < cost {
			return domain.ErrInsufficientBalance
		}
		req.Kind = domain.RequestScreen
		req.Minutes = minutes
		req.Label = fmt.Sprintf("Screen time request: %dm", minutes)
		return nil
	})
}

// RequestPause records a child's ask to pause their running session.
func (s *Store) RequestPause(childID string) error {
	return s.addRequest(childID, func(st *State, req *domain.PendingRequest) error {
		if _, ok := st.Sessions[childID]; !ok {
			return domain.ErrNoSession
		}
		req.Kind = domain.RequestPause
		req.Label = "Pause request"
		return nil
	})
}

// PendingRequests returns a copy of the requests made on the given day
// (the parent dashboard only surfaces today's).
func (s *Store) PendingRequests(ymd string) []domain.PendingRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.PendingRequest
	for _, r := range s.state.Requests {
		if r.Date == ymd {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) takeRequest(st *State, requestID string) (domain.PendingRequest, error) {
	for i, r := range st.Requests {
		if r.ID == requestID {
			st.Requests = append(st.Requests[:i], st.Requests[i+1:]...)
			return r, nil
		}
	}
	return domain.PendingRequest{}, domain.ErrRequestNotFound
}

// ApproveRequest resolves a pending request in the child's favor: task
// requests award the task's configured points as a verified earn, screen
// requests charge the cost and start the session, pause requests pause
// it. The request is consumed, so a double-click cannot award twice.
func (s *Store) ApproveRequest(requestID string) error {
	var kind domain.RequestKind
	err := s.apply(OpRequestApprove, "", func(st *State) error {
		req, err := s.takeRequest(st, requestID)
		if err != nil {
			return err
		}
		kind = req.Kind

		switch req.Kind {
		case domain.RequestTask:
			points := fallbackTaskPoints
			label := req.TaskCode
			if task, ok := st.settings().TaskByCode(req.TaskCode); ok {
				points = task.Points
				label = task.Label
			}
			e := s.newEntry(req.ChildID, domain.EntryEarn, req.TaskCode, label, points)
			v, at := true, e.Timestamp
			e.Verified, e.VerifiedAt = &v, &at
			st.Ledger = append(st.Ledger, e)

		case domain.RequestScreen:
			cost := req.Minutes * st.settings().PointPerMinute
			st.Ledger = append(st.Ledger, s.newEntry(
				req.ChildID, domain.EntrySpend, domain.CodeScreenApproved,
				"Approved: "+req.Label, -cost))
			st.Sessions[req.ChildID] = &domain.ScreenTimeSession{
				ChildID:      req.ChildID,
				TotalMinutes: req.Minutes,
				StartTime:    s.now(),
				Status:       domain.SessionRunning,
			}

		case domain.RequestPause:
			if sess, ok := st.Sessions[req.ChildID]; ok && sess.Status == domain.SessionRunning {
				now := s.now()
				sess.Status = domain.SessionPaused
				sess.PausedAt = &now
			}
		}
		return nil
	})
	if err == nil {
		observability.RequestsResolved.WithLabelValues(string(kind), "approved").Inc()
		if kind == domain.RequestScreen {
			observability.SessionsStarted.Inc()
			s.bumpActiveSessions()
		}
	}
	return err
}

// DenyRequest discards a pending request without touching the ledger.
func (s *Store) DenyRequest(requestID string) error {
	var kind domain.RequestKind
	err := s.apply(OpRequestDeny, "", func(st *State) error {
		req, err := s.takeRequest(st, requestID)
		if err != nil {
			return err
		}
		kind = req.Kind
		return nil
	})
	if err == nil {
		observability.RequestsResolved.WithLabelValues(string(kind), "denied").Inc()
	}
	return err
}

// ─── Cash-Out Requests ──────────────────────────────────────────────────────

// RequestCashOut records a child's ask to convert points into dollars.
// The point cost is fixed at request time and must be covered by the
// current balance.
func (s *Store) RequestCashOut(childID string, dollars int) error {
	err := s.apply(OpCashOutCreate, childID, func(st *State) error {
		child, ok := st.Household.ChildByID(childID)
		if !ok {
			return domain.ErrChildNotFound
		}
		if dollars <= 0 {
			return fmt.Errorf("cash-out amount must be positive, got $%d", dollars)
		}
		points := domain.DollarsToPoints(dollars, st.settings())
		if domain.CalcBalance(st.Ledger, childID) < points {
			return domain.ErrInsufficientBalance
		}
		st.CashOuts = append(st.CashOuts, domain.CashOutRequest{
			ID:          s.newID(),
			ChildID:     childID,
			ChildName:   child.Name,
			Amount:      dollars,
			Points:      points,
			Status:      domain.CashOutPending,
			RequestedAt: s.now(),
		})
		return nil
	})
	if err == nil {
		observability.RequestsCreated.WithLabelValues("cashout").Inc()
	}
	return err
}

// CashOutRequests returns a copy of all cash-out requests, newest last.
func (s *Store) CashOutRequests() []domain.CashOutRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CashOutRequest, len(s.state.CashOuts))
	copy(out, s.state.CashOuts)
	return out
}

// ProcessCashOut settles a pending cash-out. Approval deducts the points
// fixed at request time; rejection just closes the request. Both are
// terminal, so processing twice fails rather than double-charging.
func (s *Store) ProcessCashOut(requestID string, approved bool, processedBy string) error {
	outcome := "rejected"
	if approved {
		outcome = "approved"
	}
	err := s.apply(OpCashOutProcess, "", func(st *State) error {
		for i := range st.CashOuts {
			req := &st.CashOuts[i]
			if req.ID != requestID {
				continue
			}
			if req.Status != domain.CashOutPending {
				return domain.ErrRequestProcessed
			}
			now := s.now()
			req.ProcessedAt = &now
			req.ProcessedBy = processedBy
			if !approved {
				req.Status = domain.CashOutRejected
				return nil
			}
			req.Status = domain.CashOutApproved
			st.Ledger = append(st.Ledger, s.newEntry(
				req.ChildID, domain.EntryCashOut, domain.CodeCashOut,
				fmt.Sprintf("Cash-out $%d", req.Amount), -req.Points))
			return nil
		}
		return domain.ErrRequestNotFound
	})
	if err == nil {
		observability.CashOutsProcessed.WithLabelValues(outcome).Inc()
	}
	return err
}
