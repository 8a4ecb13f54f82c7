package domain

import "time"

// ─── Pending Requests ───────────────────────────────────────────────────────
// A child's request for task verification, screen time, or a pause is a
// first-class record in its own collection, not a placeholder ledger
// entry. The payload (task code, requested minutes) travels as typed
// fields, so approval never parses codes or labels.

// RequestKind identifies what a pending request asks for.
type RequestKind string

const (
	RequestTask   RequestKind = "task"
	RequestScreen RequestKind = "screen"
	RequestPause  RequestKind = "pause"
)

// PendingRequest is a child's request awaiting a parent's decision.
// Requests are day-scoped: the parent dashboard only surfaces today's.
type PendingRequest struct {
	ID          string      `json:"id"`
	ChildID     string      `json:"child_id"`
	Kind        RequestKind `json:"kind"`
	TaskCode    string      `json:"task_code,omitempty"` // kind=task
	Minutes     int         `json:"minutes,omitempty"`   // kind=screen
	Label       string      `json:"label"`
	Date        string      `json:"date"` // local calendar day key
	RequestedAt time.Time   `json:"requested_at"`
}

// ─── Cash-Out Requests ──────────────────────────────────────────────────────

// CashOutStatus is the terminal-state lifecycle of a cash-out request.
type CashOutStatus string

const (
	CashOutPending  CashOutStatus = "pending"
	CashOutApproved CashOutStatus = "approved"
	CashOutRejected CashOutStatus = "rejected"
)

// CashOutRequest converts points to dollars, gated by parent approval.
// Processing is terminal: once approved or rejected there are no further
// transitions.
type CashOutRequest struct {
	ID          string        `json:"id"`
	ChildID     string        `json:"child_id"`
	ChildName   string        `json:"child_name"` // denormalized at creation
	Amount      int           `json:"amount"`     // dollars requested
	Points      int           `json:"points"`     // amount × pointsPerDollar at request time
	Status      CashOutStatus `json:"status"`
	RequestedAt time.Time     `json:"requested_at"`
	ProcessedAt *time.Time    `json:"processed_at,omitempty"`
	ProcessedBy string        `json:"processed_by,omitempty"`
}
