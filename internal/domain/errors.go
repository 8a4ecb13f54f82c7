package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. All are local,
// synchronous, user-facing conditions; nothing here is retriable.

var (
	// Balance errors
	ErrInsufficientBalance = errors.New("not enough points for this request")

	// Policy errors (advisory — the caller decides whether to block)
	ErrCapExceeded = errors.New("daily screen-time cap would be exceeded")
	ErrPastCutoff  = errors.New("block would end after the bedtime cut-off")

	// Missing entities
	ErrNoHousehold     = errors.New("no household configured")
	ErrChildNotFound   = errors.New("child not found")
	ErrEntryNotFound   = errors.New("ledger entry not found")
	ErrRequestNotFound = errors.New("request not found")
	ErrNoSession       = errors.New("no screen-time session for child")

	// Request lifecycle
	ErrRequestProcessed = errors.New("cash-out request already processed")
)
