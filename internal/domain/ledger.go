package domain

import (
	"strings"
	"time"
)

// ─── Ledger Types ───────────────────────────────────────────────────────────

// EntryType classifies a ledger entry by its business cause.
type EntryType string

const (
	EntryEarn      EntryType = "earn"
	EntrySpend     EntryType = "spend"
	EntryDeduction EntryType = "deduction"
	EntryBonus     EntryType = "bonus"
	EntryLockout   EntryType = "lockout"
	EntryReset     EntryType = "reset"
	EntryCashOut   EntryType = "cashout"
)

// Well-known transaction codes. Task completions carry the task's own code.
const (
	CodeScreenTimeUsed = "SCREEN_TIME_USED"
	CodeScreenRefund   = "SCREEN_REFUND"
	CodeScreenApproved = "SCREEN_APPROVED"
	CodeCashOut        = "CASH_OUT"
	CodeReset          = "RESET"
	CodeTeamBonus      = "TEAM_BONUS"
	CodePenalty        = "ACCOUNTABILITY_PENALTY"
)

// LedgerEntry is a single signed point transaction — an immutable fact.
// The only permitted in-place mutations are setting the verification
// fields and the incomplete-task penalty, which also shrinks Points.
type LedgerEntry struct {
	ID         string     `json:"id"`
	ChildID    string     `json:"child_id"`
	Date       string     `json:"date"` // local calendar day key (YYYY-MM-DD)
	Timestamp  time.Time  `json:"timestamp"`
	Type       EntryType  `json:"type"`
	Code       string     `json:"code"`
	Label      string     `json:"label"`
	Points     int        `json:"points"` // signed; callers negate for spends
	Verified   *bool      `json:"verified,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

// ─── Balance & Day-Scoped Queries ───────────────────────────────────────────

// CalcBalance sums the signed points of every surviving entry for a child.
// This is the sole source of truth for "current points".
func CalcBalance(ledger []LedgerEntry, childID string) int {
	var sum int
	for _, e := range ledger {
		if e.ChildID == childID {
			sum += e.Points
		}
	}
	return sum
}

// ExtrasEarnedOnDate sums points from extra-task earns on a given day.
func ExtrasEarnedOnDate(ledger []LedgerEntry, childID, ymd string) int {
	var sum int
	for _, e := range ledger {
		if e.ChildID == childID && e.Date == ymd && e.Type == EntryEarn && strings.HasPrefix(e.Code, "EXTRA_") {
			sum += e.Points
		}
	}
	return sum
}

// BaselineDone reports whether a task code was recorded on a given day.
func BaselineDone(ledger []LedgerEntry, childID, ymd, code string) bool {
	for _, e := range ledger {
		if e.ChildID == childID && e.Date == ymd && e.Code == code {
			return true
		}
	}
	return false
}

// SpentScreenMinutes sums the minutes recorded by ended screen-time
// sessions on a given day. One point equals one minute, so the minutes
// are the absolute points of the SCREEN_TIME_USED spend entries.
func SpentScreenMinutes(ledger []LedgerEntry, childID, ymd string) int {
	var minutes int
	for _, e := range ledger {
		if e.ChildID == childID && e.Date == ymd && e.Type == EntrySpend && e.Code == CodeScreenTimeUsed {
			if e.Points < 0 {
				minutes += -e.Points
			} else {
				minutes += e.Points
			}
		}
	}
	return minutes
}

// TeamBonusGiven reports whether the whole-family bonus was awarded on a day.
func TeamBonusGiven(ledger []LedgerEntry, ymd string) bool {
	for _, e := range ledger {
		if e.Date == ymd && e.Code == CodeTeamBonus {
			return true
		}
	}
	return false
}

// LockoutActiveToday reports whether the child's most recent lockout on
// the given day has not been cleared by a later reset entry.
func LockoutActiveToday(ledger []LedgerEntry, childID, ymd string) bool {
	var lastLock, lastReset *LedgerEntry
	for i := range ledger {
		e := &ledger[i]
		if e.ChildID != childID || e.Date != ymd {
			continue
		}
		switch e.Type {
		case EntryLockout:
			lastLock = e
		case EntryReset:
			lastReset = e
		}
	}
	if lastLock == nil {
		return false
	}
	if lastReset == nil {
		return true
	}
	return lastReset.Timestamp.Before(lastLock.Timestamp)
}

// GreenDay reports whether the child ended the day without an uncleared lockout.
func GreenDay(ledger []LedgerEntry, childID, ymd string) bool {
	return !LockoutActiveToday(ledger, childID, ymd)
}

// IncompletePenalty is the point penalty applied when a parent marks an
// earned task as not actually done: 30% of the award, minimum 3 points.
func IncompletePenalty(points int) int {
	p := points * 3 / 10
	if p < 3 {
		return 3
	}
	return p
}
