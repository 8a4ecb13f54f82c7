package store

import (
	"fmt"

	"github.com/hearthpoints/hearth/internal/domain"
	"github.com/hearthpoints/hearth/internal/infra/observability"
)

// ─── Ledger Operations ──────────────────────────────────────────────────────

// Task completions removed by a day reset. Only these codes reset; custom
// quick-add earns and system entries survive.
var resettableTaskCodes = map[string]bool{
	"BASE_MORNING": true, "BASE_AFTER_SCHOOL": true, "BASE_HOMEWORK": true,
	"BASE_READING": true, "BASE_TIDY": true,
	"EXTRA_DISHES": true, "EXTRA_TRASH": true, "EXTRA_LAUNDRY": true,
	"EXTRA_BATH_WIPE": true, "EXTRA_PREP": true, "EXTRA_PRACTICE": true,
	"EXTRA_KINDNESS": true, "EXTRA_COPING": true, "EXTRA_ACTIVE": true,
	"EXTRA_VAC_SWEEP": true,
}

func (s *Store) newEntry(childID string, typ domain.EntryType, code, label string, points int) domain.LedgerEntry {
	now := s.now()
	return domain.LedgerEntry{
		ID:        s.newID(),
		ChildID:   childID,
		Date:      domain.ToYMD(now),
		Timestamp: now,
		Type:      typ,
		Code:      code,
		Label:     label,
		Points:    points,
	}
}

// AddEarn records a positive point award. When verified is true the entry
// is born verified (a parent recorded it directly).
func (s *Store) AddEarn(childID, code, label string, points int, verified bool) error {
	err := s.apply(OpEarn, childID, func(st *State) error {
		e := s.newEntry(childID, domain.EntryEarn, code, label, points)
		if verified {
			v, at := true, e.Timestamp
			e.Verified, e.VerifiedAt = &v, &at
		}
		st.Ledger = append(st.Ledger, e)
		return nil
	})
	if err == nil {
		observability.LedgerEntriesTotal.WithLabelValues(string(domain.EntryEarn)).Inc()
	}
	return err
}

// CompleteTask records an earn for a configured task. Unknown codes are
// rejected so a typo cannot mint points.
func (s *Store) CompleteTask(childID, taskCode string) error {
	err := s.apply(OpEarn, childID, func(st *State) error {
		if _, ok := st.Household.ChildByID(childID); !ok {
			return domain.ErrChildNotFound
		}
		task, ok := st.settings().TaskByCode(taskCode)
		if !ok {
			return fmt.Errorf("unknown task code %q", taskCode)
		}
		st.Ledger = append(st.Ledger, s.newEntry(childID, domain.EntryEarn, task.Code, task.Label, task.Points))
		return nil
	})
	if err == nil {
		observability.LedgerEntriesTotal.WithLabelValues(string(domain.EntryEarn)).Inc()
	}
	return err
}

// AddSpend records a point spend. Points are stored negative regardless
// of the caller's sign.
func (s *Store) AddSpend(childID, code, label string, points int) error {
	err := s.apply(OpSpend, childID, func(st *State) error {
		st.Ledger = append(st.Ledger, s.newEntry(childID, domain.EntrySpend, code, label, -abs(points)))
		return nil
	})
	if err == nil {
		observability.LedgerEntriesTotal.WithLabelValues(string(domain.EntrySpend)).Inc()
	}
	return err
}

// AddDeduction records a penalty. Points are stored negative.
func (s *Store) AddDeduction(childID, code, label string, points int) error {
	err := s.apply(OpDeduction, childID, func(st *State) error {
		st.Ledger = append(st.Ledger, s.newEntry(childID, domain.EntryDeduction, code, label, -abs(points)))
		return nil
	})
	if err == nil {
		observability.LedgerEntriesTotal.WithLabelValues(string(domain.EntryDeduction)).Inc()
	}
	return err
}

// ApplyPresetDeduction records one of the household's configured
// deductions by code.
func (s *Store) ApplyPresetDeduction(childID, code string) error {
	err := s.apply(OpDeduction, childID, func(st *State) error {
		for _, d := range st.settings().Deductions {
			if d.Code == code {
				st.Ledger = append(st.Ledger, s.newEntry(childID, domain.EntryDeduction, d.Code, d.Label, -abs(d.Points)))
				return nil
			}
		}
		return fmt.Errorf("unknown deduction code %q", code)
	})
	if err == nil {
		observability.LedgerEntriesTotal.WithLabelValues(string(domain.EntryDeduction)).Inc()
	}
	return err
}

// AddLockout records a screen-time lockout. The reason doubles as the
// entry code; points may be zero.
func (s *Store) AddLockout(childID, reason string, points int) error {
	err := s.apply(OpLockout, childID, func(st *State) error {
		st.Ledger = append(st.Ledger, s.newEntry(childID, domain.EntryLockout, reason, "Lockout: "+reason, -abs(points)))
		return nil
	})
	if err == nil {
		observability.LedgerEntriesTotal.WithLabelValues(string(domain.EntryLockout)).Inc()
	}
	return err
}

// AddReset clears an active lockout with a zero-point reset marker.
func (s *Store) AddReset(childID string) error {
	err := s.apply(OpReset, childID, func(st *State) error {
		st.Ledger = append(st.Ledger, s.newEntry(childID, domain.EntryReset, domain.CodeReset, "Reset complete (Calm → Repair → Plan)", 0))
		return nil
	})
	if err == nil {
		observability.LedgerEntriesTotal.WithLabelValues(string(domain.EntryReset)).Inc()
	}
	return err
}

// AddTeamBonus awards the configured whole-family bonus to every child,
// at most once per day.
func (s *Store) AddTeamBonus() error {
	err := s.apply(OpBonus, "", func(st *State) error {
		if st.Household == nil {
			return domain.ErrNoHousehold
		}
		ymd := domain.ToYMD(s.now())
		if domain.TeamBonusGiven(st.Ledger, ymd) {
			return nil
		}
		points := st.settings().TeamBonusPoints
		for _, c := range st.Household.Children {
			st.Ledger = append(st.Ledger, s.newEntry(c.ID, domain.EntryBonus, domain.CodeTeamBonus, "Team bonus", points))
		}
		return nil
	})
	if err == nil {
		observability.LedgerEntriesTotal.WithLabelValues(string(domain.EntryBonus)).Inc()
	}
	return err
}

// RemoveLedger deletes an entry outright (the parent "undo"). Removing an
// unknown ID is a no-op.
func (s *Store) RemoveLedger(entryID string) error {
	err := s.apply(OpRemove, "", func(st *State) error {
		kept := st.Ledger[:0]
		for _, e := range st.Ledger {
			if e.ID != entryID {
				kept = append(kept, e)
			}
		}
		st.Ledger = kept
		return nil
	})
	if err == nil {
		observability.LedgerRemovals.Inc()
	}
	return err
}

// VerifyTask marks an earn entry as parent-verified. Unknown IDs are a
// no-op so a stale dashboard button cannot fail.
func (s *Store) VerifyTask(entryID string) error {
	return s.apply(OpVerify, "", func(st *State) error {
		for i := range st.Ledger {
			if st.Ledger[i].ID == entryID {
				v, at := true, s.now()
				st.Ledger[i].Verified = &v
				st.Ledger[i].VerifiedAt = &at
			}
		}
		return nil
	})
}

// MarkTaskIncomplete applies the accountability penalty to an earn entry:
// the original award shrinks by the penalty and a matching deduction is
// appended, so the ledger shows both the claim and the correction.
// Non-earn entries and unknown IDs are a no-op.
func (s *Store) MarkTaskIncomplete(entryID string) error {
	err := s.apply(OpIncomplete, "", func(st *State) error {
		for i := range st.Ledger {
			e := &st.Ledger[i]
			if e.ID != entryID || e.Type != domain.EntryEarn {
				continue
			}
			penalty := domain.IncompletePenalty(e.Points)
			v := false
			e.Verified = &v
			e.Points -= penalty
			st.Ledger = append(st.Ledger, s.newEntry(
				e.ChildID, domain.EntryDeduction, domain.CodePenalty,
				fmt.Sprintf("Incomplete task penalty (-%d)", penalty), -penalty))
			return nil
		}
		return nil
	})
	if err == nil {
		observability.LedgerEntriesTotal.WithLabelValues(string(domain.EntryDeduction)).Inc()
	}
	return err
}

// ResetTodayTasks removes today's task-completion earns so the day can be
// redone. An empty childID resets every child. Only the configured task
// codes are touched; quick-add earns, spends, and system entries survive.
func (s *Store) ResetTodayTasks(childID string) error {
	err := s.apply(OpTaskReset, childID, func(st *State) error {
		ymd := domain.ToYMD(s.now())
		kept := st.Ledger[:0]
		for _, e := range st.Ledger {
			drop := e.Date == ymd &&
				e.Type == domain.EntryEarn &&
				resettableTaskCodes[e.Code] &&
				(childID == "" || e.ChildID == childID)
			if !drop {
				kept = append(kept, e)
			}
		}
		st.Ledger = kept
		return nil
	})
	if err == nil {
		observability.TaskResets.Inc()
	}
	return err
}

// AutoCompleteYesterday verifies every earn from yesterday that was never
// reviewed, so unreviewed days settle in the child's favor.
func (s *Store) AutoCompleteYesterday() error {
	return s.apply(OpAutoComplete, "", func(st *State) error {
		if st.Household == nil {
			return domain.ErrNoHousehold
		}
		now := s.now()
		yesterday := domain.ToYMD(now.AddDate(0, 0, -1))
		for i := range st.Ledger {
			e := &st.Ledger[i]
			if e.Date == yesterday && e.Type == domain.EntryEarn && e.Verified == nil {
				v, at := true, now
				e.Verified = &v
				e.VerifiedAt = &at
			}
		}
		return nil
	})
}

// AutoBalancePoints rebalances configured task point values so each
// child's full week of tasks pays out their weekly cash cap.
func (s *Store) AutoBalancePoints() error {
	return s.apply(OpHousehold, "", func(st *State) error {
		if st.Household == nil {
			return domain.ErrNoHousehold
		}
		set := &st.Household.Settings
		set.BaselineTasks, set.ExtraTasks = domain.AutoBalanceTasks(st.Household.Children, *set)
		return nil
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
