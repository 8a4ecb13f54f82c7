package store

import (
	"math/rand/v2"
	"strings"

	"github.com/hearthpoints/hearth/internal/domain"
	"github.com/hearthpoints/hearth/internal/infra/observability"
)

// ─── Household Operations ───────────────────────────────────────────────────

// ChildSpec is the input for creating a child.
type ChildSpec struct {
	Name          string
	Age           int
	WeeklyCashCap int
	BedSchool     string
	BedWeekend    string
}

func (s *Store) buildChild(spec ChildSpec) domain.Child {
	return domain.Child{
		ID:   s.newID(),
		Name: spec.Name,
		Age:  spec.Age,
		Bedtimes: domain.Bedtimes{
			School:  spec.BedSchool,
			Weekend: spec.BedWeekend,
		},
		Level:         1,
		WeeklyCashCap: spec.WeeklyCashCap,
		Goals:         []domain.Goal{},
	}
}

// CreateHousehold sets up the aggregate with default settings. The parent
// credential is optional; passwordHash must already be hashed.
func (s *Store) CreateHousehold(name string, kids []ChildSpec, parentUsername, parentPasswordHash string) error {
	return s.apply(OpHousehold, "", func(st *State) error {
		children := make([]domain.Child, 0, len(kids))
		for _, k := range kids {
			children = append(children, s.buildChild(k))
		}
		h := &domain.Household{
			ID:       s.newID(),
			Name:     name,
			Children: children,
			Settings: domain.DefaultSettings(),
		}
		if parentUsername != "" && parentPasswordHash != "" {
			h.ParentCredentials = &domain.ParentCredentials{
				Username:     parentUsername,
				PasswordHash: parentPasswordHash,
				CreatedAt:    s.now(),
			}
		}
		st.Household = h
		return nil
	})
}

// UpdateSettings applies an in-place mutation to the household settings.
func (s *Store) UpdateSettings(fn func(*domain.Settings)) error {
	return s.apply(OpHousehold, "", func(st *State) error {
		if st.Household == nil {
			return domain.ErrNoHousehold
		}
		fn(&st.Household.Settings)
		normalizeSettings(&st.Household.Settings)
		return nil
	})
}

// UpdateChild applies an in-place mutation to one child.
func (s *Store) UpdateChild(childID string, fn func(*domain.Child)) error {
	return s.apply(OpHousehold, childID, func(st *State) error {
		child, ok := st.Household.ChildByID(childID)
		if !ok {
			return domain.ErrChildNotFound
		}
		fn(child)
		return nil
	})
}

// AddChild appends a new child and returns its generated ID.
func (s *Store) AddChild(spec ChildSpec) (string, error) {
	var id string
	err := s.apply(OpHousehold, "", func(st *State) error {
		if st.Household == nil {
			return domain.ErrNoHousehold
		}
		child := s.buildChild(spec)
		id = child.ID
		st.Household.Children = append(st.Household.Children, child)
		return nil
	})
	return id, err
}

// DeleteChild removes a child and everything keyed to them: ledger
// entries, pending requests, cash-out requests, and any live session.
func (s *Store) DeleteChild(childID string) error {
	return s.apply(OpHousehold, childID, func(st *State) error {
		if st.Household == nil {
			return domain.ErrNoHousehold
		}
		kids := st.Household.Children[:0]
		for _, c := range st.Household.Children {
			if c.ID != childID {
				kids = append(kids, c)
			}
		}
		st.Household.Children = kids

		ledger := st.Ledger[:0]
		for _, e := range st.Ledger {
			if e.ChildID != childID {
				ledger = append(ledger, e)
			}
		}
		st.Ledger = ledger

		reqs := st.Requests[:0]
		for _, r := range st.Requests {
			if r.ChildID != childID {
				reqs = append(reqs, r)
			}
		}
		st.Requests = reqs

		cashouts := st.CashOuts[:0]
		for _, r := range st.CashOuts {
			if r.ChildID != childID {
				cashouts = append(cashouts, r)
			}
		}
		st.CashOuts = cashouts

		delete(st.Sessions, childID)
		return nil
	})
}

// ─── Goals ──────────────────────────────────────────────────────────────────

// AddGoal creates a savings goal for a child and returns its ID.
func (s *Store) AddGoal(childID, name string, targetDollars int) (string, error) {
	var id string
	err := s.UpdateChild(childID, func(c *domain.Child) {
		id = s.newID()
		c.Goals = append(c.Goals, domain.Goal{
			ID:           id,
			Name:         name,
			TargetAmount: targetDollars,
			CreatedDate:  domain.ToYMD(s.now()),
		})
	})
	return id, err
}

// UpdateGoal renames or retargets a goal. Unknown goal IDs are a no-op.
func (s *Store) UpdateGoal(childID, goalID, name string, targetDollars int) error {
	return s.UpdateChild(childID, func(c *domain.Child) {
		for i := range c.Goals {
			if c.Goals[i].ID == goalID {
				c.Goals[i].Name = name
				c.Goals[i].TargetAmount = targetDollars
			}
		}
	})
}

// DeleteGoal removes a goal. Unknown goal IDs are a no-op.
func (s *Store) DeleteGoal(childID, goalID string) error {
	return s.UpdateChild(childID, func(c *domain.Child) {
		kept := c.Goals[:0]
		for _, g := range c.Goals {
			if g.ID != goalID {
				kept = append(kept, g)
			}
		}
		c.Goals = kept
	})
}

// ─── Invite Codes & Scheduled Reset ─────────────────────────────────────────

const inviteAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateInviteCode returns a shareable NAME-XXXXXX code for a child.
// Codes are display tokens only; nothing stores or validates them.
func (s *Store) GenerateInviteCode(childID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	child, ok := s.state.Household.ChildByID(childID)
	if !ok {
		return "", domain.ErrChildNotFound
	}
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = inviteAlphabet[rand.IntN(len(inviteAlphabet))]
	}
	return strings.ToUpper(child.Name) + "-" + string(suffix), nil
}

// RunAutoResetIfDue fires the scheduled daily task reset when the
// configured time has passed and today's reset has not run. The check,
// the reset, and the date stamp happen in one transition so concurrent
// ticks cannot double-fire.
func (s *Store) RunAutoResetIfDue() (bool, error) {
	// Cheap read-only check first so an idle scheduler tick does not
	// persist and publish anything. The decision is re-made under the
	// write lock.
	s.mu.RLock()
	due := s.state.Household != nil && domain.AutoResetDue(s.state.Household.Settings, s.now())
	s.mu.RUnlock()
	if !due {
		return false, nil
	}

	fired := false
	err := s.apply(OpTaskReset, "", func(st *State) error {
		if st.Household == nil {
			return nil
		}
		now := s.now()
		if !domain.AutoResetDue(st.Household.Settings, now) {
			return nil
		}
		fired = true

		ymd := domain.ToYMD(now)
		kept := st.Ledger[:0]
		for _, e := range st.Ledger {
			drop := e.Date == ymd && e.Type == domain.EntryEarn && resettableTaskCodes[e.Code]
			if !drop {
				kept = append(kept, e)
			}
		}
		st.Ledger = kept
		st.Household.Settings.LastAutoResetDate = ymd
		return nil
	})
	if err == nil && fired {
		observability.TaskResets.Inc()
	}
	return fired, err
}
