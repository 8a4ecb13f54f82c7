package store

import "github.com/hearthpoints/hearth/internal/domain"

// State is the whole application state: the single source of truth owned
// by the Store and serialized wholesale by the persistence adapter.
type State struct {
	Household *domain.Household                     `json:"household,omitempty"`
	Ledger    []domain.LedgerEntry                  `json:"ledger"`
	Sessions  map[string]*domain.ScreenTimeSession  `json:"screen_time_sessions"`
	Requests  []domain.PendingRequest               `json:"pending_requests"`
	CashOuts  []domain.CashOutRequest               `json:"cash_out_requests"`
}

// normalize repairs a freshly deserialized state: nil collections become
// empty ones and absent settings fields fall back to defaults, so an old
// or partial snapshot loads instead of crashing.
func (s *State) normalize() {
	if s.Ledger == nil {
		s.Ledger = []domain.LedgerEntry{}
	}
	if s.Sessions == nil {
		s.Sessions = map[string]*domain.ScreenTimeSession{}
	}
	if s.Requests == nil {
		s.Requests = []domain.PendingRequest{}
	}
	if s.CashOuts == nil {
		s.CashOuts = []domain.CashOutRequest{}
	}
	if s.Household != nil {
		normalizeSettings(&s.Household.Settings)
	}
}

func normalizeSettings(set *domain.Settings) {
	def := domain.DefaultSettings()
	if set.BlockMinutes == 0 {
		set.BlockMinutes = def.BlockMinutes
	}
	if set.PointPerMinute == 0 {
		set.PointPerMinute = def.PointPerMinute
	}
	if set.PointsPerDollar == 0 {
		set.PointsPerDollar = def.PointsPerDollar
	}
	if set.SchooldayCapMinutes == 0 {
		set.SchooldayCapMinutes = def.SchooldayCapMinutes
	}
	if set.WeekendCapMinutes == 0 {
		set.WeekendCapMinutes = def.WeekendCapMinutes
	}
	if set.AutoResetTime == "" {
		set.AutoResetTime = def.AutoResetTime
	}
}

// settings returns the household settings, or defaults when no household
// exists yet. Callers must hold the store lock.
func (s *State) settings() domain.Settings {
	if s.Household == nil {
		return domain.DefaultSettings()
	}
	return s.Household.Settings
}
