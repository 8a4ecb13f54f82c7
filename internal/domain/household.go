package domain

import "time"

// ─── Household & Settings ───────────────────────────────────────────────────

// TaskCategory separates daily expectations from optional extras.
type TaskCategory string

const (
	TaskBaseline TaskCategory = "baseline"
	TaskExtra    TaskCategory = "extra"
)

// Difficulty weights task point values 1:2:3 when auto-balancing.
type Difficulty string

const (
	DifficultyLow    Difficulty = "low"
	DifficultyMedium Difficulty = "medium"
	DifficultyHigh   Difficulty = "high"
)

// TaskDef is a configured task a child can complete for points.
type TaskDef struct {
	ID         string       `json:"id"`
	Code       string       `json:"code"`
	Label      string       `json:"label"`
	Points     int          `json:"points"`
	Category   TaskCategory `json:"category"`
	Difficulty Difficulty   `json:"difficulty,omitempty"`
	AgeMin     int          `json:"age_min,omitempty"`
	ChildID    string       `json:"child_id,omitempty"` // empty = shared task
}

// DeductionDef is a preset point penalty parents can apply.
type DeductionDef struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Points int    `json:"points"` // negative
}

// Bedtimes holds "HH:MM" cut-offs for school nights and weekends.
type Bedtimes struct {
	School  string `json:"school"`
	Weekend string `json:"weekend"`
}

// Goal is a child's savings target. Progress is derived from balance at
// display time; goals never affect the ledger.
type Goal struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	TargetAmount int    `json:"target_amount"` // dollars
	CreatedDate  string `json:"created_date,omitempty"`
}

// Child is one member of the household earning and spending points.
type Child struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Age           int      `json:"age"`
	Bedtimes      Bedtimes `json:"bedtimes"`
	Level         int      `json:"level"`
	StarsThisWeek int      `json:"stars_this_week"`
	WeeklyCashCap int      `json:"weekly_cash_cap"` // dollars
	Goals         []Goal   `json:"goals,omitempty"`
}

// ParentCredentials is the locally stored parent login. The password is
// stored as a bcrypt hash, never in the clear.
type ParentCredentials struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Settings is the household configuration read by policy checks and the
// ledger/session operations. Mutated only through the store's hooks.
type Settings struct {
	BlockMinutes          int    `json:"block_minutes"`
	PointPerMinute        int    `json:"point_per_minute"`
	PointsPerDollar       int    `json:"points_per_dollar"`
	SchooldayCapMinutes   int    `json:"schoolday_cap_minutes"`
	WeekendCapMinutes     int    `json:"weekend_cap_minutes"`
	NoScreenBufferMinutes int    `json:"no_screen_buffer_minutes"`
	TeamBonusPoints       int    `json:"team_bonus_points"`
	ExtrasCapSchool       int    `json:"extras_cap_school"`
	ExtrasCapWeekend      int    `json:"extras_cap_weekend"`
	BankDay               int    `json:"bank_day"` // 0=Sunday
	Timezone              string `json:"timezone"`
	AutoBalanceEnabled    bool   `json:"auto_balance_enabled"`
	AutoResetEnabled      bool   `json:"auto_reset_enabled"`
	AutoResetTime         string `json:"auto_reset_time"` // "HH:MM"
	LastAutoResetDate     string `json:"last_auto_reset_date,omitempty"`

	BaselineTasks []TaskDef      `json:"baseline_tasks"`
	ExtraTasks    []TaskDef      `json:"extra_tasks"`
	Deductions    []DeductionDef `json:"deductions"`
}

// Household is the configuration aggregate: children plus settings.
type Household struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Children          []Child            `json:"children"`
	Settings          Settings           `json:"settings"`
	ParentCredentials *ParentCredentials `json:"parent_credentials,omitempty"`
}

// ChildByID looks up a child. The second return is false when absent.
func (h *Household) ChildByID(id string) (*Child, bool) {
	if h == nil {
		return nil, false
	}
	for i := range h.Children {
		if h.Children[i].ID == id {
			return &h.Children[i], true
		}
	}
	return nil, false
}

// DefaultSettings returns the starter configuration for a new household.
func DefaultSettings() Settings {
	return Settings{
		BlockMinutes:          30,
		PointPerMinute:        1,
		PointsPerDollar:       50,
		SchooldayCapMinutes:   120,
		WeekendCapMinutes:     300,
		NoScreenBufferMinutes: 30,
		TeamBonusPoints:       10,
		ExtrasCapSchool:       25,
		ExtrasCapWeekend:      40,
		BankDay:               5, // Friday — weekend starts Friday
		Timezone:              "Local",
		AutoResetTime:         "00:00",
		BaselineTasks: []TaskDef{
			{ID: "b1", Code: "BASE_MORNING", Label: "Morning routine on time", Points: 10, Category: TaskBaseline},
			{ID: "b2", Code: "BASE_AFTER_SCHOOL", Label: "After-school reset", Points: 5, Category: TaskBaseline},
			{ID: "b3", Code: "BASE_HOMEWORK", Label: "Homework complete & checked / Weekend Learning Block", Points: 20, Category: TaskBaseline},
			{ID: "b4", Code: "BASE_READING", Label: "Reading (7yo 20m / 11yo 30m)", Points: 10, Category: TaskBaseline},
			{ID: "b5", Code: "BASE_TIDY", Label: "10-minute tidy", Points: 5, Category: TaskBaseline},
		},
		ExtraTasks: []TaskDef{
			{ID: "e1", Code: "EXTRA_DISHES", Label: "Dishes", Points: 5, Category: TaskExtra},
			{ID: "e2", Code: "EXTRA_TRASH", Label: "Trash/Recycling", Points: 5, Category: TaskExtra},
			{ID: "e3", Code: "EXTRA_LAUNDRY", Label: "Laundry (fold & put away)", Points: 10, Category: TaskExtra},
			{ID: "e4", Code: "EXTRA_BATH_WIPE", Label: "Wipe bathroom sink & mirror", Points: 10, Category: TaskExtra},
			{ID: "e5", Code: "EXTRA_PREP", Label: "Prep next day (clothes/backpack)", Points: 5, Category: TaskExtra},
			{ID: "e6", Code: "EXTRA_PRACTICE", Label: "Practice (instrument/math/typing 20m)", Points: 10, Category: TaskExtra},
			{ID: "e7", Code: "EXTRA_KINDNESS", Label: "Kindness/Initiative", Points: 5, Category: TaskExtra},
			{ID: "e8", Code: "EXTRA_COPING", Label: "Used coping skill early", Points: 5, Category: TaskExtra},
			{ID: "e9", Code: "EXTRA_ACTIVE", Label: "Sports/active play ≥ 30m", Points: 10, Category: TaskExtra},
			{ID: "e10", Code: "EXTRA_VAC_SWEEP", Label: "Vacuum/Sweep (11+)", Points: 10, Category: TaskExtra, AgeMin: 10},
		},
		Deductions: []DeductionDef{
			{Code: "DED_REMINDER", Label: "Second reminder", Points: -5},
			{Code: "DED_RUDE", Label: "Rude/disrespectful language", Points: -10},
			{Code: "DED_TIMER_IGNORED", Label: "Timer ignored", Points: -10},
			{Code: "DED_HW_MISSING", Label: "Homework missing/low effort", Points: -20},
		},
	}
}

// TaskByCode finds a task definition across baseline and extra tasks.
func (s Settings) TaskByCode(code string) (TaskDef, bool) {
	for _, t := range s.BaselineTasks {
		if t.Code == code {
			return t, true
		}
	}
	for _, t := range s.ExtraTasks {
		if t.Code == code {
			return t, true
		}
	}
	return TaskDef{}, false
}

// PointsForTask returns a task's configured points, 0 if unknown.
func (s Settings) PointsForTask(code string) int {
	if t, ok := s.TaskByCode(code); ok {
		return t.Points
	}
	return 0
}

// PointsToDollars converts points to whole dollars (floor).
func PointsToDollars(points int, s Settings) int {
	if s.PointsPerDollar <= 0 {
		return 0
	}
	return points / s.PointsPerDollar
}

// DollarsToPoints converts dollars to points.
func DollarsToPoints(dollars int, s Settings) int {
	return dollars * s.PointsPerDollar
}
