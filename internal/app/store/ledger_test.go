package store

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hearthpoints/hearth/internal/domain"
)

func TestCompleteTask_AwardsConfiguredPoints(t *testing.T) {
	s, _, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.CompleteTask(id, "BASE_HOMEWORK"); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if got := s.Balance(id); got != 20 {
		t.Fatalf("balance = %d, want 20", got)
	}

	entries := s.LedgerFor(id)
	if len(entries) != 1 {
		t.Fatalf("ledger length = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Type != domain.EntryEarn || e.Code != "BASE_HOMEWORK" {
		t.Fatalf("entry = %+v", e)
	}
	if e.Verified != nil {
		t.Fatal("direct completion should be unverified")
	}
}

func TestCompleteTask_UnknownCode(t *testing.T) {
	s, _, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.CompleteTask(id, "NOT_A_TASK"); err == nil {
		t.Fatal("expected error for unknown task code")
	}
	if got := s.Balance(id); got != 0 {
		t.Fatalf("balance = %d, want 0", got)
	}
}

func TestSpendAndDeductionStoreNegativePoints(t *testing.T) {
	s, _, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.AddEarn(id, "BASE_HOMEWORK", "Homework", 20, true); err != nil {
		t.Fatalf("AddEarn: %v", err)
	}
	// Caller sign is ignored; both spends and deductions debit.
	if err := s.AddSpend(id, "TREAT", "Ice cream", 5); err != nil {
		t.Fatalf("AddSpend: %v", err)
	}
	if err := s.AddDeduction(id, "DED_RUDE", "Rude language", -10); err != nil {
		t.Fatalf("AddDeduction: %v", err)
	}
	if got := s.Balance(id); got != 5 {
		t.Fatalf("balance = %d, want 5", got)
	}
}

func TestApplyPresetDeduction(t *testing.T) {
	s, _, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.ApplyPresetDeduction(id, "DED_HW_MISSING"); err != nil {
		t.Fatalf("ApplyPresetDeduction: %v", err)
	}
	if got := s.Balance(id); got != -20 {
		t.Fatalf("balance = %d, want -20", got)
	}
	if err := s.ApplyPresetDeduction(id, "DED_UNKNOWN"); err == nil {
		t.Fatal("expected error for unknown deduction code")
	}
}

func TestLockoutAndReset(t *testing.T) {
	s, clock, _ := newTestStore(t)
	id := childID(t, s)
	ymd := domain.ToYMD(clock.Now())

	if err := s.AddLockout(id, "Thrown controller", 0); err != nil {
		t.Fatalf("AddLockout: %v", err)
	}
	if !domain.LockoutActiveToday(s.Ledger(), id, ymd) {
		t.Fatal("lockout should be active")
	}

	clock.Advance(30 * time.Minute)
	if err := s.AddReset(id); err != nil {
		t.Fatalf("AddReset: %v", err)
	}
	if domain.LockoutActiveToday(s.Ledger(), id, ymd) {
		t.Fatal("lockout should be cleared by reset")
	}

	entries := s.LedgerFor(id)
	if got := entries[0].Label; got != "Lockout: Thrown controller" {
		t.Fatalf("lockout label = %q", got)
	}
	if got := entries[1].Label; !strings.HasPrefix(got, "Reset complete") {
		t.Fatalf("reset label = %q", got)
	}
}

func TestAddTeamBonus_OncePerDay(t *testing.T) {
	s, clock, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.AddTeamBonus(); err != nil {
		t.Fatalf("AddTeamBonus: %v", err)
	}
	if got := s.Balance(id); got != 10 {
		t.Fatalf("balance = %d, want 10", got)
	}

	// Second bonus on the same day is swallowed.
	clock.Advance(time.Hour)
	if err := s.AddTeamBonus(); err != nil {
		t.Fatalf("AddTeamBonus: %v", err)
	}
	if got := s.Balance(id); got != 10 {
		t.Fatalf("balance after repeat = %d, want 10", got)
	}

	// A new day allows it again.
	clock.Advance(24 * time.Hour)
	if err := s.AddTeamBonus(); err != nil {
		t.Fatalf("AddTeamBonus: %v", err)
	}
	if got := s.Balance(id); got != 20 {
		t.Fatalf("balance next day = %d, want 20", got)
	}
}

func TestRemoveLedger(t *testing.T) {
	s, _, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.AddEarn(id, "BASE_TIDY", "Tidy", 5, true); err != nil {
		t.Fatalf("AddEarn: %v", err)
	}
	entryID := s.LedgerFor(id)[0].ID

	if err := s.RemoveLedger(entryID); err != nil {
		t.Fatalf("RemoveLedger: %v", err)
	}
	if got := s.Balance(id); got != 0 {
		t.Fatalf("balance = %d, want 0", got)
	}
	// Unknown IDs are a no-op, not an error.
	if err := s.RemoveLedger("missing"); err != nil {
		t.Fatalf("RemoveLedger(missing): %v", err)
	}
}

func TestVerifyTask(t *testing.T) {
	s, _, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.CompleteTask(id, "BASE_READING"); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	entryID := s.LedgerFor(id)[0].ID

	if err := s.VerifyTask(entryID); err != nil {
		t.Fatalf("VerifyTask: %v", err)
	}
	e := s.LedgerFor(id)[0]
	if e.Verified == nil || !*e.Verified {
		t.Fatal("entry should be verified")
	}
	if e.VerifiedAt == nil {
		t.Fatal("verification time should be set")
	}
}

func TestMarkTaskIncomplete_DoubleCharge(t *testing.T) {
	s, _, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.CompleteTask(id, "BASE_HOMEWORK"); err != nil { // 20 points
		t.Fatalf("CompleteTask: %v", err)
	}
	entryID := s.LedgerFor(id)[0].ID

	if err := s.MarkTaskIncomplete(entryID); err != nil {
		t.Fatalf("MarkTaskIncomplete: %v", err)
	}

	// Penalty is 30% of 20 = 6: the award shrinks to 14 and a -6
	// deduction lands, leaving 8.
	entries := s.LedgerFor(id)
	if len(entries) != 2 {
		t.Fatalf("ledger length = %d, want 2", len(entries))
	}
	if entries[0].Points != 14 {
		t.Fatalf("original entry points = %d, want 14", entries[0].Points)
	}
	if entries[0].Verified == nil || *entries[0].Verified {
		t.Fatal("original entry should be marked unverified")
	}
	if entries[1].Code != domain.CodePenalty || entries[1].Points != -6 {
		t.Fatalf("penalty entry = %+v", entries[1])
	}
	if entries[1].Label != "Incomplete task penalty (-6)" {
		t.Fatalf("penalty label = %q", entries[1].Label)
	}
	if got := s.Balance(id); got != 8 {
		t.Fatalf("balance = %d, want 8", got)
	}
}

func TestMarkTaskIncomplete_MinimumPenalty(t *testing.T) {
	s, _, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.CompleteTask(id, "BASE_TIDY"); err != nil { // 5 points
		t.Fatalf("CompleteTask: %v", err)
	}
	entryID := s.LedgerFor(id)[0].ID

	if err := s.MarkTaskIncomplete(entryID); err != nil {
		t.Fatalf("MarkTaskIncomplete: %v", err)
	}
	// 30% of 5 rounds down to 1, floored to the 3-point minimum.
	if got := s.Balance(id); got != -1 {
		t.Fatalf("balance = %d, want -1", got)
	}
}

func TestMarkTaskIncomplete_IgnoresNonEarn(t *testing.T) {
	s, _, _ := newTestStore(t)
	id := childID(t, s)

	if err := s.AddSpend(id, "TREAT", "Ice cream", 5); err != nil {
		t.Fatalf("AddSpend: %v", err)
	}
	entryID := s.LedgerFor(id)[0].ID

	if err := s.MarkTaskIncomplete(entryID); err != nil {
		t.Fatalf("MarkTaskIncomplete: %v", err)
	}
	if got := len(s.LedgerFor(id)); got != 1 {
		t.Fatalf("ledger length = %d, want 1", got)
	}
}

func TestResetTodayTasks_OnlyTaskCodesToday(t *testing.T) {
	s, clock, _ := newTestStore(t)
	id := childID(t, s)

	// Yesterday's task survives the reset.
	clock.now = clock.now.Add(-24 * time.Hour)
	if err := s.CompleteTask(id, "BASE_MORNING"); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	clock.now = clock.now.Add(24 * time.Hour)

	if err := s.CompleteTask(id, "BASE_HOMEWORK"); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if err := s.CompleteTask(id, "EXTRA_DISHES"); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	// Custom quick-add earns and spends survive.
	if err := s.AddEarn(id, "CUSTOM", "Helped neighbor", 15, true); err != nil {
		t.Fatalf("AddEarn: %v", err)
	}
	if err := s.AddSpend(id, domain.CodeScreenTimeUsed, "Screen time used (10 min)", 10); err != nil {
		t.Fatalf("AddSpend: %v", err)
	}

	if err := s.ResetTodayTasks(id); err != nil {
		t.Fatalf("ResetTodayTasks: %v", err)
	}

	var codes []string
	for _, e := range s.LedgerFor(id) {
		codes = append(codes, e.Code)
	}
	want := []string{"BASE_MORNING", "CUSTOM", domain.CodeScreenTimeUsed}
	if len(codes) != len(want) {
		t.Fatalf("surviving codes = %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("surviving codes = %v, want %v", codes, want)
		}
	}
}

func TestResetTodayTasks_AllChildren(t *testing.T) {
	s, _, _ := newTestStore(t)
	first := childID(t, s)
	second, err := s.AddChild(ChildSpec{Name: "Ben", Age: 7, WeeklyCashCap: 5, BedSchool: "20:00", BedWeekend: "21:00"})
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}

	for _, id := range []string{first, second} {
		if err := s.CompleteTask(id, "BASE_TIDY"); err != nil {
			t.Fatalf("CompleteTask: %v", err)
		}
	}

	if err := s.ResetTodayTasks(""); err != nil {
		t.Fatalf("ResetTodayTasks: %v", err)
	}
	if got := len(s.Ledger()); got != 0 {
		t.Fatalf("ledger length = %d, want 0", got)
	}
}

func TestAutoCompleteYesterday(t *testing.T) {
	s, clock, _ := newTestStore(t)
	id := childID(t, s)

	clock.now = clock.now.Add(-24 * time.Hour)
	if err := s.CompleteTask(id, "BASE_READING"); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if err := s.CompleteTask(id, "BASE_TIDY"); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	reviewed := s.LedgerFor(id)[1].ID
	if err := s.MarkTaskIncomplete(reviewed); err != nil {
		t.Fatalf("MarkTaskIncomplete: %v", err)
	}
	clock.now = clock.now.Add(24 * time.Hour)

	if err := s.AutoCompleteYesterday(); err != nil {
		t.Fatalf("AutoCompleteYesterday: %v", err)
	}

	entries := s.LedgerFor(id)
	if entries[0].Verified == nil || !*entries[0].Verified {
		t.Fatal("unreviewed entry should auto-verify")
	}
	if entries[1].Verified == nil || *entries[1].Verified {
		t.Fatal("reviewed-incomplete entry must keep its verdict")
	}
}

func TestAutoBalancePoints_RequiresHousehold(t *testing.T) {
	s := New()
	if err := s.AutoBalancePoints(); !errors.Is(err, domain.ErrNoHousehold) {
		t.Fatalf("error = %v, want ErrNoHousehold", err)
	}
}

func TestAutoBalancePoints_RewritesAssignedTasks(t *testing.T) {
	s, _, _ := newTestStore(t)
	id := childID(t, s)

	err := s.UpdateSettings(func(set *domain.Settings) {
		for i := range set.BaselineTasks {
			set.BaselineTasks[i].ChildID = id
			set.BaselineTasks[i].Difficulty = domain.DifficultyMedium
		}
	})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	if err := s.AutoBalancePoints(); err != nil {
		t.Fatalf("AutoBalancePoints: %v", err)
	}

	set := s.Settings()
	// Weekly target 7 × 50 = 350 points over 5 medium tasks × 7 days =
	// 70 weight units: 5 points per unit, 10 per medium task.
	for _, task := range set.BaselineTasks {
		if task.Points != 10 {
			t.Fatalf("task %s points = %d, want 10", task.Code, task.Points)
		}
	}
	// Unassigned extras are untouched.
	if got := set.ExtraTasks[0].Points; got != 5 {
		t.Fatalf("unassigned extra points = %d, want 5", got)
	}
}
