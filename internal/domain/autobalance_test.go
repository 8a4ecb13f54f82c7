package domain

import "testing"

// ─── Auto-Balance ───────────────────────────────────────────────────────────

func TestAutoBalanceTasks_UnassignedTasksUnchanged(t *testing.T) {
	s := DefaultSettings() // default tasks are shared (no ChildID)
	children := []Child{testChild()}

	baseline, extras := AutoBalanceTasks(children, s)

	for i, task := range baseline {
		if task.Points != s.BaselineTasks[i].Points {
			t.Errorf("baseline %s points = %d, want unchanged %d", task.Code, task.Points, s.BaselineTasks[i].Points)
		}
	}
	for i, task := range extras {
		if task.Points != s.ExtraTasks[i].Points {
			t.Errorf("extra %s points = %d, want unchanged %d", task.Code, task.Points, s.ExtraTasks[i].Points)
		}
	}
}

func TestAutoBalanceTasks_WeeklyTargetSplit(t *testing.T) {
	child := testChild()
	child.WeeklyCashCap = 7 // $7 × 50 = 350 points/week

	s := DefaultSettings()
	s.BaselineTasks = []TaskDef{
		{ID: "t1", Code: "BASE_A", Points: 1, Category: TaskBaseline, ChildID: child.ID, Difficulty: DifficultyLow},
		{ID: "t2", Code: "BASE_B", Points: 1, Category: TaskBaseline, ChildID: child.ID, Difficulty: DifficultyMedium},
	}
	s.ExtraTasks = []TaskDef{
		{ID: "t3", Code: "EXTRA_C", Points: 1, Category: TaskExtra, ChildID: child.ID, Difficulty: DifficultyHigh},
	}

	// Weight per day = 1 + 2 + 3 = 6; per week = 42; 350/42 ≈ 8.33/unit.
	baseline, extras := AutoBalanceTasks([]Child{child}, s)

	if got := baseline[0].Points; got != 8 {
		t.Errorf("low task points = %d, want 8", got)
	}
	if got := baseline[1].Points; got != 17 {
		t.Errorf("medium task points = %d, want 17", got)
	}
	if got := extras[0].Points; got != 25 {
		t.Errorf("high task points = %d, want 25", got)
	}
}

func TestAutoBalanceTasks_MinimumsAndDefaultDifficulty(t *testing.T) {
	child := testChild()
	child.WeeklyCashCap = 0 // target 0 points — minimums kick in

	s := DefaultSettings()
	s.BaselineTasks = []TaskDef{
		{ID: "t1", Code: "BASE_A", Points: 10, Category: TaskBaseline, ChildID: child.ID},
	}
	s.ExtraTasks = nil

	baseline, _ := AutoBalanceTasks([]Child{child}, s)

	if got := baseline[0].Points; got != 2 {
		t.Errorf("points = %d, want medium minimum 2", got)
	}
	if got := baseline[0].Difficulty; got != DifficultyMedium {
		t.Errorf("difficulty = %q, want %q (defaulted)", got, DifficultyMedium)
	}
}

// ─── Conversion Helpers ─────────────────────────────────────────────────────

func TestPointsDollarsConversion(t *testing.T) {
	s := DefaultSettings() // 50 points per dollar

	if got := PointsToDollars(125, s); got != 2 {
		t.Errorf("PointsToDollars(125) = %d, want 2", got)
	}
	if got := DollarsToPoints(3, s); got != 150 {
		t.Errorf("DollarsToPoints(3) = %d, want 150", got)
	}
}

func TestSettingsTaskLookup(t *testing.T) {
	s := DefaultSettings()

	if got := s.PointsForTask("EXTRA_DISHES"); got != 5 {
		t.Errorf("PointsForTask(EXTRA_DISHES) = %d, want 5", got)
	}
	if got := s.PointsForTask("UNKNOWN"); got != 0 {
		t.Errorf("PointsForTask(UNKNOWN) = %d, want 0", got)
	}
	if _, ok := s.TaskByCode("BASE_READING"); !ok {
		t.Error("TaskByCode(BASE_READING) not found")
	}
}
