package domain

import "math"

// ─── Task Point Auto-Balancing ──────────────────────────────────────────────
// Rebalances task point values so that a child completing every one of
// their tasks each day for a week earns approximately their weekly cash
// cap in points. Difficulty weights the split 1:2:3 (low:medium:high).
// Tasks not assigned to a resolvable child are left unchanged.

const (
	weightLow    = 1
	weightMedium = 2
	weightHigh   = 3
)

// AutoBalanceTasks returns rebalanced copies of the baseline and extra
// task lists. Input slices are not mutated.
func AutoBalanceTasks(children []Child, s Settings) (baseline, extras []TaskDef) {
	baseline = make([]TaskDef, len(s.BaselineTasks))
	copy(baseline, s.BaselineTasks)
	extras = make([]TaskDef, len(s.ExtraTasks))
	copy(extras, s.ExtraTasks)

	for i := range baseline {
		baseline[i] = rebalanceTask(baseline[i], children, s)
	}
	for i := range extras {
		extras[i] = rebalanceTask(extras[i], children, s)
	}
	return baseline, extras
}

func rebalanceTask(task TaskDef, children []Child, s Settings) TaskDef {
	var child *Child
	for i := range children {
		if children[i].ID == task.ChildID {
			child = &children[i]
			break
		}
	}
	if child == nil {
		return task
	}

	targetPerWeek := child.WeeklyCashCap * s.PointsPerDollar

	var low, medium, high int
	for _, t := range append(append([]TaskDef{}, s.BaselineTasks...), s.ExtraTasks...) {
		if t.ChildID != child.ID {
			continue
		}
		switch effectiveDifficulty(t) {
		case DifficultyLow:
			low++
		case DifficultyHigh:
			high++
		default:
			medium++
		}
	}

	weightPerDay := low*weightLow + medium*weightMedium + high*weightHigh
	if weightPerDay == 0 {
		return task
	}
	perUnit := float64(targetPerWeek) / float64(weightPerDay*7)

	lowPts := maxInt(1, int(math.Round(perUnit*weightLow)))
	mediumPts := maxInt(2, int(math.Round(perUnit*weightMedium)))
	highPts := maxInt(3, int(math.Round(perUnit*weightHigh)))

	task.Difficulty = effectiveDifficulty(task)
	switch task.Difficulty {
	case DifficultyLow:
		task.Points = lowPts
	case DifficultyHigh:
		task.Points = highPts
	default:
		task.Points = mediumPts
	}
	return task
}

func effectiveDifficulty(t TaskDef) Difficulty {
	if t.Difficulty == "" {
		return DifficultyMedium
	}
	return t.Difficulty
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
