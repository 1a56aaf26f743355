// internal/gamification/engine.go
package gamification

import (
	"math"
	"time"

	"finny/internal/domain"
)

// XP granted per action.
const (
	XPAddIncome     = 10
	XPAddExpense    = 5
	XPOnTimePayment = 25
)

// Absolute XP required to reach each level. Above level 10 the threshold for
// level L is (L-1)*350.
var levelThresholds = map[int]int{
	1:  0,
	2:  100,
	3:  250,
	4:  450,
	5:  700,
	6:  1000,
	7:  1350,
	8:  1750,
	9:  2200,
	10: 2700,
}

// ThresholdFor returns the absolute XP needed to reach a level.
func ThresholdFor(level int) int {
	if level < 1 {
		return 0
	}
	if t, ok := levelThresholds[level]; ok {
		return t
	}
	return (level - 1) * 350
}

// NextLevelTarget returns the XP target to advance from the given level.
func NextLevelTarget(level int) int {
	return ThresholdFor(level + 1)
}

// levelForExperience finds the highest level whose threshold the given
// cumulative XP reaches.
func levelForExperience(xp int) int {
	level := 1
	for xp >= ThresholdFor(level+1) {
		level++
	}
	return level
}

// NewExperience returns the initial gamification state for a fresh user.
func NewExperience(userID int64) *domain.Experience {
	return &domain.Experience{
		UserID:              userID,
		Level:               1,
		Experience:          0,
		NextLevelExperience: NextLevelTarget(1),
		Streak:              0,
	}
}

// AddExperience applies an XP grant to the state and reports whether a
// level-up happened.
//
// When no threshold is crossed, experience is the plain cumulative sum. When
// one is crossed, the new level is looked up from the cumulative value
// (multi-level jumps in one call are possible) but the stored experience is
// reset to the overflow beyond the old threshold, not the full total. That
// asymmetry is intentional: existing clients depend on it.
func AddExperience(st *domain.Experience, amount int) bool {
	total := st.Experience + amount
	if total < st.NextLevelExperience {
		st.Experience = total
		return false
	}
	remaining := st.NextLevelExperience - st.Experience
	st.Level = levelForExperience(total)
	st.Experience = amount - remaining
	st.NextLevelExperience = NextLevelTarget(st.Level)
	return true
}

// Touch updates the activity streak for an XP-granting action at now.
// Repeat actions on the same calendar day keep the streak, a next-day action
// extends it, and any gap resets it to 1. Days follow the timestamp's own
// location, not UTC.
func Touch(st *domain.Experience, now time.Time) {
	switch {
	case st.LastActivity.IsZero():
		st.Streak = 1
	case sameDay(st.LastActivity, now):
		// Already counted today.
	case sameDay(st.LastActivity, now.AddDate(0, 0, -1)):
		st.Streak++
	default:
		st.Streak = 1
	}
	st.LastActivity = now
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// HealthScore blends four heuristics into a 0-100 score:
// 40% income/expense ratio, 20% income-source diversity, 20% expense-tracking
// engagement, 20% balance health.
func HealthScore(calc domain.Calculations, sourceCount, expenseCount int) float64 {
	income := calc.TotalMonthlyIncome
	expenses := calc.TotalMonthlyExpenses
	balance := calc.MonthlyBalance

	ratioScore := 100.0
	if expenses > 0 {
		ratioScore = math.Min(100, income/expenses*50)
	}

	diversityScore := math.Min(5, float64(sourceCount)) * 20
	trackingScore := math.Min(10, float64(expenseCount)) * 10

	var balanceScore float64
	if income > 0 {
		if balance > 0 {
			balanceScore = math.Min(100, balance/income*200)
		} else {
			balanceScore = math.Max(0, 50+balance/income*100)
		}
	}

	score := 0.4*ratioScore + 0.2*diversityScore + 0.2*trackingScore + 0.2*balanceScore
	return math.Max(0, math.Min(100, score))
}
