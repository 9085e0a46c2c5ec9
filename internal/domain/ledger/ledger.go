// Package ledger holds the arithmetic of the progression ledger. Nothing here
// touches storage, so every rule can be checked in isolation.
package ledger

import (
	"math"

	"github.com/questx-lab/focus/internal/entity"
)

const (
	hour = 3600.0

	// BonusBlockSeconds of spillover are converted into one skip.
	BonusBlockSeconds = 16 * hour
)

// Divisor returns how many recorded seconds of mode count as one contributed
// second. Unknown modes are weighted like main.
func Divisor(mode entity.SessionMode) float64 {
	switch mode {
	case entity.SessionModeSchool, entity.SessionModeReading:
		return 2
	case entity.SessionModeManga:
		return 4
	default:
		return 1
	}
}

// Contribution returns the seconds a session of mode credits toward progress.
func Contribution(mode entity.SessionMode, seconds float64) float64 {
	if mode == entity.SessionModeSub {
		return 0
	}

	return seconds / Divisor(mode)
}

// LevelThreshold returns the seconds needed to leave level.
func LevelThreshold(level int) float64 {
	switch {
	case level < 30:
		return 8 * hour
	case level < 50:
		return 9 * hour
	default:
		return 10 * hour
	}
}

// SettleLevel rolls total over into levels. The threshold of the starting
// level applies to the whole jump, even when it crosses a tier.
func SettleLevel(level int, total float64) (int, float64) {
	needed := LevelThreshold(level)
	if total < needed {
		return level, total
	}

	return level + int(math.Floor(total/needed)), math.Mod(total, needed)
}

// Spillover returns the overflow of progress above goal which is not included
// in counted yet. Overflow produced before the goal was locked is included.
func Spillover(goal, counted, progress float64) float64 {
	return math.Max(0, math.Max(0, progress-goal)-counted)
}

// ConvertBonusSkips turns every full bonus block of counter into one skip.
func ConvertBonusSkips(counter float64) (int, float64) {
	if counter < BonusBlockSeconds {
		return 0, counter
	}

	return int(math.Floor(counter / BonusBlockSeconds)), math.Mod(counter, BonusBlockSeconds)
}

// Settlement summarizes what one contribution changed.
type Settlement struct {
	Contribution float64
	LevelsGained int
	SkipsEarned  int
	Spillover    float64
	GoalReached  bool
}

// Settle credits contribution made on dateKey to user and to the day record
// goal. Both records are modified in place and must belong to the same user
// and day.
func Settle(user *entity.User, goal *entity.DailyGoal, dateKey string, contribution float64) Settlement {
	result := Settlement{Contribution: contribution}

	user.DailyDone = user.DailyDoneOn(dateKey) + contribution
	user.DailyDateKey = dateKey

	oldLevel := user.Level
	user.Level, user.TotalSeconds = SettleLevel(user.Level, user.TotalSeconds+contribution)
	result.LevelsGained = user.Level - oldLevel

	wasMet := goal.GoalMet
	goal.ProgressSeconds += contribution
	goal.GoalMet = goal.IsGoalMet()
	result.GoalReached = goal.GoalMet && !wasMet

	if goal.GoalSeconds.Valid {
		result.Spillover = Spillover(goal.GoalSeconds.Float64, goal.SpilloverSeconds, goal.ProgressSeconds)
		goal.SpilloverSeconds += result.Spillover
		user.AdditionalCounter += result.Spillover
	}

	result.SkipsEarned, user.AdditionalCounter = ConvertBonusSkips(user.AdditionalCounter)
	user.Skips += result.SkipsEarned

	return result
}
