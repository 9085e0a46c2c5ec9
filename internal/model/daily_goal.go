package model

type GetDailyGoalRequest struct{}

// GetDailyGoalResponse describes the current day. Exists is true once a day
// record was written, either by a session or by a spin. Locked is true only
// after a goal was spun, so a day with sessions but no goal has Exists set and
// Locked unset.
type GetDailyGoalResponse struct {
	Exists bool `json:"exists"`
	DailyGoal
}

type SpinDailyGoalRequest struct {
	// Candidate goals in seconds. The default pool is used when empty.
	Segments []float64 `json:"segments"`
}

type SpinDailyGoalResponse struct {
	DailyGoal

	// Spun is false when the goal had been locked by an earlier spin.
	Spun bool `json:"spun"`
}
