package model

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`

	Level                 int     `json:"level"`
	TotalSeconds          float64 `json:"total_seconds"`
	LevelThresholdSeconds float64 `json:"level_threshold_seconds"`

	Skips             int     `json:"skips"`
	AdditionalCounter float64 `json:"additional_counter"`
	LastSundayClaim   string  `json:"last_sunday_claim"`

	DailyDone        float64  `json:"daily_done"`
	DailyDateKey     string   `json:"daily_date_key"`
	DailyGoalSeconds *float64 `json:"daily_goal_seconds"`
	DailyGoalDateKey string   `json:"daily_goal_date_key"`

	CreatedAt string `json:"created_at"`
}

type DailyGoal struct {
	DateKey         string   `json:"date_key"`
	GoalSeconds     *float64 `json:"goal_seconds"`
	ProgressSeconds float64  `json:"progress_seconds"`
	GoalMet         bool     `json:"goal_met"`
	Locked          bool     `json:"locked"`
	Method          string   `json:"method"`

	Finalized      bool   `json:"finalized"`
	SkipSpent      bool   `json:"skip_spent"`
	FinalizeReason string `json:"finalize_reason,omitempty"`
}

type Session struct {
	ID           string         `json:"id"`
	Mode         string         `json:"mode"`
	Seconds      float64        `json:"seconds"`
	DateKey      string         `json:"date_key"`
	Contribution float64        `json:"contribution"`
	Payload      map[string]any `json:"payload,omitempty"`
	CreatedAt    string         `json:"created_at"`
}
