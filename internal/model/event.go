package model

type LedgerEventType string

const (
	SessionRecordedEvent LedgerEventType = "session_recorded"
	LevelUpEvent         LedgerEventType = "level_up"
	SkipEarnedEvent      LedgerEventType = "skip_earned"
	SkipClaimedEvent     LedgerEventType = "skip_claimed"
	GoalLockedEvent      LedgerEventType = "goal_locked"
	DayFinalizedEvent    LedgerEventType = "day_finalized"
)

// LedgerEvent is published after a ledger transaction commits.
type LedgerEvent struct {
	ID         string          `json:"id"`
	Type       LedgerEventType `json:"type"`
	UserID     string          `json:"user_id"`
	DateKey    string          `json:"date_key"`
	OccurredAt string          `json:"occurred_at"`
	Data       map[string]any  `json:"data,omitempty"`
}
