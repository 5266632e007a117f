package model

type LevelInfo struct {
	Level          int   `json:"level"`
	XPIntoLevel    int64 `json:"xp_into_level"`
	XPForNextLevel int64 `json:"xp_for_next_level"`
}

type SkillProgress struct {
	Skill string    `json:"skill"`
	XP    int64     `json:"xp"`
	Info  LevelInfo `json:"info"`
}

// ActionContext is the per-action payload of an award request. It arrives as
// a free-form map and is decoded with mapstructure before use.
type ActionContext struct {
	ExerciseCount  int  `mapstructure:"exercise_count"`
	PersonalRecord bool `mapstructure:"personal_record"`
}

type AwardXPRequest struct {
	IdempotencyKey string `json:"idempotency_key" validate:"required,max=128"`
	ActionType     string `json:"action_type" validate:"required"`

	// OccurredAt is the RFC3339 activity time, defaulting to now.
	OccurredAt string `json:"occurred_at"`

	Context map[string]any `json:"context"`
}

type AwardXPResponse struct {
	AwardID string `json:"award_id"`

	BaseXP      int  `json:"base_xp"`
	StreakBonus int  `json:"streak_bonus"`
	CritBonus   int  `json:"crit_bonus"`
	BoostBonus  int  `json:"boost_bonus"`
	TotalXP     int  `json:"total_xp"`
	CriticalHit bool `json:"critical_hit"`

	LeveledUp bool      `json:"leveled_up"`
	Hero      LevelInfo `json:"hero"`

	// Duplicate reports a replayed idempotency key. The breakdown above is
	// the originally computed one; no state changed.
	Duplicate bool `json:"duplicate,omitempty"`
}

// XPAwardEntry is one row of the award ledger, newest first.
type XPAwardEntry struct {
	AwardID     string `json:"award_id"`
	ActionType  string `json:"action_type"`
	BaseXP      int    `json:"base_xp"`
	StreakBonus int    `json:"streak_bonus"`
	CritBonus   int    `json:"crit_bonus"`
	BoostBonus  int    `json:"boost_bonus"`
	TotalXP     int    `json:"total_xp"`
	CriticalHit bool   `json:"critical_hit"`
	CreatedAt   string `json:"created_at"`
}

type GetAwardHistoryRequest struct {
	Offset int `form:"offset"`
	Limit  int `form:"limit" validate:"lte=100"`
}

type GetAwardHistoryResponse struct {
	Awards []XPAwardEntry `json:"awards"`
}

type GetProgressRequest struct {
	UserID string `form:"user_id"`
}

type GetProgressResponse struct {
	TotalXP int64     `json:"total_xp"`
	Hero    LevelInfo `json:"hero"`

	CurrentStreak    int    `json:"current_streak"`
	LongestStreak    int    `json:"longest_streak"`
	LastActivityDate string `json:"last_activity_date,omitempty"`

	Skills []SkillProgress `json:"skills"`

	TotalActions    int64 `json:"total_actions"`
	TotalVisits     int64 `json:"total_visits"`
	TotalReviews    int64 `json:"total_reviews"`
	TotalWorkouts   int64 `json:"total_workouts"`
	TotalQuestLogs  int64 `json:"total_quest_logs"`
	PersonalRecords int64 `json:"personal_records"`
}

type RecordActivityRequest struct {
	// OccurredAt is the RFC3339 activity time, defaulting to now.
	OccurredAt string `json:"occurred_at"`
}

type RecordActivityResponse struct {
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
	StreakBroken  bool `json:"streak_broken"`
	Changed       bool `json:"changed"`
}

type ActivateBoostRequest struct {
	Multiplier float64 `json:"multiplier" validate:"required,gt=1,lte=3"`
}

type ActivateBoostResponse struct {
	Multiplier float64 `json:"multiplier"`
	ExpiredAt  string  `json:"expired_at"`
}
