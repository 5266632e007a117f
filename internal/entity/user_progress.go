package entity

import (
	"database/sql"
	"time"
)

// UserProgress is the single source of truth of a user's cumulative
// progression. Level is cached for display but must always equal the level
// recomputed from TotalXP; a divergence is a data-integrity bug.
type UserProgress struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	TotalXP int64
	Level   int

	CurrentStreak    int
	LongestStreak    int
	LastActivityDate sql.NullTime

	// Counters consumed by the achievement evaluator.
	TotalActions    int64
	TotalVisits     int64
	TotalReviews    int64
	TotalWorkouts   int64
	TotalQuestLogs  int64
	PersonalRecords int64
}

// SkillProgress accumulates XP per life area (fitness, travel, tasks) on the
// fast-scaling skill curve, independently of the hero-level total.
type SkillProgress struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Skill string `gorm:"primaryKey"`

	XP    int64
	Level int
}
