package entity

import "time"

// UserAchievement records one unlock. Definitions live in the static game
// data; only unlocks are persisted. The (user, code) primary key makes the
// unlock idempotent at the database level.
type UserAchievement struct {
	CreatedAt time.Time

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	AchievementCode string `gorm:"primaryKey"`

	XPAwarded   int
	WasNotified bool
}
