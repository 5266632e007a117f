package entity

// XPAward is an append-only ledger row recording one applied award. The
// (user, idempotency key) pair is unique: retried requests hit the existing
// row and are answered with the previously computed result instead of
// awarding again.
type XPAward struct {
	SnowFlakeBase

	UserID string `gorm:"uniqueIndex:idx_xp_awards_user_key"`
	User   User   `gorm:"foreignKey:UserID"`

	IdempotencyKey string `gorm:"uniqueIndex:idx_xp_awards_user_key"`

	ActionType string

	BaseXP      int
	StreakBonus int
	CritBonus   int
	BoostBonus  int
	TotalXP     int

	CriticalHit bool
	LeveledUp   bool
	NewLevel    int
}
