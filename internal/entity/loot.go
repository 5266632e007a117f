package entity

import "github.com/lifequest-lab/backend/pkg/enum"

// Rarity tiers ordered from most to least likely.
type Rarity string

var (
	RarityCommon    = enum.New(Rarity("common"))
	RarityRare      = enum.New(Rarity("rare"))
	RarityEpic      = enum.New(Rarity("epic"))
	RarityLegendary = enum.New(Rarity("legendary"))
)

// RarityOrder lists the tiers from lowest to highest.
var RarityOrder = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

// LootDrop records one roll result. Drops of instant-XP items are recorded
// here too (with InstantXP > 0) so the drop history stays complete, but they
// never appear in the inventory listing: their XP went straight to the user's
// total. The (user, idempotency key) pair is unique so retried rolls replay
// the recorded drop instead of rolling again.
type LootDrop struct {
	Base

	UserID string `gorm:"uniqueIndex:idx_loot_drops_user_key"`
	User   User   `gorm:"foreignKey:UserID"`

	IdempotencyKey string `gorm:"uniqueIndex:idx_loot_drops_user_key"`

	ItemCode string
	ItemName string
	Rarity   Rarity
	Quantity int

	InstantXP    int
	BonusApplied bool

	// RollContext snapshots the performance context the drop was rolled
	// with, for auditability.
	RollContext Map
}
