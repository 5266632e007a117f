package entity

import (
	"context"

	"github.com/lifequest-lab/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&UserProgress{},
		&SkillProgress{},
		&XPAward{},
		&LootDrop{},
		&UserAchievement{},
		&League{},
		&LeagueMembership{},
	)
}
