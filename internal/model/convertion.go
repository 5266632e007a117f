package model

import (
	"strconv"
	"time"

	"github.com/lifequest-lab/backend/config"
	"github.com/lifequest-lab/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano
const DefaultDateLayout string = "2006-01-02"

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:        user.ID,
		Name:      user.Name,
		Timezone:  user.Timezone,
		CreatedAt: user.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertLootDrop(drop *entity.LootDrop) LootDrop {
	if drop == nil {
		return LootDrop{}
	}

	return LootDrop{
		ID:           drop.ID,
		ItemCode:     drop.ItemCode,
		ItemName:     drop.ItemName,
		Rarity:       string(drop.Rarity),
		Quantity:     drop.Quantity,
		InstantXP:    drop.InstantXP,
		BonusApplied: drop.BonusApplied,
		CreatedAt:    drop.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertXPAward(award *entity.XPAward) XPAwardEntry {
	if award == nil {
		return XPAwardEntry{}
	}

	return XPAwardEntry{
		AwardID:     strconv.FormatInt(award.ID, 10),
		ActionType:  award.ActionType,
		BaseXP:      award.BaseXP,
		StreakBonus: award.StreakBonus,
		CritBonus:   award.CritBonus,
		BoostBonus:  award.BoostBonus,
		TotalXP:     award.TotalXP,
		CriticalHit: award.CriticalHit,
		CreatedAt:   award.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertAchievement(def config.AchievementDefinition) Achievement {
	return Achievement{
		Code:      def.Code,
		Name:      def.Name,
		Tier:      def.Tier,
		Stat:      def.Stat,
		Threshold: def.Threshold,
		XPReward:  def.XPReward,
	}
}

func ConvertUserAchievement(
	unlock *entity.UserAchievement, def config.AchievementDefinition,
) UserAchievement {
	if unlock == nil {
		return UserAchievement{}
	}

	return UserAchievement{
		Achievement: ConvertAchievement(def),
		UnlockedAt:  unlock.CreatedAt.Format(DefaultTimeLayout),
		XPAwarded:   unlock.XPAwarded,
	}
}

func ConvertLeague(league *entity.League) League {
	if league == nil {
		return League{}
	}

	return League{
		ID:        league.ID,
		Tier:      league.Tier,
		Period:    league.Period,
		Capacity:  league.Capacity,
		StartTime: league.StartTime.Format(DefaultTimeLayout),
		EndTime:   league.EndTime.Format(DefaultTimeLayout),
		Finalized: league.Finalized,
	}
}
