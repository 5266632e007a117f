package domain

import (
	"context"
	"errors"

	"github.com/lifequest-lab/backend/internal/domain/progression"
	"github.com/lifequest-lab/backend/internal/entity"
	"github.com/lifequest-lab/backend/internal/repository"
	"github.com/lifequest-lab/backend/pkg/errorx"
	"github.com/lifequest-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type appliedAward struct {
	award     *entity.XPAward
	hero      progression.LevelInfo
	leveledUp bool

	// inserted is false when the idempotency key was already used. The
	// caller must roll back its transaction in that case.
	inserted bool
}

// applyAward applies a computed breakdown inside the caller's transaction:
// the atomic XP increment, the hero and skill level recomputation and the
// ledger insert guarding the idempotency key.
func applyAward(
	ctx context.Context,
	progressRepo repository.UserProgressRepository,
	awardRepo repository.XPAwardRepository,
	userID, actionType, idempotencyKey, skill string,
	breakdown progression.AwardBreakdown,
	statColumns []string,
) (*appliedAward, error) {
	progress, err := progressRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user progress")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user progress: %v", err)
		return nil, errorx.Unknown
	}

	if progression.LevelForTotalXP(progress.TotalXP, progression.HeroCurve).Level != progress.Level {
		xcontext.Logger(ctx).Errorf(
			"Stored level %d of user %s diverges from xp total %d",
			progress.Level, userID, progress.TotalXP)
		return nil, errorx.Unknown
	}

	err = progressRepo.IncreaseXP(ctx, userID, int64(breakdown.TotalXP), statColumns...)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase xp of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	// The level must come from a re-read after the increment. Concurrent
	// awards serialize on the row lock, so the pre-read total can miss
	// another award's delta and a level derived from it would diverge from
	// the stored total.
	updated, err := progressRepo.Get(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user progress: %v", err)
		return nil, errorx.Unknown
	}

	hero := progression.LevelForTotalXP(updated.TotalXP, progression.HeroCurve)
	leveledUp := hero.Level > progress.Level
	if hero.Level != updated.Level {
		if err := progressRepo.SetLevel(ctx, userID, hero.Level); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update level of user %s: %v", userID, err)
			return nil, errorx.Unknown
		}
	}

	if skill != "" {
		err = progressRepo.IncreaseSkillXP(ctx, userID, skill, int64(breakdown.TotalXP))
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase %s xp of user %s: %v", skill, userID, err)
			return nil, errorx.Unknown
		}

		skillProgress, err := progressRepo.GetSkill(ctx, userID, skill)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get %s progress of user %s: %v", skill, userID, err)
			return nil, errorx.Unknown
		}

		skillLevel := progression.LevelForTotalXP(skillProgress.XP, progression.SkillCurve).Level
		if skillLevel != skillProgress.Level {
			if err := progressRepo.SetSkillLevel(ctx, userID, skill, skillLevel); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot update %s level of user %s: %v", skill, userID, err)
				return nil, errorx.Unknown
			}
		}
	}

	award := &entity.XPAward{
		SnowFlakeBase:  entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:         userID,
		IdempotencyKey: idempotencyKey,
		ActionType:     actionType,
		BaseXP:         breakdown.BaseXP,
		StreakBonus:    breakdown.StreakBonus,
		CritBonus:      breakdown.CritBonus,
		BoostBonus:     breakdown.BoostBonus,
		TotalXP:        breakdown.TotalXP,
		CriticalHit:    breakdown.CriticalHit,
		LeveledUp:      leveledUp,
		NewLevel:       hero.Level,
	}

	inserted, err := awardRepo.CreateIfNotExist(ctx, award)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create xp award of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	return &appliedAward{award: award, hero: hero, leveledUp: leveledUp, inserted: inserted}, nil
}
