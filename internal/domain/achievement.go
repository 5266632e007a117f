package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/lifequest-lab/backend/config"
	"github.com/lifequest-lab/backend/internal/domain/notification"
	"github.com/lifequest-lab/backend/internal/domain/progression"
	"github.com/lifequest-lab/backend/internal/entity"
	"github.com/lifequest-lab/backend/internal/model"
	"github.com/lifequest-lab/backend/internal/repository"
	"github.com/lifequest-lab/backend/pkg/errorx"
	"github.com/lifequest-lab/backend/pkg/pubsub"
	"github.com/lifequest-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type AchievementDomain interface {
	GetAchievements(context.Context, *model.GetAchievementsRequest) (*model.GetAchievementsResponse, error)
	GetMyAchievements(context.Context, *model.GetMyAchievementsRequest) (*model.GetMyAchievementsResponse, error)
	EvaluateAchievements(context.Context, *model.EvaluateAchievementsRequest) (*model.EvaluateAchievementsResponse, error)
}

type achievementDomain struct {
	progressRepo    repository.UserProgressRepository
	achievementRepo repository.UserAchievementRepository
	awardRepo       repository.XPAwardRepository
	publisher       pubsub.Publisher

	defs      []config.AchievementDefinition
	defByCode map[string]config.AchievementDefinition
}

func NewAchievementDomain(
	progressRepo repository.UserProgressRepository,
	achievementRepo repository.UserAchievementRepository,
	awardRepo repository.XPAwardRepository,
	publisher pubsub.Publisher,
	gameData *config.GameData,
) *achievementDomain {
	defByCode := make(map[string]config.AchievementDefinition)
	for _, def := range gameData.Achievements {
		defByCode[def.Code] = def
	}

	return &achievementDomain{
		progressRepo:    progressRepo,
		achievementRepo: achievementRepo,
		awardRepo:       awardRepo,
		publisher:       publisher,
		defs:            gameData.Achievements,
		defByCode:       defByCode,
	}
}

func (d *achievementDomain) GetAchievements(
	ctx context.Context, req *model.GetAchievementsRequest,
) (*model.GetAchievementsResponse, error) {
	achievements := []model.Achievement{}
	for _, def := range d.defs {
		achievements = append(achievements, model.ConvertAchievement(def))
	}

	return &model.GetAchievementsResponse{Achievements: achievements}, nil
}

func (d *achievementDomain) GetMyAchievements(
	ctx context.Context, req *model.GetMyAchievementsRequest,
) (*model.GetMyAchievementsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	unlocks, err := d.achievementRepo.GetListByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get achievements of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	achievements := []model.UserAchievement{}
	for i := range unlocks {
		def, ok := d.defByCode[unlocks[i].AchievementCode]
		if !ok {
			// Definition was removed from the game data after the unlock.
			def = config.AchievementDefinition{Code: unlocks[i].AchievementCode}
		}

		achievements = append(achievements, model.ConvertUserAchievement(&unlocks[i], def))
	}

	return &model.GetMyAchievementsResponse{Achievements: achievements}, nil
}

// EvaluateAchievements checks every definition against the user's lifetime
// stats and unlocks the ones newly crossed. Unlock and XP reward commit in
// one transaction per achievement, so re-evaluation never double-awards.
func (d *achievementDomain) EvaluateAchievements(
	ctx context.Context, req *model.EvaluateAchievementsRequest,
) (*model.EvaluateAchievementsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	progress, err := d.progressRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user progress")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user progress: %v", err)
		return nil, errorx.Unknown
	}

	existing, err := d.achievementRepo.GetListByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get achievements of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	unlockedCodes := map[string]bool{}
	for _, unlock := range existing {
		unlockedCodes[unlock.AchievementCode] = true
	}

	unlocked := []model.UserAchievement{}
	for _, def := range d.defs {
		if unlockedCodes[def.Code] || statValue(progress, def.Stat) < def.Threshold {
			continue
		}

		unlock, err := d.unlock(ctx, userID, def)
		if err != nil {
			return nil, err
		}

		if unlock == nil {
			continue
		}

		unlocked = append(unlocked, *unlock)
		published := notification.Publish(ctx, d.publisher, notification.Event{
			Type:   notification.AchievementUnlockedEvent,
			UserID: userID,
			Data:   map[string]any{"code": def.Code, "xp_reward": def.XPReward},
		})
		if published {
			if err := d.achievementRepo.MarkNotified(ctx, userID, def.Code); err != nil {
				xcontext.Logger(ctx).Warnf(
					"Cannot mark achievement %s as notified: %v", def.Code, err)
			}
		}
	}

	return &model.EvaluateAchievementsResponse{Unlocked: unlocked}, nil
}

func (d *achievementDomain) unlock(
	ctx context.Context, userID string, def config.AchievementDefinition,
) (*model.UserAchievement, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer func() {
		ctx = xcontext.WithRollbackDBTransaction(ctx)
	}()

	record := &entity.UserAchievement{
		UserID:          userID,
		AchievementCode: def.Code,
		XPAwarded:       def.XPReward,
	}

	inserted, err := d.achievementRepo.Unlock(ctx, record)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unlock achievement %s: %v", def.Code, err)
		return nil, errorx.Unknown
	}

	// Another request unlocked it concurrently.
	if !inserted {
		return nil, nil
	}

	if def.XPReward > 0 {
		applied, err := applyAward(
			ctx,
			d.progressRepo, d.awardRepo,
			userID,
			"achievement",
			fmt.Sprintf("achievement:%s", def.Code),
			"",
			progression.AwardBreakdown{BaseXP: def.XPReward, TotalXP: def.XPReward},
			nil,
		)
		if err != nil {
			return nil, err
		}

		if !applied.inserted {
			return nil, nil
		}
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)
	achievement := model.ConvertUserAchievement(record, def)
	return &achievement, nil
}

func statValue(progress *entity.UserProgress, stat string) int64 {
	switch stat {
	case "total_xp":
		return progress.TotalXP
	case "level":
		return int64(progress.Level)
	case "current_streak":
		return int64(progress.CurrentStreak)
	case "longest_streak":
		return int64(progress.LongestStreak)
	case "total_actions":
		return progress.TotalActions
	case "total_visits":
		return progress.TotalVisits
	case "total_reviews":
		return progress.TotalReviews
	case "total_workouts":
		return progress.TotalWorkouts
	case "total_quest_logs":
		return progress.TotalQuestLogs
	case "personal_records":
		return progress.PersonalRecords
	default:
		return 0
	}
}
