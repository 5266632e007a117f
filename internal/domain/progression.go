package domain

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/lifequest-lab/backend/config"
	"github.com/lifequest-lab/backend/internal/common"
	"github.com/lifequest-lab/backend/internal/domain/notification"
	"github.com/lifequest-lab/backend/internal/domain/progression"
	"github.com/lifequest-lab/backend/internal/entity"
	"github.com/lifequest-lab/backend/internal/model"
	"github.com/lifequest-lab/backend/internal/repository"
	"github.com/lifequest-lab/backend/pkg/errorx"
	"github.com/lifequest-lab/backend/pkg/pubsub"
	"github.com/lifequest-lab/backend/pkg/xcontext"
	"github.com/lifequest-lab/backend/pkg/xredis"
	"github.com/mitchellh/mapstructure"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const defaultAwardHistoryLimit = 20

type ProgressionDomain interface {
	AwardXP(context.Context, *model.AwardXPRequest) (*model.AwardXPResponse, error)
	GetProgress(context.Context, *model.GetProgressRequest) (*model.GetProgressResponse, error)
	GetAwardHistory(context.Context, *model.GetAwardHistoryRequest) (*model.GetAwardHistoryResponse, error)
	RecordActivity(context.Context, *model.RecordActivityRequest) (*model.RecordActivityResponse, error)
	ActivateBoost(context.Context, *model.ActivateBoostRequest) (*model.ActivateBoostResponse, error)
}

type boostState struct {
	Multiplier float64   `json:"multiplier"`
	ExpiredAt  time.Time `json:"expired_at"`
}

type progressionDomain struct {
	userRepo          repository.UserRepository
	progressRepo      repository.UserProgressRepository
	awardRepo         repository.XPAwardRepository
	leagueRepo        repository.LeagueRepository
	achievementDomain AchievementDomain
	redisClient       xredis.Client
	publisher         pubsub.Publisher

	actions map[string]config.ActionDefinition
	rng     progression.Rand
}

func NewProgressionDomain(
	userRepo repository.UserRepository,
	progressRepo repository.UserProgressRepository,
	awardRepo repository.XPAwardRepository,
	leagueRepo repository.LeagueRepository,
	achievementDomain AchievementDomain,
	redisClient xredis.Client,
	publisher pubsub.Publisher,
	gameData *config.GameData,
) *progressionDomain {
	actions := make(map[string]config.ActionDefinition)
	for _, action := range gameData.Actions {
		actions[action.Type] = action
	}

	return &progressionDomain{
		userRepo:          userRepo,
		progressRepo:      progressRepo,
		awardRepo:         awardRepo,
		leagueRepo:        leagueRepo,
		achievementDomain: achievementDomain,
		redisClient:       redisClient,
		publisher:         publisher,
		actions:           actions,
		rng:               cryptoRand{},
	}
}

func (d *progressionDomain) AwardXP(
	ctx context.Context, req *model.AwardXPRequest,
) (*model.AwardXPResponse, error) {
	action, ok := d.actions[req.ActionType]
	if !ok {
		return nil, errorx.New(errorx.BadRequest, "Unsupported action type %s", req.ActionType)
	}

	var actionCtx model.ActionContext
	if req.Context != nil {
		if err := mapstructure.Decode(req.Context, &actionCtx); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid action context")
		}
	}

	occurredAt, err := parseOccurredAt(req.OccurredAt)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid occurred_at time")
	}

	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	boost := d.boostMultiplier(ctx, userID)
	gameCfg := xcontext.Configs(ctx).Game

	ctx = xcontext.WithDBTransaction(ctx)
	defer func() {
		ctx = xcontext.WithRollbackDBTransaction(ctx)
	}()

	progress, err := d.progressRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user progress")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user progress: %v", err)
		return nil, errorx.Unknown
	}

	var lastActivity *time.Time
	if progress.LastActivityDate.Valid {
		lastActivity = &progress.LastActivityDate.Time
	}

	streak := progression.AdvanceStreak(
		progress.CurrentStreak, progress.LongestStreak,
		lastActivity, occurredAt, userLocation(user),
	)
	if streak.Changed {
		err := d.progressRepo.UpdateStreak(ctx, userID,
			streak.CurrentStreak, streak.LongestStreak, streak.LastActivityDate)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update streak of user %s: %v", userID, err)
			return nil, errorx.Unknown
		}
	}

	breakdown := progression.ComputeAward(progression.AwardParams{
		BaseXP:            action.BaseXP,
		StreakDays:        streak.CurrentStreak,
		StreakBonusPerDay: gameCfg.StreakBonusPerDay,
		StreakBonusMax:    gameCfg.StreakBonusMax,
		CritChance:        gameCfg.CritChance,
		BoostMultiplier:   boost,
	}, d.rng)

	applied, err := applyAward(
		ctx,
		d.progressRepo, d.awardRepo,
		userID, req.ActionType, req.IdempotencyKey, action.Skill,
		breakdown,
		statColumns(req.ActionType, actionCtx),
	)
	if err != nil {
		return nil, err
	}

	if !applied.inserted {
		ctx = xcontext.WithRollbackDBTransaction(ctx)
		return d.replayAward(ctx, userID, req.IdempotencyKey)
	}

	period := entity.NewLeaguePeriod(occurredAt)
	membership, err := d.leagueRepo.GetActiveMembershipByUserID(ctx, userID, period.Period())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get league membership of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	if membership != nil {
		err := d.leagueRepo.IncreaseWeeklyXP(
			ctx, membership.LeagueID, userID, int64(breakdown.TotalXP))
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase weekly xp of user %s: %v", userID, err)
			return nil, errorx.Unknown
		}
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	if membership != nil && d.redisClient != nil {
		err := d.redisClient.ZIncrBy(ctx,
			common.RedisKeyLeagueStandings(membership.LeagueID),
			int64(breakdown.TotalXP), userID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update league standings cache: %v", err)
		}
	}

	if applied.leveledUp {
		notification.Publish(ctx, d.publisher, notification.Event{
			Type:   notification.LeveledUpEvent,
			UserID: userID,
			Data:   map[string]any{"level": applied.hero.Level},
		})
	}

	if d.achievementDomain != nil {
		_, err := d.achievementDomain.EvaluateAchievements(ctx, &model.EvaluateAchievementsRequest{})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot evaluate achievements of user %s: %v", userID, err)
		}
	}

	return convertAward(applied.award, applied.hero, false), nil
}

func (d *progressionDomain) replayAward(
	ctx context.Context, userID, idempotencyKey string,
) (*model.AwardXPResponse, error) {
	prior, err := d.awardRepo.GetByIdempotencyKey(ctx, userID, idempotencyKey)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get prior award of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	progress, err := d.progressRepo.Get(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user progress: %v", err)
		return nil, errorx.Unknown
	}

	hero := progression.LevelForTotalXP(progress.TotalXP, progression.HeroCurve)
	return convertAward(prior, hero, true), nil
}

func (d *progressionDomain) GetProgress(
	ctx context.Context, req *model.GetProgressRequest,
) (*model.GetProgressResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	progress, err := d.progressRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user progress")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user progress: %v", err)
		return nil, errorx.Unknown
	}

	skillRows, err := d.progressRepo.GetSkills(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get skill progress of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	skills := []model.SkillProgress{}
	for _, row := range skillRows {
		info := progression.LevelForTotalXP(row.XP, progression.SkillCurve)
		skills = append(skills, model.SkillProgress{
			Skill: row.Skill,
			XP:    row.XP,
			Info:  convertLevelInfo(info),
		})
	}

	resp := &model.GetProgressResponse{
		TotalXP:         progress.TotalXP,
		Hero:            convertLevelInfo(progression.LevelForTotalXP(progress.TotalXP, progression.HeroCurve)),
		CurrentStreak:   progress.CurrentStreak,
		LongestStreak:   progress.LongestStreak,
		Skills:          skills,
		TotalActions:    progress.TotalActions,
		TotalVisits:     progress.TotalVisits,
		TotalReviews:    progress.TotalReviews,
		TotalWorkouts:   progress.TotalWorkouts,
		TotalQuestLogs:  progress.TotalQuestLogs,
		PersonalRecords: progress.PersonalRecords,
	}

	if progress.LastActivityDate.Valid {
		resp.LastActivityDate = progress.LastActivityDate.Time.Format(model.DefaultDateLayout)
	}

	return resp, nil
}

func (d *progressionDomain) GetAwardHistory(
	ctx context.Context, req *model.GetAwardHistoryRequest,
) (*model.GetAwardHistoryResponse, error) {
	if req.Limit == 0 {
		req.Limit = defaultAwardHistoryLimit
	}

	userID := xcontext.RequestUserID(ctx)
	rows, err := d.awardRepo.GetListByUserID(ctx, userID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get award history of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	awards := []model.XPAwardEntry{}
	for i := range rows {
		awards = append(awards, model.ConvertXPAward(&rows[i]))
	}

	return &model.GetAwardHistoryResponse{Awards: awards}, nil
}

func (d *progressionDomain) RecordActivity(
	ctx context.Context, req *model.RecordActivityRequest,
) (*model.RecordActivityResponse, error) {
	occurredAt, err := parseOccurredAt(req.OccurredAt)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid occurred_at time")
	}

	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	progress, err := d.progressRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user progress")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user progress: %v", err)
		return nil, errorx.Unknown
	}

	var lastActivity *time.Time
	if progress.LastActivityDate.Valid {
		lastActivity = &progress.LastActivityDate.Time
	}

	streak := progression.AdvanceStreak(
		progress.CurrentStreak, progress.LongestStreak,
		lastActivity, occurredAt, userLocation(user),
	)
	if streak.Changed {
		err := d.progressRepo.UpdateStreak(ctx, userID,
			streak.CurrentStreak, streak.LongestStreak, streak.LastActivityDate)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update streak of user %s: %v", userID, err)
			return nil, errorx.Unknown
		}
	}

	return &model.RecordActivityResponse{
		CurrentStreak: streak.CurrentStreak,
		LongestStreak: streak.LongestStreak,
		StreakBroken:  streak.StreakBroken,
		Changed:       streak.Changed,
	}, nil
}

func (d *progressionDomain) ActivateBoost(
	ctx context.Context, req *model.ActivateBoostRequest,
) (*model.ActivateBoostResponse, error) {
	if d.redisClient == nil {
		return nil, errorx.New(errorx.Unavailable, "Boosts are not available now")
	}

	userID := xcontext.RequestUserID(ctx)
	ttl := xcontext.Configs(ctx).Game.BoostTTL
	state := boostState{
		Multiplier: req.Multiplier,
		ExpiredAt:  time.Now().Add(ttl),
	}

	err := d.redisClient.SetObj(ctx, common.RedisKeyXPBoost(userID), state, ttl)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot store boost of user %s: %v", userID, err)
		return nil, errorx.New(errorx.Unavailable, "Boosts are not available now")
	}

	return &model.ActivateBoostResponse{
		Multiplier: state.Multiplier,
		ExpiredAt:  state.ExpiredAt.Format(model.DefaultTimeLayout),
	}, nil
}

// boostMultiplier reads the active boost, treating every miss or failure as
// no boost.
func (d *progressionDomain) boostMultiplier(ctx context.Context, userID string) float64 {
	if d.redisClient == nil {
		return 1
	}

	var state boostState
	err := d.redisClient.GetObj(ctx, common.RedisKeyXPBoost(userID), &state)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			xcontext.Logger(ctx).Warnf("Cannot get boost of user %s: %v", userID, err)
		}

		return 1
	}

	if state.Multiplier <= 1 {
		return 1
	}

	return state.Multiplier
}

func parseOccurredAt(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}

	return time.Parse(time.RFC3339, value)
}

func userLocation(user *entity.User) *time.Location {
	if user.Timezone == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(user.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

func statColumns(actionType string, actionCtx model.ActionContext) []string {
	columns := []string{"total_actions"}
	switch actionType {
	case "visit":
		columns = append(columns, "total_visits")
	case "review":
		columns = append(columns, "total_reviews")
	case "workout_set", "workout_completed":
		columns = append(columns, "total_workouts")
	case "quest_log":
		columns = append(columns, "total_quest_logs")
	}

	if actionCtx.PersonalRecord {
		columns = append(columns, "personal_records")
	}

	return columns
}

func convertLevelInfo(info progression.LevelInfo) model.LevelInfo {
	return model.LevelInfo{
		Level:          info.Level,
		XPIntoLevel:    info.XPIntoLevel,
		XPForNextLevel: info.XPForNextLevel,
	}
}

func convertAward(award *entity.XPAward, hero progression.LevelInfo, duplicate bool) *model.AwardXPResponse {
	return &model.AwardXPResponse{
		AwardID:     strconv.FormatInt(award.ID, 10),
		BaseXP:      award.BaseXP,
		StreakBonus: award.StreakBonus,
		CritBonus:   award.CritBonus,
		BoostBonus:  award.BoostBonus,
		TotalXP:     award.TotalXP,
		CriticalHit: award.CriticalHit,
		LeveledUp:   award.LeveledUp,
		Hero:        convertLevelInfo(hero),
		Duplicate:   duplicate,
	}
}
