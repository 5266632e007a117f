package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lifequest-lab/backend/config"
	"github.com/lifequest-lab/backend/internal/common"
	"github.com/lifequest-lab/backend/internal/domain/notification"
	"github.com/lifequest-lab/backend/internal/entity"
	"github.com/lifequest-lab/backend/internal/model"
	"github.com/lifequest-lab/backend/internal/repository"
	"github.com/lifequest-lab/backend/pkg/errorx"
	"github.com/lifequest-lab/backend/pkg/pubsub"
	"github.com/lifequest-lab/backend/pkg/xcontext"
	"github.com/lifequest-lab/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type LeagueDomain interface {
	JoinLeague(context.Context, *model.JoinLeagueRequest) (*model.JoinLeagueResponse, error)
	GetLeagueStandings(context.Context, *model.GetLeagueStandingsRequest) (*model.GetLeagueStandingsResponse, error)
	GetMyLeague(context.Context, *model.GetMyLeagueRequest) (*model.GetMyLeagueResponse, error)
	FinalizeLeague(context.Context, *model.FinalizeLeagueRequest) (*model.FinalizeLeagueResponse, error)
}

type leagueDomain struct {
	leagueRepo  repository.LeagueRepository
	redisClient xredis.Client
	publisher   pubsub.Publisher

	// tiers sorted from lowest to highest level.
	tiers     []config.LeagueTierDefinition
	tierIndex map[string]int
}

func NewLeagueDomain(
	leagueRepo repository.LeagueRepository,
	redisClient xredis.Client,
	publisher pubsub.Publisher,
	gameData *config.GameData,
) *leagueDomain {
	tiers := make([]config.LeagueTierDefinition, len(gameData.LeagueTiers))
	copy(tiers, gameData.LeagueTiers)
	slices.SortFunc(tiers, func(a, b config.LeagueTierDefinition) bool {
		return a.Level < b.Level
	})

	tierIndex := make(map[string]int)
	for i, tier := range tiers {
		tierIndex[tier.Name] = i
	}

	return &leagueDomain{
		leagueRepo:  leagueRepo,
		redisClient: redisClient,
		publisher:   publisher,
		tiers:       tiers,
		tierIndex:   tierIndex,
	}
}

func (d *leagueDomain) JoinLeague(
	ctx context.Context, req *model.JoinLeagueRequest,
) (*model.JoinLeagueResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	now := time.Now()
	period := entity.NewLeaguePeriod(now)

	_, err := d.leagueRepo.GetActiveMembershipByUserID(ctx, userID, period.Period())
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Already joined a league this week")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get league membership of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	tier, err := d.placementTier(ctx, userID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer func() {
		ctx = xcontext.WithRollbackDBTransaction(ctx)
	}()

	league, err := d.leagueRepo.GetUnderCapacity(ctx, tier, period.Period())
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get open league of tier %s: %v", tier, err)
			return nil, errorx.Unknown
		}

		league = &entity.League{
			Base:      entity.Base{ID: uuid.NewString()},
			Tier:      tier,
			Period:    period.Period(),
			Capacity:  xcontext.Configs(ctx).Game.LeagueCapacity,
			StartTime: period.Start(),
			EndTime:   period.End(),
		}

		if err := d.leagueRepo.Create(ctx, league); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create league of tier %s: %v", tier, err)
			return nil, errorx.Unknown
		}
	}

	err = d.leagueRepo.CreateMembership(ctx, &entity.LeagueMembership{
		LeagueID: league.ID,
		UserID:   userID,
		JoinedAt: now,
		Status:   entity.MembershipActive,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create league membership of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	if d.redisClient != nil {
		err := d.redisClient.ZAdd(ctx,
			common.RedisKeyLeagueStandings(league.ID), redis.Z{Score: 0, Member: userID})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot add user to league standings cache: %v", err)
		}
	}

	return &model.JoinLeagueResponse{League: model.ConvertLeague(league)}, nil
}

// placementTier determines which tier a joining user belongs to, reading the
// outcome of their most recently finalized week. New users start at the
// bottom tier.
func (d *leagueDomain) placementTier(ctx context.Context, userID string) (string, error) {
	latest, err := d.leagueRepo.GetLatestFinalizedByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return d.tiers[0].Name, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get finalized membership of user %s: %v", userID, err)
		return "", errorx.Unknown
	}

	league, err := d.leagueRepo.GetByID(ctx, latest.LeagueID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get league %s: %v", latest.LeagueID, err)
		return "", errorx.Unknown
	}

	index, ok := d.tierIndex[league.Tier]
	if !ok {
		xcontext.Logger(ctx).Errorf("League %s has unknown tier %s", league.ID, league.Tier)
		return "", errorx.Unknown
	}

	switch latest.Outcome {
	case entity.OutcomePromoted:
		if index < len(d.tiers)-1 {
			index++
		}
	case entity.OutcomeDemoted:
		if index > 0 {
			index--
		}
	}

	return d.tiers[index].Name, nil
}

func (d *leagueDomain) GetLeagueStandings(
	ctx context.Context, req *model.GetLeagueStandingsRequest,
) (*model.GetLeagueStandingsResponse, error) {
	league, err := d.leagueRepo.GetByID(ctx, req.LeagueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found league")
		}

		xcontext.Logger(ctx).Errorf("Cannot get league %s: %v", req.LeagueID, err)
		return nil, errorx.Unknown
	}

	members, err := d.leagueRepo.GetMembers(ctx, league.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get members of league %s: %v", league.ID, err)
		return nil, errorx.Unknown
	}

	standings := make([]model.LeagueStanding, 0, len(members))
	for i, member := range members {
		standing := model.LeagueStanding{
			Rank:     i + 1,
			UserID:   member.UserID,
			WeeklyXP: member.WeeklyXP,
		}

		if league.Finalized {
			standing.Rank = member.FinalRank
			standing.Outcome = string(member.Outcome)
		}

		standings = append(standings, standing)
	}

	if !league.Finalized {
		d.refreshStandingsCache(ctx, league.ID, members)
	}

	return &model.GetLeagueStandingsResponse{
		League:    model.ConvertLeague(league),
		Standings: standings,
	}, nil
}

// refreshStandingsCache backfills the redis sorted set serving cheap rank
// lookups. The database ordering stays authoritative.
func (d *leagueDomain) refreshStandingsCache(
	ctx context.Context, leagueID string, members []entity.LeagueMembership,
) {
	if d.redisClient == nil {
		return
	}

	key := common.RedisKeyLeagueStandings(leagueID)
	existed, err := d.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot check league standings cache: %v", err)
		return
	}

	if existed {
		return
	}

	for _, member := range members {
		err := d.redisClient.ZAdd(ctx, key,
			redis.Z{Score: float64(member.WeeklyXP), Member: member.UserID})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot backfill league standings cache: %v", err)
			return
		}
	}
}

func (d *leagueDomain) GetMyLeague(
	ctx context.Context, req *model.GetMyLeagueRequest,
) (*model.GetMyLeagueResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	period := entity.NewLeaguePeriod(time.Now())

	membership, err := d.leagueRepo.GetActiveMembershipByUserID(ctx, userID, period.Period())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not joined a league this week")
		}

		xcontext.Logger(ctx).Errorf("Cannot get league membership of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	league, err := d.leagueRepo.GetByID(ctx, membership.LeagueID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get league %s: %v", membership.LeagueID, err)
		return nil, errorx.Unknown
	}

	rank, err := d.memberRank(ctx, league.ID, userID)
	if err != nil {
		return nil, err
	}

	return &model.GetMyLeagueResponse{
		League:   model.ConvertLeague(league),
		Rank:     rank,
		WeeklyXP: membership.WeeklyXP,
	}, nil
}

func (d *leagueDomain) memberRank(ctx context.Context, leagueID, userID string) (int, error) {
	if d.redisClient != nil {
		rank, err := d.redisClient.ZRevRank(ctx,
			common.RedisKeyLeagueStandings(leagueID), userID)
		if err == nil {
			return int(rank) + 1, nil
		}

		if !errors.Is(err, redis.Nil) {
			xcontext.Logger(ctx).Warnf("Cannot get cached rank of user %s: %v", userID, err)
		}
	}

	members, err := d.leagueRepo.GetMembers(ctx, leagueID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get members of league %s: %v", leagueID, err)
		return 0, errorx.Unknown
	}

	for i, member := range members {
		if member.UserID == userID {
			return i + 1, nil
		}
	}

	return 0, errorx.New(errorx.NotFound, "Not found user in league")
}

// FinalizeLeague ranks a consistent snapshot of the cohort, promotes the top
// and demotes the bottom per tier constants, and freezes every membership.
func (d *leagueDomain) FinalizeLeague(
	ctx context.Context, req *model.FinalizeLeagueRequest,
) (*model.FinalizeLeagueResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer func() {
		ctx = xcontext.WithRollbackDBTransaction(ctx)
	}()

	league, err := d.leagueRepo.GetByID(ctx, req.LeagueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found league")
		}

		xcontext.Logger(ctx).Errorf("Cannot get league %s: %v", req.LeagueID, err)
		return nil, errorx.Unknown
	}

	if league.Finalized {
		return nil, errorx.New(errorx.AlreadyExists, "League is already finalized")
	}

	if league.EndTime.After(time.Now()) {
		return nil, errorx.New(errorx.BadRequest, "League period has not ended yet")
	}

	tierIdx, ok := d.tierIndex[league.Tier]
	if !ok {
		xcontext.Logger(ctx).Errorf("League %s has unknown tier %s", league.ID, league.Tier)
		return nil, errorx.Unknown
	}

	members, err := d.leagueRepo.GetMembers(ctx, league.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get members of league %s: %v", league.ID, err)
		return nil, errorx.Unknown
	}

	tier := d.tiers[tierIdx]
	standings := make([]model.LeagueStanding, 0, len(members))
	outcomes := make([]entity.LeagueOutcome, len(members))
	for i, member := range members {
		rank := i + 1
		outcome := entity.OutcomeStayed
		switch {
		case rank <= tier.PromoteCount && tierIdx < len(d.tiers)-1:
			outcome = entity.OutcomePromoted
		case rank > len(members)-tier.DemoteCount && tierIdx > 0:
			outcome = entity.OutcomeDemoted
		}

		err := d.leagueRepo.FinalizeMembership(ctx, league.ID, member.UserID, rank, outcome)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot finalize membership of user %s: %v", member.UserID, err)
			return nil, errorx.Unknown
		}

		outcomes[i] = outcome
		standings = append(standings, model.LeagueStanding{
			Rank:     rank,
			UserID:   member.UserID,
			WeeklyXP: member.WeeklyXP,
			Outcome:  string(outcome),
		})
	}

	if err := d.leagueRepo.SetFinalized(ctx, league.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot finalize league %s: %v", league.ID, err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	if d.redisClient != nil {
		err := d.redisClient.Del(ctx, common.RedisKeyLeagueStandings(league.ID))
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot drop league standings cache: %v", err)
		}
	}

	for i, member := range members {
		var eventType notification.EventType
		switch outcomes[i] {
		case entity.OutcomePromoted:
			eventType = notification.LeaguePromotedEvent
		case entity.OutcomeDemoted:
			eventType = notification.LeagueDemotedEvent
		default:
			continue
		}

		notification.Publish(ctx, d.publisher, notification.Event{
			Type:   eventType,
			UserID: member.UserID,
			Data: map[string]any{
				"league_id": league.ID,
				"tier":      league.Tier,
				"rank":      i + 1,
			},
		})
	}

	return &model.FinalizeLeagueResponse{Standings: standings}, nil
}
