package domain

import (
	"context"
	"testing"

	"github.com/lifequest-lab/backend/internal/model"
	"github.com/lifequest-lab/backend/internal/repository"
	"github.com/lifequest-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

type testDomains struct {
	progression ProgressionDomain
	achievement AchievementDomain
	loot        LootDomain
	league      LeagueDomain

	redisClient *testutil.InMemoryRedisClient
	publisher   *testutil.MockPublisher
}

func newTestDomains(t *testing.T) *testDomains {
	t.Helper()

	redisClient := testutil.NewInMemoryRedisClient()
	publisher := &testutil.MockPublisher{}
	gameData := testutil.GameData()

	userRepo := repository.NewUserRepository()
	progressRepo := repository.NewUserProgressRepository()
	awardRepo := repository.NewXPAwardRepository()
	lootRepo := repository.NewLootRepository()
	achievementRepo := repository.NewUserAchievementRepository()
	leagueRepo := repository.NewLeagueRepository()

	achievementDomain := NewAchievementDomain(
		progressRepo, achievementRepo, awardRepo, publisher, gameData)
	lootDomain, err := NewLootDomain(progressRepo, lootRepo, awardRepo, publisher, gameData)
	require.NoError(t, err)

	return &testDomains{
		progression: NewProgressionDomain(
			userRepo, progressRepo, awardRepo, leagueRepo,
			achievementDomain, redisClient, publisher, gameData),
		achievement: achievementDomain,
		loot:        lootDomain,
		league:      NewLeagueDomain(leagueRepo, redisClient, publisher, gameData),
		redisClient: redisClient,
		publisher:   publisher,
	}
}

func Test_progressionDomain_AwardXP(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domains := newTestDomains(t)

	resp, err := domains.progression.AwardXP(ctx, &model.AwardXPRequest{
		IdempotencyKey: "log-1",
		ActionType:     "visit",
	})
	require.NoError(t, err)
	require.Equal(t, 25, resp.BaseXP)
	require.Equal(t, 1, resp.StreakBonus)
	require.Equal(t, 26, resp.TotalXP)
	require.False(t, resp.CriticalHit)
	require.False(t, resp.Duplicate)

	// The first action also unlocks First Steps (+50 XP).
	progress, err := domains.progression.GetProgress(ctx, &model.GetProgressRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 76, progress.TotalXP)
	require.EqualValues(t, 1, progress.TotalActions)
	require.EqualValues(t, 1, progress.TotalVisits)
	require.Equal(t, 1, progress.CurrentStreak)
	require.Len(t, progress.Skills, 1)
	require.Equal(t, "travel", progress.Skills[0].Skill)
	require.EqualValues(t, 26, progress.Skills[0].XP)
}

func Test_progressionDomain_AwardXP_duplicateKeyIsNoop(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domains := newTestDomains(t)

	first, err := domains.progression.AwardXP(ctx, &model.AwardXPRequest{
		IdempotencyKey: "log-1",
		ActionType:     "visit",
	})
	require.NoError(t, err)

	before, err := domains.progression.GetProgress(ctx, &model.GetProgressRequest{})
	require.NoError(t, err)

	replay, err := domains.progression.AwardXP(ctx, &model.AwardXPRequest{
		IdempotencyKey: "log-1",
		ActionType:     "visit",
	})
	require.NoError(t, err)
	require.True(t, replay.Duplicate)
	require.Equal(t, first.TotalXP, replay.TotalXP)
	require.Equal(t, first.AwardID, replay.AwardID)

	after, err := domains.progression.GetProgress(ctx, &model.GetProgressRequest{})
	require.NoError(t, err)
	require.Equal(t, before.TotalXP, after.TotalXP)
	require.Equal(t, before.TotalActions, after.TotalActions)
}

func Test_progressionDomain_AwardXP_unknownAction(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domains := newTestDomains(t)

	_, err := domains.progression.AwardXP(ctx, &model.AwardXPRequest{
		IdempotencyKey: "log-1",
		ActionType:     "teleport",
	})
	require.Error(t, err)
	require.Equal(t, "Unsupported action type teleport", err.Error())

	progress, err := domains.progression.GetProgress(ctx, &model.GetProgressRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 0, progress.TotalXP)
	require.EqualValues(t, 0, progress.TotalActions)
}

func Test_progressionDomain_AwardXP_levelUp(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domains := newTestDomains(t)

	// Each workout is 50 base + 2 streak bonus, plus 50 from First Steps
	// after the first one. The fourth crosses the 250 XP hero boundary.
	var last *model.AwardXPResponse
	for _, key := range []string{"w1", "w2", "w3", "w4"} {
		var err error
		last, err = domains.progression.AwardXP(ctx, &model.AwardXPRequest{
			IdempotencyKey: key,
			ActionType:     "workout_completed",
		})
		require.NoError(t, err)
	}

	require.True(t, last.LeveledUp)
	require.Equal(t, 2, last.Hero.Level)

	progress, err := domains.progression.GetProgress(ctx, &model.GetProgressRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 258, progress.TotalXP)
	require.Equal(t, 2, progress.Hero.Level)
}

func Test_progressionDomain_AwardXP_boostAppliesLast(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domains := newTestDomains(t)

	boost, err := domains.progression.ActivateBoost(ctx, &model.ActivateBoostRequest{
		Multiplier: 2,
	})
	require.NoError(t, err)
	require.Equal(t, float64(2), boost.Multiplier)

	resp, err := domains.progression.AwardXP(ctx, &model.AwardXPRequest{
		IdempotencyKey: "log-1",
		ActionType:     "visit",
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.StreakBonus)
	require.Equal(t, 26, resp.BoostBonus)
	require.Equal(t, 52, resp.TotalXP)
}

func Test_progressionDomain_GetAwardHistory(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domains := newTestDomains(t)

	awardVisits(t, ctx, domains, "v1", "v2")

	history, err := domains.progression.GetAwardHistory(ctx, &model.GetAwardHistoryRequest{})
	require.NoError(t, err)

	// Newest first: v2, then the First Steps reward v1 triggered, then v1.
	require.Len(t, history.Awards, 3)
	require.Equal(t, "visit", history.Awards[0].ActionType)
	require.Equal(t, "achievement", history.Awards[1].ActionType)
	require.Equal(t, "visit", history.Awards[2].ActionType)

	page, err := domains.progression.GetAwardHistory(ctx, &model.GetAwardHistoryRequest{
		Offset: 2,
		Limit:  2,
	})
	require.NoError(t, err)
	require.Len(t, page.Awards, 1)
}

func Test_progressionDomain_RecordActivity_sameDayIsNoop(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domains := newTestDomains(t)

	first, err := domains.progression.RecordActivity(ctx, &model.RecordActivityRequest{})
	require.NoError(t, err)
	require.True(t, first.Changed)
	require.Equal(t, 1, first.CurrentStreak)

	second, err := domains.progression.RecordActivity(ctx, &model.RecordActivityRequest{})
	require.NoError(t, err)
	require.False(t, second.Changed)
	require.Equal(t, 1, second.CurrentStreak)
}

func Test_progressionDomain_RecordActivity_staleActivityIgnored(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domains := newTestDomains(t)

	_, err := domains.progression.RecordActivity(ctx, &model.RecordActivityRequest{})
	require.NoError(t, err)

	stale, err := domains.progression.RecordActivity(ctx, &model.RecordActivityRequest{
		OccurredAt: "2020-01-01T10:00:00Z",
	})
	require.NoError(t, err)
	require.False(t, stale.Changed)
	require.Equal(t, 1, stale.CurrentStreak)
}

func Test_progressionDomain_GetProgress_notFoundUser(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domains := newTestDomains(t)

	_, err := domains.progression.GetProgress(ctx, &model.GetProgressRequest{
		UserID: "nobody",
	})
	require.Error(t, err)
	require.Equal(t, "Not found user progress", err.Error())
}

func awardVisits(
	t *testing.T, ctx context.Context, domains *testDomains, keys ...string,
) {
	t.Helper()
	for _, key := range keys {
		_, err := domains.progression.AwardXP(ctx, &model.AwardXPRequest{
			IdempotencyKey: key,
			ActionType:     "visit",
		})
		require.NoError(t, err)
	}
}
