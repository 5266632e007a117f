package domain

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lifequest-lab/backend/internal/entity"
	"github.com/lifequest-lab/backend/internal/model"
	"github.com/lifequest-lab/backend/internal/repository"
	"github.com/lifequest-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_leagueDomain_JoinLeague(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domains := newTestDomains(t)

	resp, err := domains.league.JoinLeague(ctx, &model.JoinLeagueRequest{})
	require.NoError(t, err)
	require.Equal(t, "bronze", resp.League.Tier)
	require.Equal(t, 30, resp.League.Capacity)

	_, err = domains.league.JoinLeague(ctx, &model.JoinLeagueRequest{})
	require.Error(t, err)
	require.Equal(t, "Already joined a league this week", err.Error())

	mine, err := domains.league.GetMyLeague(ctx, &model.GetMyLeagueRequest{})
	require.NoError(t, err)
	require.Equal(t, resp.League.ID, mine.League.ID)
	require.Equal(t, 1, mine.Rank)
	require.EqualValues(t, 0, mine.WeeklyXP)
}

func Test_leagueDomain_awardsAccrueWeeklyXP(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domains := newTestDomains(t)

	_, err := domains.league.JoinLeague(ctx, &model.JoinLeagueRequest{})
	require.NoError(t, err)

	awardVisits(t, ctx, domains, "v1")

	mine, err := domains.league.GetMyLeague(ctx, &model.GetMyLeagueRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 26, mine.WeeklyXP)
	require.Equal(t, 1, mine.Rank)
}

func insertFinishedLeague(
	t *testing.T, ctx context.Context, tier string, memberCount int,
) *entity.League {
	t.Helper()
	leagueRepo := repository.NewLeagueRepository()

	league := &entity.League{
		Base:      entity.Base{ID: fmt.Sprintf("%s-league", tier)},
		Tier:      tier,
		Period:    "1:2020",
		Capacity:  30,
		StartTime: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2020, 1, 8, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, leagueRepo.Create(ctx, league))

	for i := 1; i <= memberCount; i++ {
		err := leagueRepo.CreateMembership(ctx, &entity.LeagueMembership{
			LeagueID: league.ID,
			UserID:   fmt.Sprintf("u%02d", i),
			WeeklyXP: int64((memberCount - i) * 10),
			JoinedAt: league.StartTime.Add(time.Duration(i) * time.Minute),
			Status:   entity.MembershipActive,
		})
		require.NoError(t, err)
	}

	return league
}

func Test_leagueDomain_FinalizeLeague(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domains := newTestDomains(t)

	// Silver promotes the top 7 and demotes the bottom 5, so with 15
	// members ranks 8 to 10 stay.
	league := insertFinishedLeague(t, ctx, "silver", 15)

	resp, err := domains.league.FinalizeLeague(ctx, &model.FinalizeLeagueRequest{
		LeagueID: league.ID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Standings, 15)

	for i, standing := range resp.Standings {
		require.Equal(t, i+1, standing.Rank)
		require.Equal(t, fmt.Sprintf("u%02d", i+1), standing.UserID)

		switch {
		case standing.Rank <= 7:
			require.Equal(t, "promoted", standing.Outcome)
		case standing.Rank > 10:
			require.Equal(t, "demoted", standing.Outcome)
		default:
			require.Equal(t, "stayed", standing.Outcome)
		}
	}

	// A finalized league cannot be finalized again nor accrue XP.
	_, err = domains.league.FinalizeLeague(ctx, &model.FinalizeLeagueRequest{
		LeagueID: league.ID,
	})
	require.Error(t, err)
	require.Equal(t, "League is already finalized", err.Error())

	leagueRepo := repository.NewLeagueRepository()
	err = leagueRepo.IncreaseWeeklyXP(ctx, league.ID, "u01", 100)
	require.Error(t, err)

	standings, err := domains.league.GetLeagueStandings(ctx, &model.GetLeagueStandingsRequest{
		LeagueID: league.ID,
	})
	require.NoError(t, err)
	require.True(t, standings.League.Finalized)
	require.Equal(t, 1, standings.Standings[0].Rank)
	require.Equal(t, "promoted", standings.Standings[0].Outcome)
}

func Test_leagueDomain_FinalizeLeague_tiesGoToEarlierJoiner(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domains := newTestDomains(t)
	leagueRepo := repository.NewLeagueRepository()

	league := &entity.League{
		Base:      entity.Base{ID: "tie-league"},
		Tier:      "bronze",
		Period:    "1:2020",
		Capacity:  30,
		StartTime: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2020, 1, 8, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, leagueRepo.Create(ctx, league))

	late := league.StartTime.Add(time.Hour)
	early := league.StartTime.Add(time.Minute)
	for userID, joinedAt := range map[string]time.Time{"late": late, "early": early} {
		err := leagueRepo.CreateMembership(ctx, &entity.LeagueMembership{
			LeagueID: league.ID,
			UserID:   userID,
			WeeklyXP: 100,
			JoinedAt: joinedAt,
			Status:   entity.MembershipActive,
		})
		require.NoError(t, err)
	}

	resp, err := domains.league.FinalizeLeague(ctx, &model.FinalizeLeagueRequest{
		LeagueID: league.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "early", resp.Standings[0].UserID)
	require.Equal(t, "late", resp.Standings[1].UserID)
}

func Test_leagueDomain_JoinLeague_afterPromotion(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domains := newTestDomains(t)
	leagueRepo := repository.NewLeagueRepository()

	league := &entity.League{
		Base:      entity.Base{ID: "old-league"},
		Tier:      "bronze",
		Period:    "1:2020",
		Capacity:  30,
		StartTime: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2020, 1, 8, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, leagueRepo.Create(ctx, league))
	require.NoError(t, leagueRepo.CreateMembership(ctx, &entity.LeagueMembership{
		LeagueID: league.ID,
		UserID:   testutil.User1.ID,
		WeeklyXP: 500,
		JoinedAt: league.StartTime,
		Status:   entity.MembershipActive,
	}))
	require.NoError(t, leagueRepo.FinalizeMembership(
		ctx, league.ID, testutil.User1.ID, 1, entity.OutcomePromoted))

	resp, err := domains.league.JoinLeague(ctx, &model.JoinLeagueRequest{})
	require.NoError(t, err)
	require.Equal(t, "silver", resp.League.Tier)
}
