package cron

import (
	"context"
	"time"

	"github.com/lifequest-lab/backend/internal/domain"
	"github.com/lifequest-lab/backend/internal/model"
	"github.com/lifequest-lab/backend/internal/repository"
	"github.com/lifequest-lab/backend/pkg/xcontext"
)

// FinalizeLeaguesCronJob finalizes every league whose weekly period has
// ended, writing final ranks and promotion outcomes.
type FinalizeLeaguesCronJob struct {
	leagueRepo   repository.LeagueRepository
	leagueDomain domain.LeagueDomain
}

func NewFinalizeLeaguesCronJob(
	leagueRepo repository.LeagueRepository,
	leagueDomain domain.LeagueDomain,
) *FinalizeLeaguesCronJob {
	return &FinalizeLeaguesCronJob{
		leagueRepo:   leagueRepo,
		leagueDomain: leagueDomain,
	}
}

func (job *FinalizeLeaguesCronJob) Do(ctx context.Context) {
	leagues, err := job.leagueRepo.GetEndedActive(ctx, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ended leagues: %v", err)
		return
	}

	for _, league := range leagues {
		_, err := job.leagueDomain.FinalizeLeague(ctx, &model.FinalizeLeagueRequest{
			LeagueID: league.ID,
		})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot finalize league %s: %v", league.ID, err)
			continue
		}
	}
}

func (job *FinalizeLeaguesCronJob) RunNow() bool {
	return true
}

func (job *FinalizeLeaguesCronJob) Next() time.Time {
	return time.Now().Add(time.Hour)
}
