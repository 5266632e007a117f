package domain

import (
	"context"
	"testing"

	"github.com/lifequest-lab/backend/internal/domain/progression"
	"github.com/lifequest-lab/backend/internal/repository"
	"github.com/lifequest-lab/backend/pkg/testutil"
	"github.com/lifequest-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

// racingProgressRepo lands an extra increment right before the wrapped one,
// simulating another award committing between our pre-read and our update.
type racingProgressRepo struct {
	repository.UserProgressRepository

	t     *testing.T
	extra int64
	done  bool
}

func (r *racingProgressRepo) IncreaseXP(
	ctx context.Context, userID string, amount int64, statColumns ...string,
) error {
	if !r.done {
		r.done = true
		err := r.UserProgressRepository.IncreaseXP(ctx, userID, r.extra)
		require.NoError(r.t, err)
	}

	return r.UserProgressRepository.IncreaseXP(ctx, userID, amount, statColumns...)
}

func Test_applyAward_concurrentAwardKeepsLevelConsistent(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	progressRepo := &racingProgressRepo{
		UserProgressRepository: repository.NewUserProgressRepository(),
		t:                      t,
		extra:                  200,
	}
	awardRepo := repository.NewXPAwardRepository()

	ctx = xcontext.WithDBTransaction(ctx)
	applied, err := applyAward(
		ctx, progressRepo, awardRepo, testutil.User1.ID,
		"visit", "log-1", "",
		progression.AwardBreakdown{BaseXP: 100, TotalXP: 100}, nil,
	)
	require.NoError(t, err)
	require.True(t, applied.inserted)
	ctx = xcontext.WithCommitDBTransaction(ctx)

	// The stored level must match the total including the racing increment,
	// not the one computed from the stale pre-read.
	progress, err := repository.NewUserProgressRepository().Get(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.EqualValues(t, 300, progress.TotalXP)
	require.Equal(t, progression.LevelForTotalXP(300, progression.HeroCurve).Level, progress.Level)
	require.Equal(t, 2, progress.Level)

	// A consistent row keeps accepting awards.
	applied, err = applyAward(
		ctx, repository.NewUserProgressRepository(), awardRepo, testutil.User1.ID,
		"visit", "log-2", "",
		progression.AwardBreakdown{BaseXP: 10, TotalXP: 10}, nil,
	)
	require.NoError(t, err)
	require.True(t, applied.inserted)
}
