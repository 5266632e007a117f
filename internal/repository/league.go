package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lifequest-lab/backend/internal/entity"
	"github.com/lifequest-lab/backend/pkg/xcontext"
	"github.com/puzpuzpuz/xsync"
	"gorm.io/gorm"
)

type LeagueRepository interface {
	Create(ctx context.Context, league *entity.League) error
	GetByID(ctx context.Context, id string) (*entity.League, error)
	// GetUnderCapacity returns the oldest open cohort of the tier and period
	// that still has a seat left.
	GetUnderCapacity(ctx context.Context, tier, period string) (*entity.League, error)
	GetEndedActive(ctx context.Context, before time.Time) ([]entity.League, error)
	SetFinalized(ctx context.Context, leagueID string) error

	CreateMembership(ctx context.Context, membership *entity.LeagueMembership) error
	GetMembership(ctx context.Context, leagueID, userID string) (*entity.LeagueMembership, error)
	GetActiveMembershipByUserID(ctx context.Context, userID, period string) (*entity.LeagueMembership, error)
	GetLatestFinalizedByUserID(ctx context.Context, userID string) (*entity.LeagueMembership, error)
	GetMembers(ctx context.Context, leagueID string) ([]entity.LeagueMembership, error)
	CountMembers(ctx context.Context, leagueID string) (int64, error)
	IncreaseWeeklyXP(ctx context.Context, leagueID, userID string, amount int64) error
	FinalizeMembership(
		ctx context.Context,
		leagueID, userID string,
		rank int,
		outcome entity.LeagueOutcome,
	) error
}

type leagueRepository struct {
	// Finalized standings never change again, so they are kept in memory
	// after the first load.
	finalizedStandings *xsync.MapOf[string, []entity.LeagueMembership]
}

func NewLeagueRepository() *leagueRepository {
	return &leagueRepository{
		finalizedStandings: xsync.NewMapOf[[]entity.LeagueMembership](),
	}
}

func (r *leagueRepository) Create(ctx context.Context, league *entity.League) error {
	return xcontext.DB(ctx).Create(league).Error
}

func (r *leagueRepository) GetByID(ctx context.Context, id string) (*entity.League, error) {
	var result entity.League
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *leagueRepository) GetUnderCapacity(
	ctx context.Context, tier, period string,
) (*entity.League, error) {
	var result entity.League
	err := xcontext.DB(ctx).
		Where("tier=? AND period=? AND finalized=false", tier, period).
		Where("(SELECT COUNT(*) FROM league_memberships "+
			"WHERE league_memberships.league_id = leagues.id) < leagues.capacity").
		Order("created_at ASC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *leagueRepository) GetEndedActive(
	ctx context.Context, before time.Time,
) ([]entity.League, error) {
	var result []entity.League
	err := xcontext.DB(ctx).
		Where("finalized=false AND end_time <= ?", before).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *leagueRepository) SetFinalized(ctx context.Context, leagueID string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.League{}).
		Where("id=? AND finalized=false", leagueID).
		Update("finalized", true)
	if err := tx.Error; err != nil {
		return err
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *leagueRepository) CreateMembership(
	ctx context.Context, membership *entity.LeagueMembership,
) error {
	return xcontext.DB(ctx).Create(membership).Error
}

func (r *leagueRepository) GetMembership(
	ctx context.Context, leagueID, userID string,
) (*entity.LeagueMembership, error) {
	var result entity.LeagueMembership
	err := xcontext.DB(ctx).Take(&result, "league_id=? AND user_id=?", leagueID, userID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *leagueRepository) GetActiveMembershipByUserID(
	ctx context.Context, userID, period string,
) (*entity.LeagueMembership, error) {
	var result entity.LeagueMembership
	err := xcontext.DB(ctx).
		Joins("join leagues on leagues.id = league_memberships.league_id").
		Where("league_memberships.user_id=?", userID).
		Where("league_memberships.status=?", entity.MembershipActive).
		Where("leagues.period=?", period).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *leagueRepository) GetLatestFinalizedByUserID(
	ctx context.Context, userID string,
) (*entity.LeagueMembership, error) {
	var result entity.LeagueMembership
	err := xcontext.DB(ctx).
		Joins("join leagues on leagues.id = league_memberships.league_id").
		Where("league_memberships.user_id=?", userID).
		Where("league_memberships.status=?", entity.MembershipFinalized).
		Order("leagues.end_time DESC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetMembers returns the cohort ordered by the standings rule: weekly XP
// descending, earlier joiner first on ties.
func (r *leagueRepository) GetMembers(
	ctx context.Context, leagueID string,
) ([]entity.LeagueMembership, error) {
	if standings, ok := r.finalizedStandings.Load(leagueID); ok {
		return standings, nil
	}

	var result []entity.LeagueMembership
	err := xcontext.DB(ctx).
		Where("league_id=?", leagueID).
		Order("weekly_xp DESC, joined_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	if len(result) > 0 && result[0].Status == entity.MembershipFinalized {
		r.finalizedStandings.Store(leagueID, result)
	}

	return result, nil
}

func (r *leagueRepository) CountMembers(ctx context.Context, leagueID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.LeagueMembership{}).
		Where("league_id=?", leagueID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *leagueRepository) IncreaseWeeklyXP(
	ctx context.Context, leagueID, userID string, amount int64,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.LeagueMembership{}).
		Where("league_id=? AND user_id=? AND status=?", leagueID, userID, entity.MembershipActive).
		Update("weekly_xp", gorm.Expr("weekly_xp+?", amount))
	if err := tx.Error; err != nil {
		return err
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	return nil
}

// FinalizeMembership freezes one row. The status guard makes the transition
// one-way: a finalized row can never be finalized again or re-activated.
func (r *leagueRepository) FinalizeMembership(
	ctx context.Context,
	leagueID, userID string,
	rank int,
	outcome entity.LeagueOutcome,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.LeagueMembership{}).
		Where("league_id=? AND user_id=? AND status=?", leagueID, userID, entity.MembershipActive).
		Updates(map[string]any{
			"status":     entity.MembershipFinalized,
			"final_rank": rank,
			"outcome":    outcome,
		})
	if err := tx.Error; err != nil {
		return err
	}

	if tx.RowsAffected == 0 {
		return fmt.Errorf("membership of user %s is not active", userID)
	}

	return nil
}
