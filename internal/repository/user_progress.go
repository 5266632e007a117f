package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lifequest-lab/backend/internal/entity"
	"github.com/lifequest-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserProgressRepository interface {
	Get(ctx context.Context, userID string) (*entity.UserProgress, error)
	Create(ctx context.Context, progress *entity.UserProgress) error
	IncreaseXP(ctx context.Context, userID string, amount int64, statColumns ...string) error
	SetLevel(ctx context.Context, userID string, level int) error
	UpdateStreak(
		ctx context.Context,
		userID string,
		currentStreak, longestStreak int,
		lastActivityDate time.Time,
	) error
	GetSkill(ctx context.Context, userID, skill string) (*entity.SkillProgress, error)
	GetSkills(ctx context.Context, userID string) ([]entity.SkillProgress, error)
	IncreaseSkillXP(ctx context.Context, userID, skill string, amount int64) error
	SetSkillLevel(ctx context.Context, userID, skill string, level int) error
}

type userProgressRepository struct{}

func NewUserProgressRepository() *userProgressRepository {
	return &userProgressRepository{}
}

func (r *userProgressRepository) Get(ctx context.Context, userID string) (*entity.UserProgress, error) {
	var result entity.UserProgress
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userProgressRepository) Create(ctx context.Context, progress *entity.UserProgress) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(progress).Error
}

// IncreaseXP atomically adds to the XP total and bumps the given lifetime stat
// counters by one each.
func (r *userProgressRepository) IncreaseXP(
	ctx context.Context, userID string, amount int64, statColumns ...string,
) error {
	updateMap := map[string]any{
		"total_xp": gorm.Expr("total_xp+?", amount),
	}
	for _, column := range statColumns {
		updateMap[column] = gorm.Expr(column + "+1")
	}

	tx := xcontext.DB(ctx).
		Model(&entity.UserProgress{}).
		Where("user_id=?", userID).
		Updates(updateMap)
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

func (r *userProgressRepository) SetLevel(ctx context.Context, userID string, level int) error {
	return xcontext.DB(ctx).
		Model(&entity.UserProgress{}).
		Where("user_id=?", userID).
		Update("level", level).Error
}

// UpdateStreak writes the advanced streak state. The guard on
// last_activity_date drops stale writers so out-of-order requests cannot move
// the streak backwards.
func (r *userProgressRepository) UpdateStreak(
	ctx context.Context,
	userID string,
	currentStreak, longestStreak int,
	lastActivityDate time.Time,
) error {
	return xcontext.DB(ctx).
		Model(&entity.UserProgress{}).
		Where("user_id=?", userID).
		Where("last_activity_date IS NULL OR last_activity_date < ?", lastActivityDate).
		Updates(map[string]any{
			"current_streak":     currentStreak,
			"longest_streak":     longestStreak,
			"last_activity_date": lastActivityDate,
		}).Error
}

func (r *userProgressRepository) GetSkill(
	ctx context.Context, userID, skill string,
) (*entity.SkillProgress, error) {
	var result entity.SkillProgress
	err := xcontext.DB(ctx).Take(&result, "user_id=? AND skill=?", userID, skill).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userProgressRepository) GetSkills(ctx context.Context, userID string) ([]entity.SkillProgress, error) {
	var result []entity.SkillProgress
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("skill ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userProgressRepository) IncreaseSkillXP(
	ctx context.Context, userID, skill string, amount int64,
) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "skill"}},
		DoUpdates: clause.Assignments(map[string]any{"xp": gorm.Expr("xp+?", amount)}),
	}).Create(&entity.SkillProgress{
		UserID: userID,
		Skill:  skill,
		XP:     amount,
		Level:  1,
	}).Error
}

func (r *userProgressRepository) SetSkillLevel(
	ctx context.Context, userID, skill string, level int,
) error {
	return xcontext.DB(ctx).
		Model(&entity.SkillProgress{}).
		Where("user_id=? AND skill=?", userID, skill).
		Update("level", level).Error
}
