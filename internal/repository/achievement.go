package repository

import (
	"context"

	"github.com/lifequest-lab/backend/internal/entity"
	"github.com/lifequest-lab/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type UserAchievementRepository interface {
	// Unlock inserts the unlock record and reports whether it took effect. An
	// already-unlocked achievement is left untouched and reported as false.
	Unlock(ctx context.Context, achievement *entity.UserAchievement) (bool, error)
	GetListByUserID(ctx context.Context, userID string) ([]entity.UserAchievement, error)
	MarkNotified(ctx context.Context, userID, code string) error
}

type userAchievementRepository struct{}

func NewUserAchievementRepository() *userAchievementRepository {
	return &userAchievementRepository{}
}

func (r *userAchievementRepository) Unlock(
	ctx context.Context, achievement *entity.UserAchievement,
) (bool, error) {
	tx := xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_code"}},
		DoNothing: true,
	}).Create(achievement)
	if err := tx.Error; err != nil {
		return false, err
	}

	return tx.RowsAffected > 0, nil
}

func (r *userAchievementRepository) GetListByUserID(
	ctx context.Context, userID string,
) ([]entity.UserAchievement, error) {
	var result []entity.UserAchievement
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userAchievementRepository) MarkNotified(ctx context.Context, userID, code string) error {
	return xcontext.DB(ctx).
		Model(&entity.UserAchievement{}).
		Where("user_id=? AND achievement_code=?", userID, code).
		Update("was_notified", true).Error
}
