package repository

import (
	"context"

	"github.com/lifequest-lab/backend/internal/entity"
	"github.com/lifequest-lab/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type XPAwardRepository interface {
	// CreateIfNotExist inserts the award and reports whether the insert took
	// effect. A duplicate (user_id, idempotency_key) pair is left untouched
	// and reported as false.
	CreateIfNotExist(ctx context.Context, award *entity.XPAward) (bool, error)
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*entity.XPAward, error)
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.XPAward, error)
}

type xpAwardRepository struct{}

func NewXPAwardRepository() *xpAwardRepository {
	return &xpAwardRepository{}
}

func (r *xpAwardRepository) CreateIfNotExist(ctx context.Context, award *entity.XPAward) (bool, error) {
	tx := xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "idempotency_key"}},
		DoNothing: true,
	}).Create(award)
	if err := tx.Error; err != nil {
		return false, err
	}

	return tx.RowsAffected > 0, nil
}

func (r *xpAwardRepository) GetByIdempotencyKey(
	ctx context.Context, userID, key string,
) (*entity.XPAward, error) {
	var result entity.XPAward
	err := xcontext.DB(ctx).Take(&result, "user_id=? AND idempotency_key=?", userID, key).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *xpAwardRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.XPAward, error) {
	var result []entity.XPAward
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
