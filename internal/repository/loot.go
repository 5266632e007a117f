package repository

import (
	"context"

	"github.com/lifequest-lab/backend/internal/entity"
	"github.com/lifequest-lab/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type LootRepository interface {
	// CreateIfNotExist inserts the drop and reports whether it took effect.
	// A drop with the same (user, idempotency key) is left untouched and
	// reported as false.
	CreateIfNotExist(ctx context.Context, drop *entity.LootDrop) (bool, error)
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*entity.LootDrop, error)

	// GetInventory lists owned drops. Instant-XP drops never enter the
	// inventory so they are excluded here and in CountInventory.
	GetInventory(ctx context.Context, userID string, offset, limit int) ([]entity.LootDrop, error)
	CountInventory(ctx context.Context, userID string) (int64, error)
}

type lootRepository struct{}

func NewLootRepository() *lootRepository {
	return &lootRepository{}
}

func (r *lootRepository) CreateIfNotExist(
	ctx context.Context, drop *entity.LootDrop,
) (bool, error) {
	tx := xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "idempotency_key"}},
		DoNothing: true,
	}).Create(drop)
	if err := tx.Error; err != nil {
		return false, err
	}

	return tx.RowsAffected > 0, nil
}

func (r *lootRepository) GetByIdempotencyKey(
	ctx context.Context, userID, key string,
) (*entity.LootDrop, error) {
	var result entity.LootDrop
	err := xcontext.DB(ctx).
		Where("user_id=? AND idempotency_key=?", userID, key).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *lootRepository) GetInventory(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.LootDrop, error) {
	var result []entity.LootDrop
	err := xcontext.DB(ctx).
		Where("user_id=? AND instant_xp=0", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *lootRepository) CountInventory(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.LootDrop{}).
		Where("user_id=? AND instant_xp=0", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
