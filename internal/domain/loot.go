package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/structs"
	"github.com/google/uuid"
	"github.com/lifequest-lab/backend/config"
	"github.com/lifequest-lab/backend/internal/domain/loot"
	"github.com/lifequest-lab/backend/internal/domain/notification"
	"github.com/lifequest-lab/backend/internal/domain/progression"
	"github.com/lifequest-lab/backend/internal/entity"
	"github.com/lifequest-lab/backend/internal/model"
	"github.com/lifequest-lab/backend/internal/repository"
	"github.com/lifequest-lab/backend/pkg/enum"
	"github.com/lifequest-lab/backend/pkg/errorx"
	"github.com/lifequest-lab/backend/pkg/pubsub"
	"github.com/lifequest-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const defaultInventoryLimit = 20

type LootDomain interface {
	RollLoot(context.Context, *model.RollLootRequest) (*model.RollLootResponse, error)
	GetInventory(context.Context, *model.GetInventoryRequest) (*model.GetInventoryResponse, error)
}

type lootDomain struct {
	progressRepo repository.UserProgressRepository
	lootRepo     repository.LootRepository
	awardRepo    repository.XPAwardRepository
	publisher    pubsub.Publisher

	table *loot.Table
	rng   loot.Rand
}

func NewLootDomain(
	progressRepo repository.UserProgressRepository,
	lootRepo repository.LootRepository,
	awardRepo repository.XPAwardRepository,
	publisher pubsub.Publisher,
	gameData *config.GameData,
) (*lootDomain, error) {
	weights := make([]loot.TierWeight, 0, len(gameData.RarityWeights))
	for _, w := range gameData.RarityWeights {
		rarity, err := enum.ToEnum[entity.Rarity](w.Rarity)
		if err != nil {
			return nil, fmt.Errorf("invalid rarity %s in rarity weights", w.Rarity)
		}

		weights = append(weights, loot.TierWeight{Rarity: rarity, Weight: w.Weight})
	}

	items := make([]loot.Item, 0, len(gameData.LootItems))
	for _, item := range gameData.LootItems {
		rarity, err := enum.ToEnum[entity.Rarity](item.Rarity)
		if err != nil {
			return nil, fmt.Errorf("invalid rarity %s of loot item %s", item.Rarity, item.Code)
		}

		items = append(items, loot.Item{
			Code:      item.Code,
			Name:      item.Name,
			Rarity:    rarity,
			InstantXP: item.InstantXP,
		})
	}

	return &lootDomain{
		progressRepo: progressRepo,
		lootRepo:     lootRepo,
		awardRepo:    awardRepo,
		publisher:    publisher,
		table:        loot.NewTable(weights, items),
		rng:          cryptoRand{},
	}, nil
}

func (d *lootDomain) RollLoot(
	ctx context.Context, req *model.RollLootRequest,
) (*model.RollLootResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	progress, err := d.progressRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user progress")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user progress: %v", err)
		return nil, errorx.Unknown
	}

	rollCtx := loot.Context{
		EventXP:        req.EventXP,
		ExerciseCount:  req.ExerciseCount,
		PersonalRecord: req.PersonalRecord,
		StreakDays:     progress.CurrentStreak,
	}

	result, err := d.table.Roll(rollCtx, d.rng)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot roll loot: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer func() {
		ctx = xcontext.WithRollbackDBTransaction(ctx)
	}()

	drop := &entity.LootDrop{
		Base:           entity.Base{ID: uuid.NewString()},
		UserID:         userID,
		IdempotencyKey: req.IdempotencyKey,
		ItemCode:       result.Item.Code,
		ItemName:       result.Item.Name,
		Rarity:         result.Rarity,
		Quantity:       1,
		InstantXP:      result.Item.InstantXP,
		BonusApplied:   result.BonusApplied,
		RollContext:    entity.Map(structs.Map(rollCtx)),
	}

	inserted, err := d.lootRepo.CreateIfNotExist(ctx, drop)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create loot drop: %v", err)
		return nil, errorx.Unknown
	}

	if !inserted {
		ctx = xcontext.WithRollbackDBTransaction(ctx)
		return d.replayRoll(ctx, userID, req.IdempotencyKey)
	}

	var xpAwarded *model.AwardXPResponse
	if result.Item.InstantXP > 0 {
		applied, err := applyAward(
			ctx,
			d.progressRepo, d.awardRepo,
			userID,
			"loot_crystal",
			req.IdempotencyKey,
			"",
			progression.AwardBreakdown{
				BaseXP:  result.Item.InstantXP,
				TotalXP: result.Item.InstantXP,
			},
			nil,
		)
		if err != nil {
			return nil, err
		}

		// The drop inserted but the award key was already consumed by a
		// different award path. There is no drop to replay, so reject.
		if !applied.inserted {
			return nil, errorx.New(errorx.AlreadyExists, "Duplicated idempotency key")
		}

		xpAwarded = convertAward(applied.award, applied.hero, false)
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	notification.Publish(ctx, d.publisher, notification.Event{
		Type:   notification.LootDroppedEvent,
		UserID: userID,
		Data: map[string]any{
			"item_code": drop.ItemCode,
			"rarity":    string(drop.Rarity),
		},
	})

	dropModel := model.ConvertLootDrop(drop)
	return &model.RollLootResponse{Drop: dropModel, XPAwarded: xpAwarded}, nil
}

// replayRoll answers a retried roll with the previously recorded result.
func (d *lootDomain) replayRoll(
	ctx context.Context, userID, idempotencyKey string,
) (*model.RollLootResponse, error) {
	prior, err := d.lootRepo.GetByIdempotencyKey(ctx, userID, idempotencyKey)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get prior loot drop of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	resp := &model.RollLootResponse{Drop: model.ConvertLootDrop(prior), Duplicate: true}
	if prior.InstantXP > 0 {
		award, err := d.awardRepo.GetByIdempotencyKey(ctx, userID, idempotencyKey)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get prior award of user %s: %v", userID, err)
			return nil, errorx.Unknown
		}

		progress, err := d.progressRepo.Get(ctx, userID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get user progress: %v", err)
			return nil, errorx.Unknown
		}

		hero := progression.LevelForTotalXP(progress.TotalXP, progression.HeroCurve)
		resp.XPAwarded = convertAward(award, hero, true)
	}

	return resp, nil
}

func (d *lootDomain) GetInventory(
	ctx context.Context, req *model.GetInventoryRequest,
) (*model.GetInventoryResponse, error) {
	if req.Limit == 0 {
		req.Limit = defaultInventoryLimit
	}

	userID := xcontext.RequestUserID(ctx)
	drops, err := d.lootRepo.GetInventory(ctx, userID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get inventory of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	total, err := d.lootRepo.CountInventory(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count inventory of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	dropModels := []model.LootDrop{}
	for i := range drops {
		dropModels = append(dropModels, model.ConvertLootDrop(&drops[i]))
	}

	return &model.GetInventoryResponse{Drops: dropModels, Total: total}, nil
}
