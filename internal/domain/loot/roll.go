package loot

import (
	"fmt"

	"github.com/lifequest-lab/backend/internal/entity"
	"github.com/pkg/math"
)

// Rand is the injectable random source of the roll engine, satisfied by
// *math/rand.Rand.
type Rand interface {
	Intn(n int) int
}

// Context is the performance context of the qualifying event. Better
// performance shifts probability mass onto higher rarity tiers.
type Context struct {
	EventXP        int  `structs:"event_xp"`
	ExerciseCount  int  `structs:"exercise_count"`
	PersonalRecord bool `structs:"personal_record"`
	StreakDays     int  `structs:"streak_days"`
}

// Weight shifts per bonus source. Each shift point is added to a tier's
// effective weight multiplied by the tier's order index, so higher tiers
// benefit more from the same context.
const (
	EventXPShiftDivisor = 10
	EventXPShiftMax     = 40

	ExerciseShiftPerSet = 2
	ExerciseShiftMax    = 30

	PersonalRecordShift = 50

	StreakShiftPerDay = 1
	StreakShiftMax    = 30
)

type Item struct {
	Code      string
	Name      string
	Rarity    entity.Rarity
	InstantXP int
}

type TierWeight struct {
	Rarity entity.Rarity
	Weight int
}

type Result struct {
	Item         Item
	Rarity       entity.Rarity
	BonusApplied bool
}

// Table is the immutable roll table built from the static game data.
type Table struct {
	weights []TierWeight
	items   map[entity.Rarity][]Item
}

func NewTable(weights []TierWeight, items []Item) *Table {
	table := &Table{
		weights: weights,
		items:   make(map[entity.Rarity][]Item),
	}

	for _, item := range items {
		table.items[item.Rarity] = append(table.items[item.Rarity], item)
	}

	return table
}

// BonusShift converts the context into weight-shift points.
func BonusShift(ctx Context) int {
	shift := math.MinInt(ctx.EventXP/EventXPShiftDivisor, EventXPShiftMax)
	shift += math.MinInt(ctx.ExerciseCount*ExerciseShiftPerSet, ExerciseShiftMax)
	shift += math.MinInt(ctx.StreakDays*StreakShiftPerDay, StreakShiftMax)
	if ctx.PersonalRecord {
		shift += PersonalRecordShift
	}

	return shift
}

// Roll always produces exactly one drop. The rarity is chosen with a single
// draw over the cumulative effective weights; the item is chosen uniformly
// within the tier. A tier with no catalog items fails closed by falling back
// to the next lower tier.
func (t *Table) Roll(ctx Context, rng Rand) (*Result, error) {
	shift := BonusShift(ctx)

	cumulative := make([]int, len(t.weights))
	total := 0
	for i, w := range t.weights {
		total += w.Weight + shift*rarityLevel(w.Rarity)
		cumulative[i] = total
	}

	if total <= 0 {
		return nil, fmt.Errorf("roll table has no weight")
	}

	draw := rng.Intn(total)
	chosen := t.weights[len(t.weights)-1].Rarity
	for i, c := range cumulative {
		if draw < c {
			chosen = t.weights[i].Rarity
			break
		}
	}

	item, rarity, err := t.pickItem(chosen, rng)
	if err != nil {
		return nil, err
	}

	return &Result{Item: item, Rarity: rarity, BonusApplied: shift > 0}, nil
}

func (t *Table) pickItem(rarity entity.Rarity, rng Rand) (Item, entity.Rarity, error) {
	for level := rarityLevel(rarity); level >= 0; level-- {
		tier := entity.RarityOrder[level]
		items := t.items[tier]
		if len(items) == 0 {
			continue
		}

		return items[rng.Intn(len(items))], tier, nil
	}

	return Item{}, "", fmt.Errorf("loot catalog is empty")
}

func rarityLevel(rarity entity.Rarity) int {
	for i, r := range entity.RarityOrder {
		if r == rarity {
			return i
		}
	}

	return 0
}
