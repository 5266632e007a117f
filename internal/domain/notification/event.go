package notification

import (
	"context"
	"encoding/json"

	"github.com/lifequest-lab/backend/pkg/pubsub"
	"github.com/lifequest-lab/backend/pkg/xcontext"
)

// Topic carries every progression event. Delivery (push, email, in-app feed)
// is handled by downstream consumers.
const Topic = "notification_events"

type EventType string

const (
	LeveledUpEvent           = EventType("leveled_up")
	AchievementUnlockedEvent = EventType("achievement_unlocked")
	LeaguePromotedEvent      = EventType("league_promoted")
	LeagueDemotedEvent       = EventType("league_demoted")
	LootDroppedEvent         = EventType("loot_dropped")
)

type Event struct {
	Type   EventType      `json:"type"`
	UserID string         `json:"user_id"`
	Data   map[string]any `json:"data,omitempty"`
}

// Publish serializes and publishes the event, keyed by user so per-user
// ordering is preserved. Publish failures are logged and swallowed: the state
// change already committed and must not be rolled back over a notification.
// It reports whether the event was handed to the broker.
func Publish(ctx context.Context, publisher pubsub.Publisher, event Event) bool {
	if publisher == nil {
		return false
	}

	b, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal %s event: %v", event.Type, err)
		return false
	}

	err = publisher.Publish(ctx, Topic, &pubsub.Pack{Key: []byte(event.UserID), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish %s event: %v", event.Type, err)
		return false
	}

	return true
}
