package testutil

import (
	"context"
	"sync"

	"github.com/lifequest-lab/backend/pkg/pubsub"
)

// MockPublisher records every published pack per topic.
type MockPublisher struct {
	mutex     sync.Mutex
	Published map[string][]*pubsub.Pack

	PublishFunc func(context.Context, string, *pubsub.Pack) error
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.Published == nil {
		m.Published = make(map[string][]*pubsub.Pack)
	}

	m.Published[topic] = append(m.Published[topic], pack)
	return nil
}

func (m *MockPublisher) Stop(ctx context.Context) error {
	return nil
}
