package testutil

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// InMemoryRedisClient is a minimal in-process stand-in for xredis.Client.
// TTLs are honored on read.
type InMemoryRedisClient struct {
	mutex sync.Mutex

	objects map[string]inMemoryObject
	zsets   map[string]map[string]float64
}

type inMemoryObject struct {
	value     []byte
	expiredAt time.Time
}

func NewInMemoryRedisClient() *InMemoryRedisClient {
	return &InMemoryRedisClient{
		objects: make(map[string]inMemoryObject),
		zsets:   make(map[string]map[string]float64),
	}
}

func (c *InMemoryRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, ok := c.zsets[key]; ok {
		return true, nil
	}

	obj, ok := c.objects[key]
	return ok && time.Now().Before(obj.expiredAt), nil
}

func (c *InMemoryRedisClient) Del(ctx context.Context, key ...string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, k := range key {
		delete(c.objects, k)
		delete(c.zsets, k)
	}

	return nil
}

func (c *InMemoryRedisClient) ZAdd(ctx context.Context, key string, z redis.Z) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, ok := c.zsets[key]; !ok {
		c.zsets[key] = make(map[string]float64)
	}

	c.zsets[key][z.Member.(string)] = z.Score
	return nil
}

func (c *InMemoryRedisClient) ZIncrBy(ctx context.Context, key string, incr int64, member string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, ok := c.zsets[key]; !ok {
		c.zsets[key] = make(map[string]float64)
	}

	c.zsets[key][member] += float64(incr)
	return nil
}

func (c *InMemoryRedisClient) ZRevRank(ctx context.Context, key string, member string) (uint64, error) {
	for i, z := range c.sorted(key) {
		if z.Member == member {
			return uint64(i), nil
		}
	}

	return 0, redis.Nil
}

func (c *InMemoryRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.objects[key] = inMemoryObject{value: b, expiredAt: time.Now().Add(ttl)}
	return nil
}

func (c *InMemoryRedisClient) GetObj(ctx context.Context, key string, v any) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	obj, ok := c.objects[key]
	if !ok || time.Now().After(obj.expiredAt) {
		return redis.Nil
	}

	return json.Unmarshal(obj.value, v)
}

func (c *InMemoryRedisClient) sorted(key string) []redis.Z {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	result := make([]redis.Z, 0, len(c.zsets[key]))
	for member, score := range c.zsets[key] {
		result = append(result, redis.Z{Member: member, Score: score})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}

		return result[i].Member.(string) < result[j].Member.(string)
	})

	return result
}
