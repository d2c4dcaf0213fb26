package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	dom "github.com/HailuBoc/student-task-manager/internal/domain"
)

const keyPrefix = "tasks:list:"

// TaskCache caches per-user list results in Redis. Keys carry the
// status filter and sort key so each view caches independently; any
// write for a user drops all of that user's entries.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

func listKey(userID int64, status dom.StatusFilter, sort dom.SortKey) string {
	return fmt.Sprintf("%s%d:%s:%s", keyPrefix, userID, status, sort)
}

// GetList returns the cached list and whether the key was present.
// An empty cached list is a hit, not a miss.
func (c *TaskCache) GetList(ctx context.Context, userID int64, status dom.StatusFilter, sort dom.SortKey) ([]dom.Task, bool, error) {
	b, err := c.rdb.Get(ctx, listKey(userID, status, sort)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var list []dom.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, false, err
	}
	if list == nil {
		list = []dom.Task{}
	}
	return list, true, nil
}

// SetList stores a list result. A nil list is stored as an empty one
// so the entry stays distinguishable from an absent key.
func (c *TaskCache) SetList(ctx context.Context, userID int64, status dom.StatusFilter, sort dom.SortKey, list []dom.Task) error {
	if list == nil {
		list = []dom.Task{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(userID, status, sort), b, c.ttl).Err()
}

// Invalidate removes every cached view for the user.
func (c *TaskCache) Invalidate(ctx context.Context, userID int64) error {
	pattern := fmt.Sprintf("%s%d:*", keyPrefix, userID)
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
