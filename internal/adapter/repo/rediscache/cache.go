// Package rediscache implements a read-through cache for analysis results.
package rediscache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/resume-match/internal/domain"
)

// Cache stores serialized AnalysisResults in Redis keyed by id.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New constructs a Cache. A zero ttl means entries never expire.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func key(id string) string { return "analysis:" + id }

// Put stores one result under its id.
func (c *Cache) Put(ctx domain.Context, res domain.AnalysisResult) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("op=rediscache.put: %w", err)
	}
	if err := c.client.Set(ctx, key(res.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("op=rediscache.put: %w", err)
	}
	return nil
}

// Get loads a result by id. The second return value reports whether the
// entry was present.
func (c *Cache) Get(ctx domain.Context, id string) (domain.AnalysisResult, bool, error) {
	raw, err := c.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.AnalysisResult{}, false, nil
	}
	if err != nil {
		return domain.AnalysisResult{}, false, fmt.Errorf("op=rediscache.get: %w", err)
	}
	var res domain.AnalysisResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return domain.AnalysisResult{}, false, fmt.Errorf("op=rediscache.get: %w", err)
	}
	return res, true, nil
}
