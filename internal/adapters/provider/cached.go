package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/skycastapp/skycast/internal/core/domain"
)

var _ domain.WeatherProvider = (*Cached)(nil)

// Cached decorates a provider with a short-lived redis cache of current
// conditions, so a favorites list full of the same cities does not hammer
// the upstream API. Forecast fetches pass through: the detail view is
// interactive and always wants fresh data. Redis faults degrade to the
// wrapped provider.
type Cached struct {
	next  domain.WeatherProvider
	cache *redis.Client
	ttl   time.Duration
}

func NewCached(next domain.WeatherProvider, cache *redis.Client, ttl time.Duration) *Cached {
	return &Cached{
		next:  next,
		cache: cache,
		ttl:   ttl,
	}
}

type cachedCurrent struct {
	City   domain.City      `json:"city"`
	Sample domain.RawSample `json:"sample"`
}

func (c *Cached) cacheKey(city string, units domain.Units) string {
	return fmt.Sprintf("current:%s:%s", strings.ToLower(city), units)
}

func (c *Cached) FetchCurrent(ctx context.Context, city string, units domain.Units) (domain.City, domain.RawSample, error) {
	key := c.cacheKey(city, units)

	val, err := c.cache.Get(ctx, key).Result()
	if err == nil {
		var entry cachedCurrent
		if err := json.Unmarshal([]byte(val), &entry); err == nil {
			return entry.City, entry.Sample, nil
		}

		log.Printf("[CACHE] Corrupted entry for %s, cleaning up key", key)
		c.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	resolved, sample, err := c.next.FetchCurrent(ctx, city, units)
	if err != nil {
		return domain.City{}, domain.RawSample{}, err
	}

	if data, err := json.Marshal(cachedCurrent{City: resolved, Sample: sample}); err == nil {
		if setErr := c.cache.Set(ctx, key, data, c.ttl).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return resolved, sample, nil
}

func (c *Cached) FetchForecast(ctx context.Context, city string, units domain.Units) (domain.City, []domain.RawSample, error) {
	return c.next.FetchForecast(ctx, city, units)
}
