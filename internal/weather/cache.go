// README: Redis-backed cache in front of a weather provider.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"ecoroute/internal/types"
)

const cacheKeyFormat = "weather:%.2f:%.2f"

type cache struct {
	primary Provider
	redis   *redis.Client
	ttl     time.Duration
}

// Cache memoizes conditions per ~1km grid cell. Redis failures are logged and
// the primary provider is used directly.
func Cache(primary Provider, rdb *redis.Client, ttl time.Duration) Provider {
	return &cache{primary: primary, redis: rdb, ttl: ttl}
}

func (c *cache) Conditions(ctx context.Context, loc types.Location) (Conditions, error) {
	key := cacheKey(loc)

	raw, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached Conditions
		if jerr := json.Unmarshal(raw, &cached); jerr == nil {
			return cached, nil
		}
		log.Printf("weather cache: discarding corrupt entry %s", key)
	case err != redis.Nil:
		log.Printf("weather cache: get %s: %v", key, err)
	}

	cond, err := c.primary.Conditions(ctx, loc)
	if err != nil {
		return Conditions{}, err
	}

	payload, err := json.Marshal(cond)
	if err == nil {
		err = c.redis.Set(ctx, key, payload, c.ttl).Err()
	}
	if err != nil {
		log.Printf("weather cache: set %s: %v", key, err)
	}
	return cond, nil
}

func cacheKey(loc types.Location) string {
	return fmt.Sprintf(cacheKeyFormat, gridCoord(loc.Lat), gridCoord(loc.Lon))
}

// gridCoord rounds to 2 decimals and folds -0 into 0 so cells that straddle
// the equator or the prime meridian share a key.
func gridCoord(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}
