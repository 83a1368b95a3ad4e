// README: Redis-backed cache of primary-path distance estimates.
package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"freightquote/internal/types"
)

type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: rdb, ttl: ttl}
}

func cacheKey(origin, destination types.Pincode) string {
	return fmt.Sprintf("distance:%d:%d", origin, destination)
}

func (s *Store) Get(ctx context.Context, origin, destination types.Pincode) (Estimate, bool, error) {
	raw, err := s.redis.Get(ctx, cacheKey(origin, destination)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Estimate{}, false, nil
	}
	if err != nil {
		return Estimate{}, false, err
	}
	var e Estimate
	if err := json.Unmarshal(raw, &e); err != nil {
		return Estimate{}, false, err
	}
	return e, true, nil
}

func (s *Store) Set(ctx context.Context, origin, destination types.Pincode, e Estimate) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, cacheKey(origin, destination), raw, s.ttl).Err()
}
