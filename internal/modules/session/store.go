// README: Session context store backed by Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"railbot/internal/dialog"
)

const contextsKeyPrefix = "session:%s:contexts"

type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(redis *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: redis, ttl: ttl}
}

// Load returns the active contexts for a session. A missing key is an empty
// bag, not an error.
func (s *Store) Load(ctx context.Context, sessionID string) ([]dialog.Context, error) {
	raw, err := s.redis.Get(ctx, fmt.Sprintf(contextsKeyPrefix, sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var contexts []dialog.Context
	if err := json.Unmarshal(raw, &contexts); err != nil {
		return nil, err
	}
	return contexts, nil
}

// Save replaces the session's context bag, refreshing the idle TTL. An empty
// bag deletes the key.
func (s *Store) Save(ctx context.Context, sessionID string, contexts []dialog.Context) error {
	key := fmt.Sprintf(contextsKeyPrefix, sessionID)
	if len(contexts) == 0 {
		return s.redis.Del(ctx, key).Err()
	}
	raw, err := json.Marshal(contexts)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, key, raw, s.ttl).Err()
}
