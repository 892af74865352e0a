package redis

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"scale-trainer/internal/domain"
)

// SnapshotStore keeps one Redis hash per player:
//
//	HSET trainer:{playerID}:snapshot {field} {value}
//
// Fields are the flat keys of domain.QuizState.Fields.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSnapshotStore expires snapshots after ttl (plus jitter); ttl <= 0 keeps them forever.
func NewSnapshotStore(client *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{
		client: client,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *SnapshotStore) Load(ctx context.Context, playerID string) (domain.QuizState, bool, error) {
	result, err, _ := s.sf.Do(playerID, func() (interface{}, error) {
		fields, err := s.client.HGetAll(ctx, s.key(playerID)).Result()
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		return fields, nil
	})
	if err != nil {
		return domain.QuizState{}, false, err
	}
	fields := result.(map[string]string)
	if len(fields) == 0 {
		return domain.QuizState{}, false, nil
	}
	return domain.StateFromFields(fields), true, nil
}

func (s *SnapshotStore) Save(ctx context.Context, playerID string, state domain.QuizState) error {
	key := s.key(playerID)
	values := make(map[string]interface{})
	for k, v := range state.Fields() {
		values[k] = v
	}
	ttl := s.ttlWithJitter()

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		// replace, so fields dropped from the state do not linger
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, values)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) key(playerID string) string {
	return "trainer:" + playerID + ":snapshot"
}

func (s *SnapshotStore) ttlWithJitter() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	jitterMax := int64(s.ttl) / 10
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ttl + time.Duration(s.rnd.Int63n(jitterMax+1))
}
