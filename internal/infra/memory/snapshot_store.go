package memory

import (
	"context"
	"maps"
	"sync"

	"scale-trainer/internal/domain"
)

// SnapshotStore keeps flat snapshots in process memory. State is lost on restart;
// use the Redis, Postgres or file stores when it has to survive.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]map[string]string
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snapshots: make(map[string]map[string]string)}
}

func (s *SnapshotStore) Load(_ context.Context, playerID string) (domain.QuizState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields, ok := s.snapshots[playerID]
	if !ok {
		return domain.QuizState{}, false, nil
	}
	return domain.StateFromFields(fields), true, nil
}

func (s *SnapshotStore) Save(_ context.Context, playerID string, state domain.QuizState) error {
	fields := state.Fields()
	s.mu.Lock()
	s.snapshots[playerID] = fields
	s.mu.Unlock()
	return nil
}

// Fields returns a copy of the raw snapshot, mainly for tests.
func (s *SnapshotStore) Fields(playerID string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.snapshots[playerID])
}
