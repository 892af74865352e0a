package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"scale-trainer/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Sessions stay in a local map; trainers are driven by frames in this process.
//   - Redis only carries a liveness marker per player so other instances and
//     operators can see who is playing. Every frame goes through Get, which
//     re-arms the marker once half of its TTL has passed.
type SessionStore struct {
	client    *redis.Client
	ttl       time.Duration
	now       func() time.Time
	mu        sync.RWMutex
	sessions  map[string]*app.Session
	refreshed map[string]time.Time
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:    client,
		ttl:       ttl,
		now:       time.Now,
		sessions:  make(map[string]*app.Session),
		refreshed: make(map[string]time.Time),
	}
}

func (s *SessionStore) GetOrCreate(playerID string, create func() *app.Session) (*app.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[playerID]; ok {
		return session, false
	}
	session := create()
	s.sessions[playerID] = session
	s.markLocked(playerID)
	return session, true
}

func (s *SessionStore) Get(playerID string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[playerID]
	stale := ok && s.ttl > 0 && s.now().Sub(s.refreshed[playerID]) >= s.ttl/2
	s.mu.RUnlock()

	if stale {
		s.mu.Lock()
		// the session may have been dropped while the lock was released
		if current, ok := s.sessions[playerID]; ok && current == session {
			s.markLocked(playerID)
		}
		s.mu.Unlock()
	}
	return session, ok
}

func (s *SessionStore) DeleteIfIdle(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[playerID]
	if !ok {
		return
	}
	if session.IsIdle() {
		delete(s.sessions, playerID)
		delete(s.refreshed, playerID)
		_ = s.client.Del(context.Background(), s.key(playerID)).Err()
	}
}

// markLocked writes the best-effort liveness marker. Callers hold s.mu.
func (s *SessionStore) markLocked(playerID string) {
	s.refreshed[playerID] = s.now()
	_ = s.client.Set(context.Background(), s.key(playerID), "1", s.ttl).Err()
}

func (s *SessionStore) key(playerID string) string {
	return "trainer:session:" + playerID
}
