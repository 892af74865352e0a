package memory

import (
	"sync"

	"scale-trainer/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Session),
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
	return session, true
}

func (s *SessionStore) Get(playerID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[playerID]
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
	}
}
