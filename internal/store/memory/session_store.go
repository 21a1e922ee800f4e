package memory

import (
	"sync"

	"github.com/N0Z0My/xlsx-data-app/internal/quiz"
	"github.com/N0Z0My/xlsx-data-app/internal/store"
)

// SessionStore is the in-memory implementation of store.Repository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*quiz.Session
}

var _ store.Repository = (*SessionStore)(nil)

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*quiz.Session),
	}
}

func (s *SessionStore) Put(session *quiz.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

func (s *SessionStore) Get(sessionID string) (*quiz.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return session, nil
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
