package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Pavel2232/ShopBot/internal/model"
)

type memEntry struct {
	session   model.Session
	expiresAt time.Time
	hasTTL    bool
}

func (e memEntry) isExpired() bool {
	return e.hasTTL && time.Now().After(e.expiresAt)
}

type memorySessionStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[int64]memEntry
}

func NewMemorySessionStore(ttl time.Duration) SessionStore {
	return &memorySessionStore{
		ttl:     ttl,
		entries: make(map[int64]memEntry),
	}
}

func (s *memorySessionStore) Get(_ context.Context, userID int64) (*model.Session, error) {
	s.mu.RLock()
	entry, ok := s.entries[userID]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if entry.isExpired() {
		s.mu.Lock()
		delete(s.entries, userID)
		s.mu.Unlock()
		return nil, nil
	}
	session := entry.session
	return &session, nil
}

func (s *memorySessionStore) Save(_ context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memEntry{session: *session}
	if s.ttl > 0 {
		entry.hasTTL = true
		entry.expiresAt = time.Now().Add(s.ttl)
	}
	s.entries[session.UserID] = entry
	return nil
}

func (s *memorySessionStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	return nil
}
