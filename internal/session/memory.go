package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nikolayk812/pos-demo/internal/domain"
	"github.com/nikolayk812/pos-demo/internal/port"
)

var _ port.SessionStore = (*Memory)(nil)

type expiring[T any] struct {
	value     T
	expiresAt time.Time // zero never expires
}

func (e expiring[T]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Memory keeps sessions in the process. Entries expire after ttl the same
// way Redis entries do; a zero ttl keeps them until cleared.
type Memory struct {
	mu       sync.RWMutex
	users    map[string]expiring[userEntry]
	settings map[string]expiring[domain.Settings]

	ttl time.Duration
	now func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		users:    make(map[string]expiring[userEntry]),
		settings: make(map[string]expiring[domain.Settings]),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *Memory) SaveUser(_ context.Context, sessionID string, user domain.User, token string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	// a login is the natural point to drop sessions nobody came back for
	m.purge(now)

	m.users[sessionID] = expiring[userEntry]{
		value:     userEntry{User: user, Token: token},
		expiresAt: m.expiresAt(now),
	}

	return nil
}

func (m *Memory) User(_ context.Context, sessionID string) (domain.User, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.users[sessionID]
	if !ok || entry.expired(m.now()) {
		return domain.User{}, "", ErrNotFound
	}

	return entry.value.User, entry.value.Token, nil
}

func (m *Memory) SaveSettings(_ context.Context, sessionID string, settings domain.Settings) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings[sessionID] = expiring[domain.Settings]{
		value:     settings,
		expiresAt: m.expiresAt(m.now()),
	}

	return nil
}

func (m *Memory) Settings(_ context.Context, sessionID string) (domain.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.settings[sessionID]
	if !ok || entry.expired(m.now()) {
		return domain.Settings{}, ErrNotFound
	}

	return entry.value, nil
}

func (m *Memory) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, sessionID)
	delete(m.settings, sessionID)

	return nil
}

// Len reports the stored sessions, expired ones included until purged.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.users)
}

func (m *Memory) expiresAt(now time.Time) time.Time {
	if m.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(m.ttl)
}

func (m *Memory) purge(now time.Time) {
	for id, entry := range m.users {
		if entry.expired(now) {
			delete(m.users, id)
		}
	}
	for id, entry := range m.settings {
		if entry.expired(now) {
			delete(m.settings, id)
		}
	}
}
