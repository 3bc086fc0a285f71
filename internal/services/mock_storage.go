package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/evergarden-code/vova/pkg/session"
)

// MockStorage is an in-memory Storage for tests.
type MockStorage struct {
	PingFunc func(ctx context.Context) error

	mu       sync.Mutex
	sessions map[uuid.UUID]*session.Session
}

var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		sessions: make(map[uuid.UUID]*session.Session),
	}
}

func (m *MockStorage) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *MockStorage) SaveSession(ctx context.Context, id uuid.UUID, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = s
	return nil
}

func (m *MockStorage) LoadSession(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id], nil
}

func (m *MockStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MockStorage) Close() error {
	return nil
}
