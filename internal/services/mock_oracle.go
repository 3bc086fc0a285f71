package services

import (
	"context"
	"encoding/json"
	"sync"
)

// MockOracle is a function-stub Oracle for tests.
type MockOracle struct {
	GenerateStoryFunc func(ctx context.Context, req *GenerateStoryRequest) (json.RawMessage, error)

	// Track calls for testing
	GenerateStoryCalls []*GenerateStoryRequest

	mu sync.Mutex // protects the fields above
}

// NewMockOracle creates a new mock oracle service.
func NewMockOracle() *MockOracle {
	return &MockOracle{
		GenerateStoryCalls: make([]*GenerateStoryRequest, 0),
	}
}

func (m *MockOracle) GenerateStory(ctx context.Context, req *GenerateStoryRequest) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GenerateStoryCalls = append(m.GenerateStoryCalls, req)

	if m.GenerateStoryFunc != nil {
		return m.GenerateStoryFunc(ctx, req)
	}

	// Default behavior - empty structured response
	return json.RawMessage(`{}`), nil
}

// CallCount returns how many GenerateStory calls were made.
func (m *MockOracle) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GenerateStoryCalls)
}
