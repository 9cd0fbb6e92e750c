package ai

import (
	"context"
	"sync"
)

// MockGenerator 按顺序返回预设结果，并记录请求
type MockGenerator struct {
	mu      sync.Mutex
	Results [][]GeneratedQuestion
	Err     error
	Calls   []Request
}

func (m *MockGenerator) Generate(_ context.Context, req Request) ([]GeneratedQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Results) == 0 {
		return nil, ErrEmptyResponse
	}
	out := m.Results[0]
	m.Results = m.Results[1:]
	return out, nil
}
