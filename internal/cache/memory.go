package cache

import (
	"context"
	"sync"

	"contesto/internal/models"
)

// Memory is an in-process PopularCache for tests and single-instance runs
type Memory struct {
	mu       sync.RWMutex
	contests []models.ContestSummary
	ok       bool
}

func (m *Memory) GetPopular(context.Context) ([]models.ContestSummary, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contests, m.ok, nil
}

func (m *Memory) SetPopular(_ context.Context, contests []models.ContestSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contests = contests
	m.ok = true
	return nil
}

func (m *Memory) InvalidatePopular(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contests = nil
	m.ok = false
	return nil
}
