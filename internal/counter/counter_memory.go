package counter

import (
	"context"
	"sync"
)

// Memory is a mutex-guarded allocator for tests and single-process use.
type Memory struct {
	mu     sync.Mutex
	values map[string]int
	owner  Emptier
}

// NewMemory builds an in-memory allocator. owner is the collection whose
// emptiness decides reclaim behaviour.
func NewMemory(owner Emptier) *Memory {
	return &Memory{values: make(map[string]int), owner: owner}
}

func (m *Memory) Next(_ context.Context, name string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name]++
	return m.values[name], nil
}

func (m *Memory) Reclaim(ctx context.Context, name string) error {
	empty, err := m.owner.Empty(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if empty {
		// Park the counter at zero so the next increment restarts the
		// sequence at 1.
		m.values[name] = 0
		return nil
	}
	m.values[name]--
	return nil
}
