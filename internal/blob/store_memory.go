package blob

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"caseconnect/pkg/platform/sentinel"
)

type memoryEntry struct {
	name string
	data []byte
}

// Memory is a mutex-guarded blob store for tests and single-process use.
// Identifiers are random UUIDs, mirroring the opaque ids a real bucket
// assigns.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string]memoryEntry
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string]memoryEntry)}
}

func (m *Memory) Put(_ context.Context, name string, data []byte) (string, error) {
	id := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[id] = memoryEntry{name: name, data: append([]byte(nil), data...)}
	return id, nil
}

func (m *Memory) Get(_ context.Context, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.blobs[id]
	if !ok {
		return nil, fmt.Errorf("blob %s: %w", id, sentinel.ErrNotFound)
	}
	return append([]byte(nil), entry.data...), nil
}
