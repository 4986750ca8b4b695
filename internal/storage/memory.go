package storage

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Provider, used in tests and for throwaway runs.
type Memory struct {
	mu    sync.Mutex
	blobs map[string][]byte
	puts  int
}

// NewMemory returns an empty Memory provider.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

// Get returns a copy of the blob under key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, fmt.Errorf("storage: read %s: %w", key, ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

// Put stores a copy of data under key.
func (m *Memory) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), data...)
	m.puts++
	return nil
}

// Puts returns how many writes the provider has accepted.
func (m *Memory) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
