// Package session stores session-scoped flags, such as whether fonts were
// already loaded in this browsing session.
package session

import (
	"context"
	"sync"
)

// FontsLoadedKey is the flag the font loader writes.
const FontsLoadedKey = "fonts-loaded"

// Store reads and writes the flags of one session.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, val string) error
}

// Backend hands out per-session stores.
type Backend interface {
	Session(id string) Store
	Close() error
}

// Memory is a process-local Backend.
type Memory struct {
	mu    sync.RWMutex
	flags map[string]map[string]string
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{flags: make(map[string]map[string]string)}
}

func (m *Memory) Session(id string) Store { return memorySession{m: m, id: id} }

func (m *Memory) Close() error { return nil }

type memorySession struct {
	m  *Memory
	id string
}

func (s memorySession) Get(_ context.Context, key string) (string, bool, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	v, ok := s.m.flags[s.id][key]
	return v, ok, nil
}

func (s memorySession) Set(_ context.Context, key, val string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.flags[s.id] == nil {
		s.m.flags[s.id] = make(map[string]string)
	}
	s.m.flags[s.id][key] = val
	return nil
}
