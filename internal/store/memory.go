package store

import (
	"context"
	"sync"

	"github.com/neilk17/twenty-capture/internal/model"
)

// MemoryStore implements Store in process memory. Used for tests and
// ephemeral runs; contents are lost on exit.
type MemoryStore struct {
	mu       sync.Mutex
	captures []model.CaptureEntry
	settings map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{settings: make(map[string]string)}
}

func (s *MemoryStore) Migrate(ctx context.Context) error { return nil }
func (s *MemoryStore) Close() error                      { return nil }

func (s *MemoryStore) SaveCapture(ctx context.Context, entry model.CaptureEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]model.CaptureEntry, 0, len(s.captures)+1)
	filtered = append(filtered, entry)
	for _, e := range s.captures {
		if e.SourceKey != entry.SourceKey {
			filtered = append(filtered, e)
		}
	}
	if len(filtered) > MaxRecentCaptures {
		filtered = filtered[:MaxRecentCaptures]
	}
	s.captures = filtered
	return nil
}

func (s *MemoryStore) ListCaptures(ctx context.Context) ([]model.CaptureEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.CaptureEntry, len(s.captures))
	copy(out, s.captures)
	return out, nil
}

func (s *MemoryStore) GetSetting(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings[key], nil
}

func (s *MemoryStore) SetSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
	return nil
}
