package sequence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	core "docpress/internal/core/sequence"
)

// MemoryStore keeps counters in process memory. Use for tests and previews.
type MemoryStore struct {
	mu       sync.Mutex
	counters core.Counters
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements core.CounterStore.
func (s *MemoryStore) Load(ctx context.Context) (core.Counters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters, nil
}

// Save implements core.CounterStore.
func (s *MemoryStore) Save(ctx context.Context, c core.Counters) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = c
	return nil
}

// FileStore persists counters as a small JSON record on disk. A missing file
// loads as zero counters, so first allocation starts the day at 01.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store writing to path. Parent directories are
// created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load implements core.CounterStore.
func (s *FileStore) Load(ctx context.Context) (core.Counters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.Counters{}, nil
	}
	if err != nil {
		return core.Counters{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	var c core.Counters
	if err := json.Unmarshal(data, &c); err != nil {
		return core.Counters{}, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return c, nil
}

// Save implements core.CounterStore. Writes to a temp file and renames so a
// crash mid-write never leaves a torn record.
func (s *FileStore) Save(ctx context.Context, c core.Counters) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode counters: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".counters-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write counters: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// Ensure compile-time interface compliance.
var (
	_ core.CounterStore = (*MemoryStore)(nil)
	_ core.CounterStore = (*FileStore)(nil)
)
