package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/valter-silva-au/todo/pkg/models"
)

// MemoryStore is a process-local key/value store holding encoded snapshots.
// It goes through the codec like the durable adapters, so round-trip
// behaviour is the same.
type MemoryStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	key   string
	codec Codec
}

// NewMemoryStore creates an empty MemoryStore. A nil codec means JSON.
func NewMemoryStore(key string, codec Codec) *MemoryStore {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &MemoryStore{data: make(map[string][]byte), key: key, codec: codec}
}

// Load decodes the snapshot stored under the key.
func (s *MemoryStore) Load(_ context.Context) ([]models.Task, error) {
	s.mu.Lock()
	raw, ok := s.data[s.key]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return s.codec.Unmarshal(raw)
}

// Save encodes tasks and stores them under the key.
func (s *MemoryStore) Save(_ context.Context, tasks []models.Task) error {
	data, err := s.codec.Marshal(tasks)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[s.key] = data
	return nil
}

// SetRaw stores raw bytes under key, bypassing the codec.
func (s *MemoryStore) SetRaw(key string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = slices.Clone(raw)
}

// Raw returns the bytes stored under key.
func (s *MemoryStore) Raw(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[key]
	return slices.Clone(raw), ok
}
