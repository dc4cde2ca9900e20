package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/thejw23/simpleauth/internal/common"
)

// MemoryStore is an in-process Store used by tests and the admin CLI,
// where no browser session exists.
type MemoryStore struct {
	mu   sync.Mutex
	id   string
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		id:   uuid.NewString(),
		data: make(map[string]string),
	}
}

func (s *MemoryStore) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.data[key]
	if !ok {
		return "", common.ErrNotFound
	}
	return val, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) RegenerateID(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = uuid.NewString()
	return nil
}

func (s *MemoryStore) Destroy(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = uuid.NewString()
	s.data = make(map[string]string)
	return nil
}
