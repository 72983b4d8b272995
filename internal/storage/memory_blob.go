package storage

import (
	"context"
	"sync"
)

type MemoryBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	setErr error
	sets   int
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

func (s *MemoryBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryBlobStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.blobs[key] = append([]byte(nil), value...)
	return nil
}

// Sets counts Set calls, failed ones included.
func (s *MemoryBlobStore) Sets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

// FailSets makes every following Set return err; nil restores normal writes.
func (s *MemoryBlobStore) FailSets(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErr = err
}
