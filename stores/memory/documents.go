package memory

import (
	"context"
	"fmt"
	"sync"

	"invoice-docstore/core"
)

type documentStore struct {
	mu        sync.RWMutex
	documents map[string][]byte
}

func NewDocumentStore() core.DocumentStore {
	return &documentStore{documents: make(map[string][]byte)}
}

func (s *documentStore) FindID(ctx context.Context, id string) (*core.Document, error) {
	key, ok := core.DocumentKey(id)
	if !ok {
		return nil, fmt.Errorf("document with id %s: %w", id, core.ErrNotFound)
	}

	s.mu.RLock()
	data, ok := s.documents[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("document with id %s: %w", id, core.ErrNotFound)
	}
	return &core.Document{Data: append([]byte(nil), data...)}, nil
}

func (s *documentStore) Create(ctx context.Context, document *core.Document) (string, error) {
	id := core.HashDocument(document.Data)
	key, _ := core.DocumentKey(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[key]; !ok {
		s.documents[key] = append([]byte(nil), document.Data...)
	}
	return id, nil
}
