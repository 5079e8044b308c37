package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	audits map[string]*Audit
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		audits: make(map[string]*Audit),
	}
}

// Create inserts a new audit.
func (m *MemoryStore) Create(ctx context.Context, audit *Audit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *audit
	m.audits[audit.ID] = &cp
	return nil
}

// Get returns the audit with the given ID.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Audit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	audit, ok := m.audits[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *audit
	return &cp, nil
}

// Update overwrites the stored audit.
func (m *MemoryStore) Update(ctx context.Context, audit *Audit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.audits[audit.ID]; !ok {
		return ErrNotFound
	}
	cp := *audit
	m.audits[audit.ID] = &cp
	return nil
}

// List returns audits matching the filter, newest first.
func (m *MemoryStore) List(ctx context.Context, filter ListFilter) ([]*Audit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	audits := make([]*Audit, 0, len(m.audits))
	for _, audit := range m.audits {
		if filter.UserID != "" && audit.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && audit.Status != filter.Status {
			continue
		}
		cp := *audit
		audits = append(audits, &cp)
	}

	sort.Slice(audits, func(i, j int) bool {
		return audits[i].CreatedAt.After(audits[j].CreatedAt)
	})

	if filter.Limit > 0 && len(audits) > filter.Limit {
		audits = audits[:filter.Limit]
	}
	return audits, nil
}

// Delete removes the audit.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.audits[id]; !ok {
		return ErrNotFound
	}
	delete(m.audits, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
