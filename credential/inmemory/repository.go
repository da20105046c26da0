// Package inmemory provides a thread-safe in-memory implementation of
// [credential.Repository].
//
// It is intended for use in tests and prototyping. Do not use it in production.
package inmemory

import (
	"context"
	"sync"

	"github.com/hasbyte1/go-credentials/credential"
)

var _ credential.Repository = (*Repository)(nil)

// Repository is a thread-safe in-memory implementation of [credential.Repository].
type Repository struct {
	mu      sync.RWMutex
	records map[string]credential.Record // keyed by identity
}

// New creates an empty [Repository].
func New() *Repository {
	return &Repository{records: make(map[string]credential.Record)}
}

// Create stores a new record. Returns [credential.ErrAlreadyExists] when the
// identity is already stored.
func (r *Repository) Create(_ context.Context, rec credential.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[rec.Identity]; exists {
		return credential.ErrAlreadyExists
	}
	r.records[rec.Identity] = rec
	return nil
}

// Find retrieves the record for identity. Returns [credential.ErrNotFound] when absent.
func (r *Repository) Find(_ context.Context, identity string) (credential.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[identity]
	if !ok {
		return credential.Record{}, credential.ErrNotFound
	}
	return rec, nil
}

// Update replaces an existing record. Returns [credential.ErrNotFound] when absent.
func (r *Repository) Update(_ context.Context, rec credential.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[rec.Identity]; !ok {
		return credential.ErrNotFound
	}
	r.records[rec.Identity] = rec
	return nil
}

// Delete removes the record for identity. Returns [credential.ErrNotFound] when absent.
func (r *Repository) Delete(_ context.Context, identity string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[identity]; !ok {
		return credential.ErrNotFound
	}
	delete(r.records, identity)
	return nil
}

// List returns all stored records.
func (r *Repository) List(_ context.Context) ([]credential.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]credential.Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out, nil
}

// Count returns the number of stored records.
func (r *Repository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}
