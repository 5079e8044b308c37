package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no audit exists for the requested ID.
var ErrNotFound = errors.New("audit not found")

// ListFilter narrows a List call. Zero values mean no constraint.
type ListFilter struct {
	UserID string
	Status AuditStatus
	Limit  int
}

// Store persists audits. Implementations must be safe for concurrent
// use.
type Store interface {
	// Create inserts a new audit.
	Create(ctx context.Context, audit *Audit) error

	// Get returns the audit with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Audit, error)

	// Update overwrites the stored audit. Returns ErrNotFound if the
	// audit does not exist.
	Update(ctx context.Context, audit *Audit) error

	// List returns audits matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]*Audit, error)

	// Delete removes the audit. Returns ErrNotFound if it does not
	// exist.
	Delete(ctx context.Context, id string) error

	// Close releases underlying resources.
	Close() error
}
