// Package armormock is an in-process implementation of the Model Armor and
// DLP wire surfaces used by tests and local development. It mirrors the
// service's observable behavior: resource names, field-mask updates,
// pagination, canonical error statuses, and sanitization verdicts with
// exact text offsets.
package armormock

import (
	"context"
	"errors"
)

// Store errors.
var (
	ErrNotFound = errors.New("resource not found")
	ErrExists   = errors.New("resource already exists")
)

// Resource is one stored API resource: its full hierarchical name and its
// JSON document.
type Resource struct {
	Name string
	Data []byte
}

// Store persists mock resources keyed by full resource name. Listing is
// ordered by name ascending and cursored by the last returned name, so a
// page token stays valid across writes.
// Implementations must be safe for concurrent use.
type Store interface {
	// Create stores a new resource. Returns ErrExists if the name is taken.
	Create(ctx context.Context, name string, data []byte) error

	// Put stores a resource unconditionally (used for singletons).
	Put(ctx context.Context, name string, data []byte) error

	// Get returns the resource document. Returns ErrNotFound if absent.
	Get(ctx context.Context, name string) ([]byte, error)

	// List returns up to limit resources whose names start with prefix,
	// ordered by name, starting strictly after the cursor name.
	List(ctx context.Context, prefix string, limit int, after string) ([]Resource, error)

	// Delete removes the resource. Returns ErrNotFound if absent.
	Delete(ctx context.Context, name string) error

	// Close releases any resources held by the store.
	Close() error
}

func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return 50
	case limit > 1000:
		return 1000
	default:
		return limit
	}
}
