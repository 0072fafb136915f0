// Package store abstracts the hosted document database behind a narrow
// interface so the repository layer can run against Cloud Firestore in
// production and an in-memory store in tests and demo mode.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("store: document not found")
	ErrClosed   = errors.New("store: closed")
)

// Document is one untyped record as returned by the backing store.
// Time-typed fields inside Data are native time.Time values; converting
// them to and from entity fields is the repository's job.
type Document struct {
	ID   string
	Data map[string]any
}

// Filter is a single equality constraint on a document field.
type Filter struct {
	Field string
	Value any
}

// Query describes a parent-scoped collection read: equality filters,
// optional descending order, optional result limit (0 = no limit).
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

// Store is the document database surface the repositories consume.
type Store interface {
	// Add inserts data into collection and returns the assigned id.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)

	// Get reads a single document by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Query returns all matching documents in query order. An empty
	// result is ([]Document{}, nil), never an error.
	Query(ctx context.Context, q Query) ([]Document, error)

	// Update applies a partial field merge to an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete permanently removes a document. No cascade.
	Delete(ctx context.Context, collection, id string) error

	// BatchAdd inserts all documents atomically: either every record is
	// written or none are. Returns assigned ids in input order.
	BatchAdd(ctx context.Context, collection string, docs []map[string]any) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
