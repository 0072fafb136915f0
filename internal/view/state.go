package view

import (
	"context"
	"sync"
)

// InsertMode controls where a newly created record lands in the local
// slice, matching the collection's server ordering.
type InsertMode int

const (
	Prepend InsertMode = iota // newest-first collections
	Append                    // date-ascending collections
)

// FetchFunc loads the full collection for one parent.
type FetchFunc[T any] func(ctx context.Context, parentID string) ([]T, error)

// List is a stateful container over one entity collection scoped to a
// parent (company or account). Loads go through the shared cache;
// mutations update local state in place and invalidate the cache so
// other views re-fetch.
type List[T any] struct {
	entity string
	fetch  FetchFunc[T]
	idOf   func(T) string
	insert InsertMode
	cache  *Cache

	mu       sync.Mutex
	parentID string
	gen      uint64
	items    []T
	loading  bool
	errMsg   string
}

// NewList builds a container. idOf extracts the record identifier used
// to match local patches and deletes.
func NewList[T any](entity string, fetch FetchFunc[T], idOf func(T) string, insert InsertMode, cache *Cache) *List[T] {
	return &List[T]{
		entity: entity,
		fetch:  fetch,
		idOf:   idOf,
		insert: insert,
		cache:  cache,
	}
}

// SetParent switches the container to a new parent and fetches its
// collection exactly once. An empty parent clears state without a
// fetch. Responses that arrive after the parent changed again are
// discarded.
func (l *List[T]) SetParent(ctx context.Context, parentID string) error {
	l.mu.Lock()
	l.parentID = parentID
	l.gen++
	gen := l.gen
	if parentID == "" {
		l.items = nil
		l.loading = false
		l.errMsg = ""
		l.mu.Unlock()
		return nil
	}
	if cached, ok := l.cache.get(l.entity, parentID); ok {
		if items, ok := cached.([]T); ok {
			// Copy so containers sharing the cache never share a
			// backing array.
			l.items = copySlice(items)
			l.loading = false
			l.errMsg = ""
			l.mu.Unlock()
			return nil
		}
	}
	l.items = nil
	l.loading = true
	l.errMsg = ""
	l.mu.Unlock()

	items, err := l.fetch(ctx, parentID)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		// A newer SetParent won; this response is stale.
		return nil
	}
	l.loading = false
	if err != nil {
		l.errMsg = err.Error()
		return err
	}
	l.items = items
	l.errMsg = ""
	l.cache.put(l.entity, l.parentID, copySlice(items))
	return nil
}

func copySlice[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// Refresh re-fetches the current parent, bypassing the cache.
func (l *List[T]) Refresh(ctx context.Context) error {
	l.mu.Lock()
	parentID := l.parentID
	l.mu.Unlock()
	if parentID == "" {
		return nil
	}
	l.cache.Invalidate(l.entity, parentID)
	return l.SetParent(ctx, parentID)
}

// Items returns a copy of the current collection.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Loading reports whether a fetch is in flight.
func (l *List[T]) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Err returns the last fetch or mutation error message, empty when the
// last operation succeeded.
func (l *List[T]) Err() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errMsg
}

// Create runs the write and, on success, inserts the returned record
// locally per the container's insert mode. The cache entry for this
// parent is dropped so other views observe the new record.
func (l *List[T]) Create(ctx context.Context, write func(ctx context.Context) (T, error)) (T, error) {
	item, err := write(ctx)
	l.mu.Lock()
	if err != nil {
		l.errMsg = err.Error()
		l.mu.Unlock()
		return item, err
	}
	switch l.insert {
	case Prepend:
		l.items = append([]T{item}, l.items...)
	default:
		l.items = append(l.items, item)
	}
	l.errMsg = ""
	parentID := l.parentID
	l.mu.Unlock()
	l.cache.Invalidate(l.entity, parentID)
	return item, nil
}

// Patch runs the write and, on success, applies apply to the local
// record with the given id. Records that are not present locally are
// left alone; the cache is still invalidated.
func (l *List[T]) Patch(ctx context.Context, id string, write func(ctx context.Context) error, apply func(*T)) error {
	if err := write(ctx); err != nil {
		l.mu.Lock()
		l.errMsg = err.Error()
		l.mu.Unlock()
		return err
	}
	l.mu.Lock()
	for i := range l.items {
		if l.idOf(l.items[i]) == id {
			// Apply to a copy and swap it in, never the slot itself.
			item := l.items[i]
			apply(&item)
			l.items[i] = item
			break
		}
	}
	l.errMsg = ""
	parentID := l.parentID
	l.mu.Unlock()
	l.cache.Invalidate(l.entity, parentID)
	return nil
}

// Remove runs the write and, on success, drops the local record with
// the given id.
func (l *List[T]) Remove(ctx context.Context, id string, write func(ctx context.Context) error) error {
	if err := write(ctx); err != nil {
		l.mu.Lock()
		l.errMsg = err.Error()
		l.mu.Unlock()
		return err
	}
	l.mu.Lock()
	kept := l.items[:0]
	for _, it := range l.items {
		if l.idOf(it) != id {
			kept = append(kept, it)
		}
	}
	l.items = kept
	l.errMsg = ""
	parentID := l.parentID
	l.mu.Unlock()
	l.cache.Invalidate(l.entity, parentID)
	return nil
}
