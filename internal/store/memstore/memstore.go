// Package memstore implements store.Store with in-process maps.
// It backs demo mode and tests; semantics mirror the Firestore
// implementation closely enough for the repository layer not to care.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"finboard.org/internal/ids"
	"finboard.org/internal/store"
)

// Store keeps every collection as an id->document map with insertion
// order preserved for queries without an explicit ordering.
type Store struct {
	mu     sync.RWMutex
	closed bool
	cols   map[string]*collection
}

type collection struct {
	docs  map[string]map[string]any
	order []string
}

// New creates an empty store.
func New() *Store {
	return &Store{cols: make(map[string]*collection)}
}

func (s *Store) collection(name string) *collection {
	col, ok := s.cols[name]
	if !ok {
		col = &collection{docs: make(map[string]map[string]any)}
		s.cols[name] = col
	}
	return col
}

func (s *Store) Add(ctx context.Context, name string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", store.ErrClosed
	}
	id := ids.New()
	col := s.collection(name)
	col.docs[id] = cloneDoc(data)
	col.order = append(col.order, id)
	return id, nil
}

func (s *Store) Get(ctx context.Context, name, id string) (store.Document, error) {
	if err := ctx.Err(); err != nil {
		return store.Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return store.Document{}, store.ErrClosed
	}
	col, ok := s.cols[name]
	if !ok {
		return store.Document{}, store.ErrNotFound
	}
	data, ok := col.docs[id]
	if !ok {
		return store.Document{}, store.ErrNotFound
	}
	return store.Document{ID: id, Data: cloneDoc(data)}, nil
}

func (s *Store) Query(ctx context.Context, q store.Query) ([]store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, store.ErrClosed
	}
	out := []store.Document{}
	col, ok := s.cols[q.Collection]
	if !ok {
		return out, nil
	}
	for _, id := range col.order {
		data := col.docs[id]
		if matches(data, q.Filters) {
			out = append(out, store.Document{ID: id, Data: cloneDoc(data)})
		}
	}
	if q.OrderBy != "" {
		sortDocs(out, q.OrderBy, q.Descending)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, name, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	col, ok := s.cols[name]
	if !ok {
		return store.ErrNotFound
	}
	data, ok := col.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	for k, v := range fields {
		data[k] = cloneValue(v)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, name, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	col, ok := s.cols[name]
	if !ok {
		return store.ErrNotFound
	}
	if _, ok := col.docs[id]; !ok {
		return store.ErrNotFound
	}
	delete(col.docs, id)
	for i, existing := range col.order {
		if existing == id {
			col.order = append(col.order[:i], col.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) BatchAdd(ctx context.Context, name string, docs []map[string]any) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, store.ErrClosed
	}
	// All-or-nothing: ids are assigned up front and applied in one
	// critical section, so a partial batch is never observable.
	assigned := make([]string, len(docs))
	for i := range docs {
		assigned[i] = ids.New()
	}
	col := s.collection(name)
	for i, data := range docs {
		col.docs[assigned[i]] = cloneDoc(data)
		col.order = append(col.order, assigned[i])
	}
	return assigned, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func matches(data map[string]any, filters []store.Filter) bool {
	for _, f := range filters {
		if !equalValues(data[f.Field], f.Value) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	if aok && bok {
		return at.Equal(bt)
	}
	return a == b
}

func sortDocs(docs []store.Document, field string, desc bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		less := lessValues(docs[i].Data[field], docs[j].Data[field])
		if desc {
			return lessValues(docs[j].Data[field], docs[i].Data[field])
		}
		return less
	})
}

func lessValues(a, b any) bool {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return av < bv
		}
	case string:
		if bv, ok := b.(string); ok {
			return av < bv
		}
	}
	return false
}

func cloneDoc(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneDoc(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}
