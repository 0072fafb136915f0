// Package firestore adapts Cloud Firestore to the store.Store interface.
package firestore

import (
	"context"
	"fmt"

	cf "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"finboard.org/internal/obs"
	"finboard.org/internal/store"
)

// Store wraps a Firestore client.
type Store struct {
	client *cf.Client
}

// New connects to Firestore for the given project. credentialsFile may be
// empty, in which case application default credentials apply.
func New(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := cf.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: connect: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, data)
	obs.ObserveStoreOp("add", collection, err)
	if err != nil {
		return "", fmt.Errorf("firestore: add %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (store.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	obs.ObserveStoreOp("get", collection, err)
	if status.Code(err) == codes.NotFound {
		return store.Document{}, store.ErrNotFound
	}
	if err != nil {
		return store.Document{}, fmt.Errorf("firestore: get %s/%s: %w", collection, id, err)
	}
	return store.Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *Store) Query(ctx context.Context, q store.Query) ([]store.Document, error) {
	query := s.client.Collection(q.Collection).Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, "==", f.Value)
	}
	if q.OrderBy != "" {
		dir := cf.Asc
		if q.Descending {
			dir = cf.Desc
		}
		query = query.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	out := []store.Document{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			obs.ObserveStoreOp("query", q.Collection, err)
			return nil, fmt.Errorf("firestore: query %s: %w", q.Collection, err)
		}
		out = append(out, store.Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	obs.ObserveStoreOp("query", q.Collection, nil)
	return out, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	updates := make([]cf.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, cf.Update{Path: k, Value: v})
	}
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	obs.ObserveStoreOp("update", collection, err)
	if status.Code(err) == codes.NotFound {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("firestore: update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	obs.ObserveStoreOp("delete", collection, err)
	if err != nil {
		return fmt.Errorf("firestore: delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) BatchAdd(ctx context.Context, collection string, docs []map[string]any) ([]string, error) {
	// WriteBatch commits atomically: all writes land or none do.
	batch := s.client.Batch()
	col := s.client.Collection(collection)
	assigned := make([]string, len(docs))
	for i, data := range docs {
		ref := col.NewDoc()
		assigned[i] = ref.ID
		batch.Create(ref, data)
	}
	_, err := batch.Commit(ctx)
	obs.ObserveStoreOp("batch_add", collection, err)
	if err != nil {
		return nil, fmt.Errorf("firestore: batch add %s: %w", collection, err)
	}
	return assigned, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
