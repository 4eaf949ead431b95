// Package cached implements remote-first repositories that mirror their reads
// and writes into the local JSON cache and fall back to it when the remote
// store is unreachable.
package cached

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/reptrack/internal/localcache"
	"alcyxob/reptrack/internal/metrics"
	"alcyxob/reptrack/internal/repository"

	"github.com/sirupsen/logrus"
)

// Reconciler applies the remote-first policy to one collection.
//
// Writes go to the remote store first and reach the cache only once the
// remote accepted them. Successful reads refresh the cache. A failed read is
// answered from the cache when it holds matching data; a remote ErrNotFound
// is authoritative and never falls back.
type Reconciler[T localcache.Record] struct {
	store      repository.DocumentStore
	local      *localcache.Store[T]
	collection string
	log        logrus.FieldLogger
	metrics    *metrics.Metrics
}

func NewReconciler[T localcache.Record](store repository.DocumentStore, local *localcache.Store[T], collection string, log logrus.FieldLogger, m *metrics.Metrics) *Reconciler[T] {
	return &Reconciler[T]{
		store:      store,
		local:      local,
		collection: collection,
		log:        log.WithField("collection", collection),
		metrics:    m,
	}
}

// Put inserts or replaces rec remotely, then caches it.
func (r *Reconciler[T]) Put(ctx context.Context, rec T) error {
	if err := r.store.Set(ctx, r.collection, rec.CacheKey(), rec); err != nil {
		return fmt.Errorf("save %s: %w", r.collection, err)
	}
	r.local.Upsert(rec)
	return nil
}

// Update applies patch remotely and caches updated, which must be the record
// as it looks after the patch.
func (r *Reconciler[T]) Update(ctx context.Context, updated T, patch map[string]any) error {
	if err := r.store.Update(ctx, r.collection, updated.CacheKey(), patch); err != nil {
		if repository.IsNotFound(err) {
			r.local.Remove(updated.CacheKey())
			return err
		}
		return fmt.Errorf("update %s: %w", r.collection, err)
	}
	r.local.Upsert(updated)
	return nil
}

func (r *Reconciler[T]) Get(ctx context.Context, id string) (T, error) {
	var rec T
	err := r.store.GetByID(ctx, r.collection, id, &rec)
	if err == nil {
		r.local.Upsert(rec)
		return rec, nil
	}
	if repository.IsNotFound(err) {
		r.local.Remove(id)
		var zero T
		return zero, err
	}

	if cachedRec, ok := r.local.Get(id); ok {
		r.fellBack(err)
		return cachedRec, nil
	}
	var zero T
	return zero, &repository.UnavailableError{Op: "get " + r.collection, CacheMiss: true, Err: err}
}

// List runs filter remotely. match must select the same records locally: it
// scopes both the cache refresh and the fallback answer.
func (r *Reconciler[T]) List(ctx context.Context, filter repository.Filter, match func(T) bool) ([]T, error) {
	var recs []T
	err := r.store.Find(ctx, r.collection, filter, &recs)
	if err == nil {
		r.local.ReplaceWhere(match, recs)
		return recs, nil
	}

	if cachedRecs := r.local.Filter(match); len(cachedRecs) > 0 {
		r.fellBack(err)
		return cachedRecs, nil
	}
	return nil, &repository.UnavailableError{Op: "list " + r.collection, CacheMiss: true, Err: err}
}

// Delete removes the record remotely, then from the cache. It returns
// ErrNotFound when nothing was deleted.
func (r *Reconciler[T]) Delete(ctx context.Context, id string) error {
	deleted, err := r.store.Delete(ctx, r.collection, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.collection, err)
	}
	r.local.Remove(id)
	if !deleted {
		return repository.ErrNotFound
	}
	return nil
}

// Evict drops cached records accepted by match without touching the remote store.
func (r *Reconciler[T]) Evict(match func(T) bool) {
	r.local.RemoveWhere(match)
}

func (r *Reconciler[T]) fellBack(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	r.log.WithError(err).Warn("Remote read failed, serving cached data")
	r.metrics.CacheFallback(r.collection)
}

func all[T any](T) bool { return true }
