// Package memory is an in-process repository.DocumentStore used for local
// development and tests. It mirrors the mongo semantics the services rely on.
package memory

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"alcyxob/reptrack/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type entry struct {
	seq int64
	doc bson.M
}

// Store keeps every collection in memory.
type Store struct {
	mu          sync.Mutex
	seq         int64
	collections map[string]map[string]*entry
	failures    map[string]error
}

var _ repository.DocumentStore = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{
		collections: make(map[string]map[string]*entry),
		failures:    make(map[string]error),
	}
}

// Fail makes every operation on collection return err until Heal is called.
// An empty collection name fails every collection.
func (s *Store) Fail(collection string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[collection] = err
}

// Heal clears all injected failures.
func (s *Store) Heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]error)
}

func (s *Store) failure(collection string) error {
	if err, ok := s.failures[""]; ok {
		return err
	}
	return s.failures[collection]
}

func (s *Store) NewID(string) string {
	return uuid.NewString()
}

func (s *Store) GetByID(_ context.Context, collection, id string, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(collection); err != nil {
		return err
	}
	e, ok := s.collections[collection][id]
	if !ok {
		return repository.ErrNotFound
	}
	raw, err := bson.Marshal(e.doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func (s *Store) Find(_ context.Context, collection string, filter repository.Filter, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(collection); err != nil {
		return err
	}
	matched, err := s.match(collection, filter)
	if err != nil {
		return err
	}
	return decode(matched, out)
}

func (s *Store) FindPage(_ context.Context, collection string, filter repository.Filter, q repository.PageQuery, out any) (repository.Cursor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(collection); err != nil {
		return "", err
	}
	matched, err := s.match(collection, filter)
	if err != nil {
		return "", err
	}
	dir := int(q.Direction)
	if dir == 0 {
		dir = int(repository.Ascending)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return dir*compareKey(matched[i], matched[j], q.OrderBy) < 0
	})

	if q.After != "" {
		afterValue, afterID, err := repository.DecodeCursor(q.After)
		if err != nil {
			return "", err
		}
		start := len(matched)
		for i, e := range matched {
			c := compareValues(e.doc[q.OrderBy], afterValue)
			if c == 0 {
				c = compareValues(e.doc["_id"], afterID)
			}
			if dir*c > 0 {
				start = i
				break
			}
		}
		matched = matched[start:]
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	if err := decode(matched, out); err != nil {
		return "", err
	}
	if len(matched) == 0 {
		return "", nil
	}
	last := matched[len(matched)-1]
	return repository.EncodeCursor(last.doc[q.OrderBy], last.doc["_id"].(string))
}

func (s *Store) Count(_ context.Context, collection string, filter repository.Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(collection); err != nil {
		return 0, err
	}
	matched, err := s.match(collection, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (s *Store) Create(_ context.Context, collection, id string, doc any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(collection); err != nil {
		return err
	}
	if _, ok := s.collections[collection][id]; ok {
		return repository.ErrAlreadyExists
	}
	return s.set(collection, id, doc)
}

func (s *Store) Set(_ context.Context, collection, id string, doc any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(collection); err != nil {
		return err
	}
	return s.set(collection, id, doc)
}

func (s *Store) Update(_ context.Context, collection, id string, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(collection); err != nil {
		return err
	}
	return s.update(collection, id, patch)
}

func (s *Store) Delete(_ context.Context, collection, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(collection); err != nil {
		return false, err
	}
	return s.delete(collection, id), nil
}

func (s *Store) Increment(_ context.Context, collection, id, field string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(collection); err != nil {
		return err
	}
	e, ok := s.collections[collection][id]
	if !ok {
		return repository.ErrNotFound
	}
	current, ok := toFloat(e.doc[field])
	if !ok && e.doc[field] != nil {
		return fmt.Errorf("increment %s.%s: field is not numeric", collection, field)
	}
	e.doc[field] = int64(current) + int64(delta)
	return nil
}

func (s *Store) ArrayUnion(_ context.Context, collection, id, field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(collection); err != nil {
		return err
	}
	e, ok := s.collections[collection][id]
	if !ok {
		return repository.ErrNotFound
	}
	v, err := repository.Normalize(value)
	if err != nil {
		return err
	}
	arr, _ := e.doc[field].(primitive.A)
	for _, existing := range arr {
		if equalValues(existing, v) {
			return nil
		}
	}
	e.doc[field] = append(arr, v)
	return nil
}

func (s *Store) ArrayRemove(_ context.Context, collection, id, field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(collection); err != nil {
		return err
	}
	e, ok := s.collections[collection][id]
	if !ok {
		return repository.ErrNotFound
	}
	v, err := repository.Normalize(value)
	if err != nil {
		return err
	}
	arr, _ := e.doc[field].(primitive.A)
	kept := primitive.A{}
	for _, existing := range arr {
		if !equalValues(existing, v) {
			kept = append(kept, existing)
		}
	}
	e.doc[field] = kept
	return nil
}

// Batch applies ops in order. Ops before a failing one stay applied.
func (s *Store) Batch(_ context.Context, ops []repository.WriteOp) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for _, op := range ops {
		if err := s.failure(op.Collection); err != nil {
			errs = append(errs, err)
			continue
		}
		var err error
		switch op.Kind {
		case repository.OpSet:
			err = s.set(op.Collection, op.ID, op.Doc)
		case repository.OpUpdate:
			err = s.update(op.Collection, op.ID, op.Patch)
			if errors.Is(err, repository.ErrNotFound) {
				err = nil // matches mongo bulk semantics: unmatched updates are not errors
			}
		case repository.OpDelete:
			s.delete(op.Collection, op.ID)
		default:
			err = fmt.Errorf("unknown batch op %d", op.Kind)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Store) set(collection, id string, doc any) error {
	m, err := repository.ToDocument(id, doc)
	if err != nil {
		return err
	}
	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]*entry)
		s.collections[collection] = coll
	}
	if e, ok := coll[id]; ok {
		e.doc = m
		return nil
	}
	s.seq++
	coll[id] = &entry{seq: s.seq, doc: m}
	return nil
}

func (s *Store) update(collection, id string, patch map[string]any) error {
	e, ok := s.collections[collection][id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range patch {
		nv, err := repository.Normalize(v)
		if err != nil {
			return err
		}
		e.doc[k] = nv
	}
	return nil
}

func (s *Store) delete(collection, id string) bool {
	if _, ok := s.collections[collection][id]; !ok {
		return false
	}
	delete(s.collections[collection], id)
	return true
}

// match returns the entries of collection satisfying filter in insertion order.
func (s *Store) match(collection string, filter repository.Filter) ([]*entry, error) {
	want := make(map[string]any, len(filter))
	for k, v := range filter {
		nv, err := repository.Normalize(v)
		if err != nil {
			return nil, err
		}
		want[k] = nv
	}
	var out []*entry
	for _, e := range s.collections[collection] {
		if matches(e.doc, want) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out, nil
}

func matches(doc bson.M, want map[string]any) bool {
	for k, v := range want {
		got := doc[k]
		if arr, ok := got.(primitive.A); ok {
			if _, wantArr := v.(primitive.A); !wantArr {
				found := false
				for _, item := range arr {
					if equalValues(item, v) {
						found = true
						break
					}
				}
				if !found {
					return false
				}
				continue
			}
		}
		if !equalValues(got, v) {
			return false
		}
	}
	return true
}

func decode(entries []*entry, out any) error {
	raws := make([]bson.Raw, 0, len(entries))
	for _, e := range entries {
		raw, err := bson.Marshal(e.doc)
		if err != nil {
			return err
		}
		raws = append(raws, raw)
	}
	return repository.DecodeAll(raws, out)
}

func compareKey(a, b *entry, field string) int {
	if c := compareValues(a.doc[field], b.doc[field]); c != 0 {
		return c
	}
	return compareValues(a.doc["_id"], b.doc["_id"])
}

func equalValues(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	return reflect.DeepEqual(a, b)
}

func compareValues(a, b any) int {
	switch x := a.(type) {
	case primitive.DateTime:
		if y, ok := b.(primitive.DateTime); ok {
			return cmp3(int64(x), int64(y))
		}
	case string:
		if y, ok := b.(string); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case bool:
		if y, ok := b.(bool); ok && x != y {
			if !x {
				return -1
			}
			return 1
		}
		return 0
	}
	fa, aok := toFloat(a)
	fb, bok := toFloat(b)
	switch {
	case aok && bok:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case a == nil && b != nil:
		return -1
	case a != nil && b == nil:
		return 1
	}
	return 0
}

func cmp3(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
