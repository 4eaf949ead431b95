// Package localcache persists entity lists as pretty-printed JSON files, one
// file per entity type. It is a best-effort mirror of the remote store: read
// and write failures are logged and never returned.
package localcache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// File names of the cached entity lists.
const (
	ProgramsFile     = "programs.json"
	ExercisesFile    = "exercises.json"
	ProgressLogsFile = "progress_logs.json"
	UsersFile        = "users.json"
)

// Record is an entity that can be cached. CacheKey must be unique within a file.
type Record interface {
	CacheKey() string
}

// Store is the cache file of one entity type.
type Store[T Record] struct {
	mu   sync.Mutex
	path string
	log  logrus.FieldLogger
}

// New returns the store for dir/name. Nothing is touched on disk until the
// first write.
func New[T Record](dir, name string, log logrus.FieldLogger) *Store[T] {
	return &Store[T]{
		path: filepath.Join(dir, name),
		log:  log.WithField("cache_file", name),
	}
}

// All returns every cached record. A missing or corrupt file reads as empty.
func (s *Store[T]) All() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns the cached record with the given key.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.load() {
		if r.CacheKey() == key {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns the cached records accepted by match.
func (s *Store[T]) Filter(match func(T) bool) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []T
	for _, r := range s.load() {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Upsert replaces the record with the same key or appends it.
func (s *Store[T]) Upsert(record T) {
	s.UpsertAll([]T{record})
}

func (s *Store[T]) UpsertAll(records []T) {
	if len(records) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.load()
	index := make(map[string]int, len(current))
	for i, r := range current {
		index[r.CacheKey()] = i
	}
	for _, r := range records {
		if i, ok := index[r.CacheKey()]; ok {
			current[i] = r
			continue
		}
		index[r.CacheKey()] = len(current)
		current = append(current, r)
	}
	s.save(current)
}

// ReplaceWhere drops every record accepted by match and stores records in
// their place, so the cached subset mirrors a fresh remote answer exactly.
func (s *Store[T]) ReplaceWhere(match func(T) bool, records []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fresh := make(map[string]bool, len(records))
	for _, r := range records {
		fresh[r.CacheKey()] = true
	}
	var kept []T
	for _, r := range s.load() {
		if match(r) || fresh[r.CacheKey()] {
			continue
		}
		kept = append(kept, r)
	}
	s.save(append(kept, records...))
}

// Remove drops the record with the given key.
func (s *Store[T]) Remove(key string) {
	s.RemoveWhere(func(r T) bool { return r.CacheKey() == key })
}

func (s *Store[T]) RemoveWhere(match func(T) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.load()
	kept := current[:0]
	for _, r := range current {
		if !match(r) {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(current) {
		return
	}
	s.save(kept)
}

func (s *Store[T]) load() []T {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.WithError(err).Debug("Failed to read cache file")
		}
		return nil
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		s.log.WithError(err).Debug("Ignoring unreadable cache file")
		return nil
	}
	return records
}

func (s *Store[T]) save(records []T) {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		s.log.WithError(err).Debug("Failed to encode cache file")
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.log.WithError(err).Debug("Failed to create cache directory")
		return
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.log.WithError(err).Debug("Failed to write cache file")
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.log.WithError(err).Debug("Failed to replace cache file")
	}
}
