// Package storage provides a file-backed keyed store: a mutex-guarded
// in-memory map mirrored to a JSON file with atomic rewrites.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Record is anything the store can persist.
type Record interface {
	Key() string
}

// DecodeFunc turns one raw JSON record into a typed record. Returning
// ok=false skips the record (wrong field types, malformed timestamps, ...)
// without failing the whole load.
type DecodeFunc[T Record] func(raw json.RawMessage) (T, bool)

// Store holds a map of records fully in memory and rewrites the backing
// file after every mutation. The in-memory map is the source of truth
// during process lifetime; the file is a best-effort mirror.
type Store[T Record] struct {
	mu     sync.Mutex
	path   string
	items  map[string]T
	decode DecodeFunc[T]
}

// Open creates a store backed by the given file. A missing, unreadable or
// malformed file yields an empty store; individual records that fail the
// decode hook are skipped. The number of skipped records is returned so
// callers can log it.
func Open[T Record](path string, decode DecodeFunc[T]) (*Store[T], int) {
	s := &Store[T]{
		path:   path,
		items:  make(map[string]T),
		decode: decode,
	}
	skipped := s.load()
	return s, skipped
}

func (s *Store[T]) load() int {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return 0
	}

	skipped := 0
	for _, raw := range raws {
		rec, ok := s.decode(raw)
		if !ok {
			skipped++
			continue
		}
		s.items[rec.Key()] = rec
	}
	return skipped
}

// Update applies fn to the map under the store lock, then synchronously
// rewrites the backing file. If fn returns an error the map may still have
// been mutated by fn, but nothing is persisted and the error is returned
// unchanged; callers use fn errors only for abort-before-mutate decisions.
// A persist failure is returned after the in-memory mutation took effect.
func (s *Store[T]) Update(fn func(items map[string]T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.items); err != nil {
		return err
	}
	return s.persistLocked()
}

// View runs fn with read access to the map under the store lock. fn must
// not retain or mutate the map.
func (s *Store[T]) View(fn func(items map[string]T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.items)
}

// Len returns the number of records.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// persistLocked serializes the whole map sorted by key and atomically
// replaces the backing file (write-new-then-rename, never in place).
func (s *Store[T]) persistLocked() error {
	keys := make([]string, 0, len(s.items))
	for key := range s.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	records := make([]T, 0, len(keys))
	for _, key := range keys {
		records = append(records, s.items[key])
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}
