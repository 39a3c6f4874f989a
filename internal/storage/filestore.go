// Package storage persists JSON records as one file per entity under a root
// directory, namespaced by entity kind.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const (
	nsForms   = "forms"
	nsAnswers = "answers"
	activeKey = "active"
)

// FileStore reads and writes JSON records under one root directory tree.
// Writes are atomic at single-record granularity; there is no cross-call
// isolation.
type FileStore struct {
	root string
	log  zerolog.Logger
}

// NewFileStore creates the root and its namespace directories if absent.
func NewFileStore(root string, log zerolog.Logger) (*FileStore, error) {
	if root == "" {
		root = "./data"
	}
	for _, dir := range []string{root, filepath.Join(root, nsForms), filepath.Join(root, nsAnswers)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &FileStore{root: root, log: log}, nil
}

// path rejects keys that would escape the namespace directory.
func (s *FileStore) path(ns, key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	if ns == "" {
		return filepath.Join(s.root, key+".json"), nil
	}
	return filepath.Join(s.root, ns, key+".json"), nil
}

// Read decodes the record for key into out. The bool result reports whether
// the record exists; a missing record is not an error and leaves out at the
// caller's fallback value.
func (s *FileStore) Read(ns, key string, out any) (bool, error) {
	p, err := s.path(ns, key)
	if err != nil {
		return false, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("storage: decode %s: %w", filepath.Base(p), err)
	}
	return true, nil
}

// Write replaces the record for key atomically: the encoded record lands in a
// temp file in the same directory and is renamed over the target, so a
// concurrent reader never observes a torn record.
func (s *FileStore) Write(ns, key string, v any) error {
	p, err := s.path(ns, key)
	if err != nil {
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}

// List visits every record in the namespace in file-name order. Unreadable or
// corrupt entries are skipped with a warning rather than failing the listing.
func (s *FileStore) List(ns string, visit func(key string, raw []byte)) error {
	dir := filepath.Join(s.root, ns)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			s.log.Warn().Err(err).Str("file", name).Msg("skipping unreadable record")
			continue
		}
		if !json.Valid(b) {
			s.log.Warn().Str("file", name).Msg("skipping corrupt record")
			continue
		}
		visit(strings.TrimSuffix(name, ".json"), b)
	}
	return nil
}
