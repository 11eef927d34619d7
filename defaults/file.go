package defaults

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileStore keeps records in a YAML file, one entry per namespace:
//
//	tbxmanager:
//	  login: alice
//	  package: mpt
type FileStore struct {
	path      string
	namespace string
}

// NewFileStore creates a store backed by the YAML file at path.
// The file is created on the first write.
func NewFileStore(path, namespace string) *FileStore {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &FileStore{path: filepath.Clean(path), namespace: namespace}
}

// Get returns the value stored for name in this store's namespace.
func (s *FileStore) Get(ctx context.Context, name string) (string, error) {
	rec, err := s.All(ctx)
	if err != nil {
		return "", err
	}
	return rec.Field(name), nil
}

// SetAll replaces this namespace's record and leaves other namespaces alone.
func (s *FileStore) SetAll(_ context.Context, rec Record) error {
	entries, err := s.load()
	if err != nil {
		return err
	}

	entries[s.namespace] = rec
	return s.save(entries)
}

// All returns this namespace's record, empty if none is stored.
func (s *FileStore) All(_ context.Context) (Record, error) {
	entries, err := s.load()
	if err != nil {
		return Record{}, err
	}
	return entries[s.namespace], nil
}

// DeleteAll removes this namespace's record. The file itself is removed
// once no namespace is left.
func (s *FileStore) DeleteAll(_ context.Context) error {
	entries, err := s.load()
	if err != nil {
		return err
	}

	delete(entries, s.namespace)
	return s.save(entries)
}

func (s *FileStore) load() (map[string]Record, error) {
	data, err := os.ReadFile(s.path) //#nosec G304 -- path comes from user config
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]Record), nil
		}
		return nil, fmt.Errorf("read defaults file: %w", err)
	}

	entries := make(map[string]Record)
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse defaults file: %w", err)
	}

	return entries, nil
}

func (s *FileStore) save(entries map[string]Record) error {
	if len(entries) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove defaults file: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create defaults directory: %w", err)
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write defaults file: %w", err)
	}

	return nil
}
