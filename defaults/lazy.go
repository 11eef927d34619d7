package defaults

import (
	"context"
	"log/slog"
	"sync"
)

// LazyStore opens the configured backend on first use, so commands that
// never read or write defaults leave no files behind.
type LazyStore struct {
	cfg Config

	mu      sync.Mutex
	store   Store
	cleanup func()
	err     error
}

// NewLazyStore returns a Store that calls Open with cfg when it is first used.
func NewLazyStore(cfg Config) *LazyStore {
	return &LazyStore{cfg: cfg}
}

func (s *LazyStore) open(ctx context.Context) (Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil || s.err != nil {
		return s.store, s.err
	}

	s.store, s.cleanup, s.err = Open(ctx, s.cfg)
	if s.err == nil {
		slog.Debug("defaults store opened", "type", s.cfg.Type, "path", s.cfg.Path)
	}
	return s.store, s.err
}

// Opened reports whether the backend has been opened.
func (s *LazyStore) Opened() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store != nil
}

func (s *LazyStore) Get(ctx context.Context, name string) (string, error) {
	store, err := s.open(ctx)
	if err != nil {
		return "", err
	}
	return store.Get(ctx, name)
}

func (s *LazyStore) SetAll(ctx context.Context, rec Record) error {
	store, err := s.open(ctx)
	if err != nil {
		return err
	}
	return store.SetAll(ctx, rec)
}

func (s *LazyStore) All(ctx context.Context) (Record, error) {
	store, err := s.open(ctx)
	if err != nil {
		return Record{}, err
	}
	return store.All(ctx)
}

func (s *LazyStore) DeleteAll(ctx context.Context) error {
	store, err := s.open(ctx)
	if err != nil {
		return err
	}
	return store.DeleteAll(ctx)
}

// Close releases the backend if it was opened.
func (s *LazyStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}
