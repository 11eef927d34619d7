package defaults

import "context"

// MapStore keeps the record in memory. Nothing outlives the process.
type MapStore struct {
	rec Record
}

// NewMapStore creates an in-memory store holding rec.
func NewMapStore(rec Record) *MapStore {
	return &MapStore{rec: rec}
}

// Get returns the in-memory value for name.
func (s *MapStore) Get(_ context.Context, name string) (string, error) {
	return s.rec.Field(name), nil
}

// SetAll replaces the in-memory record.
func (s *MapStore) SetAll(_ context.Context, rec Record) error {
	s.rec = rec
	return nil
}

// All returns the in-memory record.
func (s *MapStore) All(_ context.Context) (Record, error) {
	return s.rec, nil
}

// DeleteAll clears the in-memory record.
func (s *MapStore) DeleteAll(_ context.Context) error {
	s.rec = Record{}
	return nil
}
