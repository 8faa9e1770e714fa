package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/phrazzld/blogrelay/internal/storage"
)

// PutCall records one PutObject invocation.
type PutCall struct {
	Bucket      string
	Key         string
	Body        []byte
	ContentType string
}

// MockObjectStore is an in-memory storage.ObjectStore. Objects written with
// PutObject can be read back with GetObject unless an error is configured.
type MockObjectStore struct {
	PutFn func(ctx context.Context, bucket, key string, body []byte, contentType string) error
	GetFn func(ctx context.Context, bucket, key string) (*storage.Object, error)

	PutErr error
	GetErr error

	mu      sync.Mutex
	objects map[string]*storage.Object
	puts    []PutCall
	gets    int
}

var _ storage.ObjectStore = (*MockObjectStore)(nil)

// NewMockObjectStore returns an empty in-memory object store.
func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{objects: make(map[string]*storage.Object)}
}

func objectID(bucket, key string) string {
	return bucket + "/" + key
}

// PutObject implements storage.ObjectStore.
func (m *MockObjectStore) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	m.mu.Lock()
	m.puts = append(m.puts, PutCall{Bucket: bucket, Key: key, Body: append([]byte(nil), body...), ContentType: contentType})
	m.mu.Unlock()

	if m.PutFn != nil {
		return m.PutFn(ctx, bucket, key, body, contentType)
	}
	if m.PutErr != nil {
		return m.PutErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = make(map[string]*storage.Object)
	}
	m.objects[objectID(bucket, key)] = &storage.Object{
		Body:         append([]byte(nil), body...),
		ContentType:  contentType,
		LastModified: time.Now().UTC(),
	}
	return nil
}

// GetObject implements storage.ObjectStore.
func (m *MockObjectStore) GetObject(ctx context.Context, bucket, key string) (*storage.Object, error) {
	m.mu.Lock()
	m.gets++
	m.mu.Unlock()

	if m.GetFn != nil {
		return m.GetFn(ctx, bucket, key)
	}
	if m.GetErr != nil {
		return nil, m.GetErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[objectID(bucket, key)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	return obj, nil
}

// Puts returns a copy of every PutObject call made so far.
func (m *MockObjectStore) Puts() []PutCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PutCall(nil), m.puts...)
}

// Gets returns how many times GetObject has been called.
func (m *MockObjectStore) Gets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets
}
