package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrStorage is returned when the object store rejects or fails a write.
	ErrStorage = errors.New("failed to store blog content")

	// ErrNotFound is returned when a requested artifact does not exist.
	ErrNotFound = errors.New("artifact not found")

	// ErrInvalidKey is returned when a key is outside the artifact namespace.
	ErrInvalidKey = errors.New("invalid artifact key")
)

// StorageError wraps the underlying object store failure for key.
type StorageError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store s3://%s/%s: %v", e.Bucket, e.Key, e.Err)
}

// Unwrap exposes both ErrStorage and the underlying cause to errors.Is/As.
func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}
