// Package store defines the persistence interfaces for the artifact index,
// which remembers every artifact written to the object store so that recent
// posts can be listed without scanning the bucket.
package store
