// Package storage persists generated posts as plain-text artifacts in an
// object store. It derives a deterministic, human-traceable key from the
// topic and the wall-clock time, wraps the text in a fixed envelope, and
// returns the public URL under which the bucket serves the object.
//
// Whether that URL is actually readable is governed by the bucket's own
// policy; this package performs no access control.
package storage
