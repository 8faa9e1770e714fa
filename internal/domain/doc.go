// Package domain contains the core entities of the blog relay: the request a
// caller submits, the text the generation service produces, and the artifact
// persisted in object storage. It is independent of any specific transport,
// generation provider or storage backend.
package domain
