// Package api implements the HTTP surface of the blog relay: the generation
// endpoint, read-back of stored artifacts, and health probes.
//
// Handlers translate requests into pipeline invocations and map the
// resulting errors onto status codes and stable client-facing messages
// (see MapErrorToStatusCode and GetSafeErrorMessage). Internal error detail
// is logged, never returned.
package api
