// Package events carries notifications about finished relay invocations to
// optional subscribers, such as the artifact index, without coupling the
// pipeline to them.
package events
