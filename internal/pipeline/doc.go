// Package pipeline runs one relay invocation: validate the topic, generate
// text for it, persist the text, and report the result.
//
// Each invocation moves through the states received, validated, generated
// and stored, or ends in failed. Every step makes exactly one attempt; a
// failure at any step ends the invocation with a typed error that the
// caller maps to a response.
package pipeline
