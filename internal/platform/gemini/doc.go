// Package gemini provides an implementation of the generation.Generator
// interface backed by Google's Gemini API.
//
// It sends the fixed blog prompt with the shared sampling parameters through
// the google.golang.org/genai client and reduces the response to the text of
// the first candidate.
package gemini
