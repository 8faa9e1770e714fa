// Package huggingface implements generation.Generator against the Hugging
// Face Inference API text-generation task.
//
// The request carries the prompt as "inputs" plus the fixed sampling
// parameters, and the response is expected to be a JSON array of candidates,
// each with a "generated_text" field. Only the first candidate is used.
package huggingface
