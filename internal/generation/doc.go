// Package generation defines the boundary between the relay and external
// text-generation services. It owns the prompt template, the fixed sampling
// parameters sent with every request, the cleanup applied to generated text,
// and the error taxonomy shared by all provider implementations.
//
// Provider adapters live under internal/platform and implement Generator.
package generation
