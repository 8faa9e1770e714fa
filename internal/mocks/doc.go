// Package mocks provides centralized mock implementations for testing.
//
// Each mock has function fields for overriding behavior, default return
// values, and call tracking guarded by a mutex so it can be shared by
// parallel subtests.
//
//	gen := &mocks.MockGenerator{
//	    GenerateFn: func(ctx context.Context, topic string) (*domain.GenerationResult, error) {
//	        return &domain.GenerationResult{Text: "hello"}, nil
//	    },
//	}
//
// When adding a new mock to this package, name the file after the interface
// being mocked.
package mocks
