package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/blogrelay/internal/domain"
	"github.com/phrazzld/blogrelay/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, topic string) (*domain.GenerationResult, error)

	// Default response values
	Result *domain.GenerationResult
	Err    error

	// Call tracking for verification
	GenerateCalls struct {
		mu sync.Mutex

		// Count tracks how many times Generate was called
		Count int

		// Topics contains all topics passed to Generate calls
		Topics []string
	}
}

var _ generation.Generator = (*MockGenerator)(nil)

// Generate implements the generation.Generator interface
func (m *MockGenerator) Generate(ctx context.Context, topic string) (*domain.GenerationResult, error) {
	m.GenerateCalls.mu.Lock()
	m.GenerateCalls.Count++
	m.GenerateCalls.Topics = append(m.GenerateCalls.Topics, topic)
	m.GenerateCalls.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, topic)
	}
	return m.Result, m.Err
}

// Calls returns how many times Generate has been called.
func (m *MockGenerator) Calls() int {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()
	return m.GenerateCalls.Count
}

// NewMockGeneratorWithText creates a MockGenerator whose result for any topic
// is text produced from generation.BuildPrompt(topic).
func NewMockGeneratorWithText(text string) *MockGenerator {
	return &MockGenerator{
		GenerateFn: func(_ context.Context, topic string) (*domain.GenerationResult, error) {
			return &domain.GenerationResult{
				Text:         text,
				SourcePrompt: generation.BuildPrompt(topic),
			}, nil
		},
	}
}

// NewMockGeneratorWithError creates a MockGenerator that returns the specified error
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{
		Err: err,
	}
}

// Reset resets the call tracking state
func (m *MockGenerator) Reset() {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()

	m.GenerateCalls.Count = 0
	m.GenerateCalls.Topics = nil
}
