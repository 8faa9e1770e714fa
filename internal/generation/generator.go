package generation

import (
	"context"
	"strings"

	"github.com/phrazzld/blogrelay/internal/domain"
)

// Generator produces blog text for a topic by calling an external service.
// Implementations make exactly one attempt per call.
type Generator interface {
	// Generate builds the prompt for topic, sends it upstream and returns
	// the cleaned text. The text may be empty; callers decide whether that
	// is a failure.
	Generate(ctx context.Context, topic string) (*domain.GenerationResult, error)
}

// promptPrefix is kept verbatim, grammar included, for output compatibility.
const promptPrefix = "Write a article about "

// BuildPrompt returns the fixed prompt for topic.
func BuildPrompt(topic string) string {
	return promptPrefix + topic
}

// Parameters are the sampling settings sent with every generation request.
type Parameters struct {
	MaxLength          int     `json:"max_length"`
	Temperature        float64 `json:"temperature"`
	TopP               float64 `json:"top_p"`
	NumReturnSequences int     `json:"num_return_sequences"`
}

// DefaultParameters are fixed for every provider. Three candidates are
// requested but only the first is ever used.
var DefaultParameters = Parameters{
	MaxLength:          500,
	Temperature:        0.7,
	TopP:               0.8,
	NumReturnSequences: 3,
}

// NewResult strips every echo of prompt from raw and trims the remainder.
func NewResult(prompt, raw string) *domain.GenerationResult {
	return &domain.GenerationResult{
		Text:         CleanText(prompt, raw),
		SourcePrompt: prompt,
	}
}

// CleanText removes prompt from text until no occurrence is left, then trims
// surrounding whitespace. Removal repeats because deleting one occurrence can
// splice a new one together.
func CleanText(prompt, text string) string {
	if prompt != "" {
		for strings.Contains(text, prompt) {
			text = strings.ReplaceAll(text, prompt, "")
		}
	}
	return strings.TrimSpace(text)
}
