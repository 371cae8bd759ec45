package providers

import (
	"context"
	"fmt"

	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/extraction"
	"github.com/akolanti/propdocs/internal/llm"
	"github.com/akolanti/propdocs/internal/llm/gemini"
	"github.com/akolanti/propdocs/internal/llm/openaiLLM"
	"github.com/akolanti/propdocs/pkg/logger_i"
)

var logger = logger_i.NewLogger("llm_providers")

// Set is the model wiring for one process. Vision is nil when no Gemini key
// is configured; the extraction chain then skips straight to OCR.
type Set struct {
	Provider llm.Provider
	Vision   extraction.VisionExtractor
}

// New picks the answering provider from settings. Vision always comes from
// Gemini, whichever vendor answers.
func New(ctx context.Context, settings config.LLMSettings) (Set, error) {
	var set Set

	var g *gemini.Client
	if settings.GeminiAPIKey != "" {
		c, err := gemini.GetGeminiClient(ctx, settings)
		if err != nil {
			return set, err
		}
		g = c
		set.Vision = g
	}

	switch settings.Provider {
	case "", config.LLMProviderGemini:
		if g == nil {
			return set, fmt.Errorf("provider %q needs a gemini api key", config.LLMProviderGemini)
		}
		set.Provider = g
	case config.LLMProviderOpenAI:
		c, err := openaiLLM.NewClient(settings)
		if err != nil {
			return set, err
		}
		set.Provider = c
	default:
		return set, fmt.Errorf("unknown llm provider %q", settings.Provider)
	}

	logger.Info("llm providers ready", "provider", settings.Provider, "vision", set.Vision != nil)
	return set, nil
}
