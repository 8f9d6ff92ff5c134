package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"

	"smarthire/internal/config"
)

// NewLLM builds the configured chat model client. It returns a nil model and
// no error when no API key is set, leaving question generation unavailable.
func NewLLM(ctx context.Context, cfg *config.Config) (llms.Model, error) {
	if cfg.LLMAPIKey == "" {
		log.Warn().Str("provider", cfg.LLMProvider).Msg("No LLM API key configured, interview questions are disabled")
		return nil, nil
	}

	switch cfg.LLMProvider {
	case config.LLMProviderGoogleAI:
		llm, err := googleai.New(ctx, googleai.WithAPIKey(cfg.LLMAPIKey), googleai.WithDefaultModel(cfg.LLMModel))
		if err != nil {
			return nil, fmt.Errorf("failed to create Google AI LLM: %w", err)
		}
		return llm, nil
	default:
		llm, err := openai.New(openai.WithToken(cfg.LLMAPIKey), openai.WithModel(cfg.LLMModel))
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI LLM: %w", err)
		}
		return llm, nil
	}
}
