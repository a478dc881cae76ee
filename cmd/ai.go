package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pkondratev/contrib-compass/internal/ai"
	"github.com/pkondratev/contrib-compass/internal/ai/gemini"
	"github.com/pkondratev/contrib-compass/internal/ai/openrouter"
	"github.com/pkondratev/contrib-compass/internal/logger"
	"github.com/pkondratev/contrib-compass/internal/secrets"
)

const (
	providerOpenRouter = "openrouter"
	providerGemini     = "gemini"
)

// newGenerator builds the configured completion provider. An empty provider
// defaults to openrouter, matching the endpoint the browser UI talks to.
func newGenerator(ctx context.Context, cfg *AIConfig, apiKey, model string) (ai.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider == "" {
		provider = providerOpenRouter
	}

	if model == "" {
		model = cfg.Model
	}

	switch provider {
	case providerOpenRouter:
		return openrouter.NewGenerator(apiKey, model)
	case providerGemini:
		return gemini.NewGenerator(ctx, apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// resolveAIKey loads the provider API key from the configured file or the
// provider's conventional environment variable.
func resolveAIKey(cfg *AIConfig) (string, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	env := "OPENROUTER_API_KEY"
	if provider == providerGemini {
		env = "GEMINI_API_KEY"
	}

	return secrets.Load(secrets.Source{
		Name: fmt.Sprintf("%s api key", providerOrDefault(provider)),
		File: cfg.APIKeyFile,
		Env:  env,
	})
}

func providerOrDefault(provider string) string {
	if provider == "" {
		return providerOpenRouter
	}
	return provider
}

// aiLogger attaches provider and model fields for the chat code paths.
func aiLogger(base *zap.Logger, cfg *AIConfig, model string) *zap.Logger {
	if model == "" {
		model = cfg.Model
	}
	return logger.WithAIFields(base, providerOrDefault(strings.ToLower(cfg.Provider)), model)
}
