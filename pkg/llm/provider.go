package llm

import (
	"context"
	"slices"

	"github.com/matzehuels/archsketch/pkg/errors"
)

// Provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderStatic = "static"
)

// Providers lists the supported provider names.
var Providers = []string{ProviderGemini, ProviderOpenAI, ProviderOllama, ProviderStatic}

// Config selects and configures a provider.
type Config struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	Temperature *float64

	// StaticText is the canned response of the static provider.
	StaticText string
}

// New builds the generator named by cfg.Provider.
func New(ctx context.Context, cfg Config) (Generator, error) {
	switch cfg.Provider {
	case "", ProviderGemini:
		var temp *float32
		if cfg.Temperature != nil {
			t := float32(*cfg.Temperature)
			temp = &t
		}
		return NewGemini(ctx, GeminiConfig{APIKey: cfg.APIKey, Model: cfg.Model, Temperature: temp})
	case ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Model: cfg.Model, Temperature: cfg.temperature()})
	case ProviderOllama:
		return NewOllama(OllamaConfig{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Model: cfg.Model, Temperature: cfg.temperature()})
	case ProviderStatic:
		return &Static{Text: cfg.StaticText}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown provider %q (want one of %v)", cfg.Provider, Providers)
}

var defaultModels = map[string]string{
	ProviderGemini: DefaultModel,
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "llama3.1",
}

// DefaultModelFor returns the model used when none is configured.
func DefaultModelFor(provider string) string {
	return defaultModels[provider]
}

// IsProvider reports whether name is a supported provider.
func IsProvider(name string) bool {
	return slices.Contains(Providers, name)
}

func (cfg Config) temperature() float64 {
	if cfg.Temperature == nil {
		return 0.2
	}
	return *cfg.Temperature
}
