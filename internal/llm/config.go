// Package llm provides LLM configuration and provider clients used for resume
// extraction and project verification.
package llm

// ModelTier picks a model by how much reasoning a task needs.
type ModelTier string

const (
	// TierLite serves extraction and claim matching.
	TierLite ModelTier = "lite"
	// TierStandard is the fallback for tiers a config does not name.
	TierStandard ModelTier = "standard"
)

// Provider names an LLM backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

const (
	defaultGeminiLite     = "gemini-2.5-flash-lite"
	defaultGeminiStandard = "gemini-2.5-flash"
	defaultOpenAIModel    = "gpt-4o-mini"
)

// Config selects a provider and the model used for each tier.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// BaseURL overrides the provider endpoint (OpenAI-compatible gateways).
	BaseURL string
}

// DefaultConfig is the Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     defaultGeminiLite,
			TierStandard: defaultGeminiStandard,
		},
	}
}

// DefaultOpenAIConfig uses model, or gpt-4o-mini when empty, for every tier.
func DefaultOpenAIConfig(model string) *Config {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &Config{
		Provider: ProviderOpenAI,
		Models:   map[ModelTier]string{TierLite: model, TierStandard: model},
	}
}

// ConfigFor maps the LLM_PROVIDER setting onto a Config. Anything other than
// "openai" selects Gemini.
func ConfigFor(provider, openAIModel string) *Config {
	if Provider(provider) == ProviderOpenAI {
		return DefaultOpenAIConfig(openAIModel)
	}
	return DefaultConfig()
}

// GetModel returns the model for tier, falling back to the standard and then
// the lite model. It returns "" when none is configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model := c.Models[t]; model != "" {
			return model
		}
	}
	return ""
}
