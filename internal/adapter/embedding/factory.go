package embedding

import (
	"fmt"

	"policyrag/config"
	"policyrag/internal/port"
)

// NewFromConfig builds the embedder named by cfg.Provider. Dimension and
// batch size overrides apply on top of the per-model defaults.
func NewFromConfig(cfg config.EmbeddingConfig) (port.Embedder, error) {
	if cfg.Provider == "stub" {
		dim := cfg.Dimension
		if dim <= 0 {
			dim = 256
		}
		return NewStubEmbedder(dim), nil
	}

	var (
		e   *OpenAIEmbedder
		err error
	)
	switch cfg.Provider {
	case "openai":
		if cfg.BaseURL != "" {
			e, err = NewOpenAICompatibleEmbedder("openai", cfg.APIKeyEnv, cfg.Model, cfg.BaseURL)
		} else {
			e, err = NewOpenAIEmbedder(cfg.APIKeyEnv, cfg.Model)
		}
	case "deepseek":
		e, err = NewDeepSeekEmbedder(cfg.APIKeyEnv, cfg.Model)
	case "jina":
		e, err = NewJinaEmbedder(cfg.APIKeyEnv, cfg.Model)
	case "ollama":
		e, err = NewOllamaEmbedder(cfg.Model, cfg.BaseURL)
	case "compatible":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("provider %q requires base_url", cfg.Provider)
		}
		e, err = NewOpenAICompatibleEmbedder("compatible", cfg.APIKeyEnv, cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Dimension > 0 {
		e.dimension = cfg.Dimension
	}
	if cfg.BatchSize > 0 {
		e.batchSize = cfg.BatchSize
	}
	return e, nil
}
