package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the policy retriever.
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SourceConfig describes where the policy corpus comes from.
type SourceConfig struct {
	URL      string   `yaml:"url"`      // remote markdown document
	Path     string   `yaml:"path"`     // local file or directory; takes precedence over url
	Includes []string `yaml:"includes"` // glob patterns when path is a directory
	Excludes []string `yaml:"excludes"`
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "openai", "deepseek", "jina", "ollama", "compatible", "stub"
	Model     string `yaml:"model"`       // e.g., "text-embedding-3-small"
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for API key
	BaseURL   string `yaml:"base_url"`    // Override for self-hosted gateways
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
	Cache     bool   `yaml:"cache"` // Persist vectors between runs
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK    int    `yaml:"top_k"`    // default result count for query
	LookupK int    `yaml:"lookup_k"` // result count for the lookup tool
	Metric  string `yaml:"metric"`   // "dot" or "cosine"
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultSourceURL is the company FAQ document the retriever was built for.
const DefaultSourceURL = "https://storage.googleapis.com/benchmarks-artifacts/travel-db/swiss_faq.md"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			URL:      DefaultSourceURL,
			Includes: []string{"**/*.md", "**/*.txt"},
			Excludes: []string{"**/node_modules/**", "**/.git/**"},
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 1536,
			BatchSize: 100,
			Cache:     true,
		},
		Retrieve: RetrieveConfig{
			TopK:    5,
			LookupK: 2,
			Metric:  "dot",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for policyrag.yaml).
func LoadFromDir(dir string) (*Config, error) {
	// Try policyrag.yaml in the directory
	path := filepath.Join(dir, "policyrag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Try .policyrag/config.yaml
	path = filepath.Join(dir, ".policyrag", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Return defaults
	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CachePath returns the path to the embedding cache database.
func CachePath(dir string) string {
	return filepath.Join(dir, ".policyrag", "embeddings.db")
}

// CorpusPath returns the path where fetched corpus documents are kept.
func CorpusPath(dir string) string {
	return filepath.Join(dir, ".policyrag", "corpus.md")
}

// EnsureWorkDir ensures the .policyrag directory exists.
func EnsureWorkDir(dir string) error {
	workDir := filepath.Join(dir, ".policyrag")
	return os.MkdirAll(workDir, 0755)
}
