// Package config provides configuration loading for reposurfer.
package config

import "fmt"

// Config is the root configuration.
type Config struct {
	Store      StoreConfig      `koanf:"store"`
	Chunking   ChunkingConfig   `koanf:"chunking"`
	Retrieval  RetrievalConfig  `koanf:"retrieval"`
	Memory     MemoryConfig     `koanf:"memory"`
	Embeddings EmbeddingsConfig `koanf:"embeddings"`
	Chat       ChatConfig       `koanf:"chat"`
	GitHub     GitHubConfig     `koanf:"github"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// StoreConfig configures the embedded vector store.
type StoreConfig struct {
	// Path is the persistence directory.
	Path string `koanf:"path"`

	// Compress enables gzip compression of stored data.
	Compress bool `koanf:"compress"`

	// CollectionPrefix prefixes repository collection names.
	CollectionPrefix string `koanf:"collection_prefix"`
}

// ChunkingConfig controls how files are split before embedding.
type ChunkingConfig struct {
	MaxChunkSize int `koanf:"max_chunk_size"`
	Overlap      int `koanf:"overlap"`
}

// RetrievalConfig controls context assembly.
type RetrievalConfig struct {
	MaxChunks      int `koanf:"max_chunks"`
	MaxTurns       int `koanf:"max_turns"`
	MaxContextSize int `koanf:"max_context_size"`
}

// MemoryConfig controls conversation memory.
type MemoryConfig struct {
	Collection string `koanf:"collection"`

	// EmbedPolicy is "query" or "query_answer".
	EmbedPolicy string `koanf:"embed_policy"`

	DefaultTopK int `koanf:"default_top_k"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider is "local" or "openai".
	Provider string `koanf:"provider"`

	Model             string  `koanf:"model"`
	APIKey            string  `koanf:"api_key"`
	BaseURL           string  `koanf:"base_url"`
	Dimension         int     `koanf:"dimension"`
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// ChatConfig configures the chat completion gateway.
type ChatConfig struct {
	APIKey      string  `koanf:"api_key"`
	BaseURL     string  `koanf:"base_url"`
	Model       string  `koanf:"model"`
	MaxTokens   int     `koanf:"max_tokens"`
	Temperature float32 `koanf:"temperature"`
	MaxRetries  int     `koanf:"max_retries"`
}

// GitHubConfig configures GitHub API access.
type GitHubConfig struct {
	// Token authenticates API calls; unset means anonymous access
	// with its lower rate limits.
	Token string `koanf:"token"`
}

// LoggingConfig configures logging output.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `koanf:"level"`

	// Format is "console" or "json".
	Format string `koanf:"format"`
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Chunking.MaxChunkSize <= 0 {
		return fmt.Errorf("chunking.max_chunk_size must be positive")
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.MaxChunkSize {
		return fmt.Errorf("chunking.overlap must be in [0, max_chunk_size)")
	}
	if c.Embeddings.Dimension <= 0 {
		return fmt.Errorf("embeddings.dimension must be positive")
	}
	switch c.Embeddings.Provider {
	case "local", "openai":
	default:
		return fmt.Errorf("embeddings.provider must be local or openai, got %q", c.Embeddings.Provider)
	}
	switch c.Memory.EmbedPolicy {
	case "query", "query_answer":
	default:
		return fmt.Errorf("memory.embed_policy must be query or query_answer, got %q", c.Memory.EmbedPolicy)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
