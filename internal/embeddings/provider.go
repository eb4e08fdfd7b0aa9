package embeddings

import (
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/reposurfer/internal/vectorstore"
)

// Sentinel errors for embedding providers.
var (
	// ErrInvalidConfig indicates invalid provider configuration.
	ErrInvalidConfig = errors.New("invalid embeddings configuration")

	// ErrRateLimited indicates the provider rejected a request due to
	// rate limiting. Callers may retry with backoff.
	ErrRateLimited = errors.New("embedding provider rate limited")

	// ErrAuthentication indicates a bad or missing API key or an
	// exhausted quota. Fatal; retrying cannot help.
	ErrAuthentication = errors.New("embedding provider authentication failed")

	// ErrUnavailable indicates a transient provider or network failure.
	ErrUnavailable = errors.New("embedding provider temporarily unavailable")
)

// Provider is the interface for embedding providers.
type Provider interface {
	vectorstore.Embedder
	// Dimension returns the embedding dimension for the current model.
	Dimension() int
	// Close releases resources held by the provider.
	Close() error
}

// ProviderConfig holds configuration for creating an embedding provider.
type ProviderConfig struct {
	// Provider is the provider type: "local" or "openai".
	Provider string
	// Model is the embedding model name (openai only).
	Model string
	// APIKey is the API key (openai only).
	APIKey string
	// BaseURL overrides the API endpoint (openai only).
	BaseURL string
	// Dimension is the embedding dimension. Default: 384.
	Dimension int
	// RequestsPerSecond caps outbound embedding calls. Zero disables
	// client-side rate limiting.
	RequestsPerSecond float64
}

// NewProvider creates an embedding provider based on the configuration.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	if cfg.Dimension == 0 {
		cfg.Dimension = 384
	}
	if cfg.Dimension < 0 {
		return nil, fmt.Errorf("%w: dimension must be positive", ErrInvalidConfig)
	}

	switch cfg.Provider {
	case "local", "":
		return NewLocalProvider(cfg.Dimension), nil
	case "openai":
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}
