package embeddings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/reposurfer/internal/embeddings"
)

func TestNewProvider_DefaultsToLocal(t *testing.T) {
	p, err := embeddings.NewProvider(embeddings.ProviderConfig{})
	require.NoError(t, err)
	assert.Equal(t, 384, p.Dimension())
	assert.NoError(t, p.Close())
}

func TestNewProvider_Local(t *testing.T) {
	p, err := embeddings.NewProvider(embeddings.ProviderConfig{
		Provider:  "local",
		Dimension: 256,
	})
	require.NoError(t, err)
	assert.Equal(t, 256, p.Dimension())
}

func TestNewProvider_OpenAIRequiresKey(t *testing.T) {
	_, err := embeddings.NewProvider(embeddings.ProviderConfig{Provider: "openai"})
	require.Error(t, err)
	assert.ErrorIs(t, err, embeddings.ErrInvalidConfig)
}

func TestNewProvider_OpenAI(t *testing.T) {
	p, err := embeddings.NewProvider(embeddings.ProviderConfig{
		Provider:  "openai",
		APIKey:    "test-key",
		Dimension: 384,
	})
	require.NoError(t, err)
	assert.Equal(t, 384, p.Dimension())
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := embeddings.NewProvider(embeddings.ProviderConfig{Provider: "cohere"})
	require.Error(t, err)
	assert.ErrorIs(t, err, embeddings.ErrInvalidConfig)
}
