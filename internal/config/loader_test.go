package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// configFilePath returns a path inside the allowed config directory,
// creating the directory and registering cleanup of the file.
func configFilePath(t *testing.T, name string) string {
	t.Helper()
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	dir := filepath.Join(home, ".config", "reposurfer")
	require.NoError(t, os.MkdirAll(dir, 0700))
	path := filepath.Join(dir, name)
	t.Cleanup(func() { os.Remove(path) })
	return path
}

func TestLoadWithFile_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadWithFile(configFilePath(t, "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "~/.config/reposurfer/store", cfg.Store.Path)
	assert.Equal(t, "reposurfer", cfg.Store.CollectionPrefix)
	assert.Equal(t, 1000, cfg.Chunking.MaxChunkSize)
	assert.Equal(t, 100, cfg.Chunking.Overlap)
	assert.Equal(t, 5, cfg.Retrieval.MaxChunks)
	assert.Equal(t, "local", cfg.Embeddings.Provider)
	assert.Equal(t, 384, cfg.Embeddings.Dimension)
	assert.Equal(t, "query_answer", cfg.Memory.EmbedPolicy)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadWithFile_ReadsYAML(t *testing.T) {
	path := configFilePath(t, "test-config.yaml")
	content := []byte("chunking:\n  max_chunk_size: 500\n  overlap: 50\nlogging:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, content, 0600))

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Chunking.MaxChunkSize)
	assert.Equal(t, 50, cfg.Chunking.Overlap)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadWithFile_EnvOverridesFile(t *testing.T) {
	path := configFilePath(t, "test-env-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0600))

	t.Setenv("LOGGING_LEVEL", "error")
	t.Setenv("CHUNKING_MAX_CHUNK_SIZE", "750")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 750, cfg.Chunking.MaxChunkSize)
}

func TestLoadWithFile_RejectsPathOutsideAllowedDirs(t *testing.T) {
	_, err := LoadWithFile(filepath.Join(t.TempDir(), "config.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file must be in")
}

func TestLoadWithFile_RejectsWorldReadableFile(t *testing.T) {
	path := configFilePath(t, "test-insecure.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: info\n"), 0644))

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insecure config file permissions")
}

func TestLoadWithFile_InvalidProviderFailsValidation(t *testing.T) {
	t.Setenv("EMBEDDINGS_PROVIDER", "bogus")
	_, err := LoadWithFile(configFilePath(t, "does-not-exist.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embeddings.provider")
}
