// Package main implements the reposurfer CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/reposurfer/internal/assembler"
	"github.com/fyrsmithlabs/reposurfer/internal/config"
	"github.com/fyrsmithlabs/reposurfer/internal/embeddings"
	"github.com/fyrsmithlabs/reposurfer/internal/gateway"
	"github.com/fyrsmithlabs/reposurfer/internal/indexer"
	"github.com/fyrsmithlabs/reposurfer/internal/logging"
	"github.com/fyrsmithlabs/reposurfer/internal/memory"
	"github.com/fyrsmithlabs/reposurfer/internal/surfer"
	"github.com/fyrsmithlabs/reposurfer/internal/vectorstore"
)

var (
	// configPath is the --config flag value; empty means default path.
	configPath string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reposurfer",
	Short: "Index repositories and answer questions about them",
	Long: `reposurfer indexes repository content into a local vector store and
answers questions about it, remembering past conversations.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/reposurfer/config.yaml)")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(cloneCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(structureCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(memoryCmd)
}

// app bundles the wired services behind the CLI commands.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	embedder  embeddings.Provider
	store     vectorstore.Store
	indexer   *indexer.Service
	memory    *memory.Service
	assembler *assembler.Service
}

// newApp loads configuration and wires the service graph. A .env file
// in the working directory is honored for credentials.
func newApp() (*app, error) {
	_ = godotenv.Load()

	if err := config.EnsureConfigDir(); err != nil {
		return nil, err
	}

	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewProvider(embeddings.ProviderConfig{
		Provider:          cfg.Embeddings.Provider,
		Model:             cfg.Embeddings.Model,
		APIKey:            cfg.Embeddings.APIKey,
		BaseURL:           cfg.Embeddings.BaseURL,
		Dimension:         cfg.Embeddings.Dimension,
		RequestsPerSecond: cfg.Embeddings.RequestsPerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedding provider: %w", err)
	}

	store, err := vectorstore.NewChromemStore(vectorstore.ChromemConfig{
		Path:       cfg.Store.Path,
		Compress:   cfg.Store.Compress,
		VectorSize: embedder.Dimension(),
	}, embedder, logger)
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}

	idx := indexer.NewService(store, logger, indexer.Config{
		CollectionNamePrefix: cfg.Store.CollectionPrefix,
		MaxChunkSize:         cfg.Chunking.MaxChunkSize,
		ChunkOverlap:         cfg.Chunking.Overlap,
	})

	mem := memory.NewService(store, logger, memory.Config{
		Collection:  cfg.Memory.Collection,
		EmbedPolicy: memory.EmbedPolicy(cfg.Memory.EmbedPolicy),
		DefaultTopK: cfg.Memory.DefaultTopK,
	})

	asm := assembler.NewService(idx, mem, logger, assembler.Config{
		MaxChunks:      cfg.Retrieval.MaxChunks,
		MaxTurns:       cfg.Retrieval.MaxTurns,
		MaxContextSize: cfg.Retrieval.MaxContextSize,
	})

	return &app{
		cfg:       cfg,
		logger:    logger,
		embedder:  embedder,
		store:     store,
		indexer:   idx,
		memory:    mem,
		assembler: asm,
	}, nil
}

// surfer builds the question-answering orchestrator. It needs chat
// credentials, so it is only constructed by commands that talk to the
// model.
func (a *app) surfer() (*surfer.Service, error) {
	completer, err := gateway.NewOpenAICompleter(gateway.OpenAIConfig{
		APIKey:      a.cfg.Chat.APIKey,
		BaseURL:     a.cfg.Chat.BaseURL,
		Model:       a.cfg.Chat.Model,
		MaxTokens:   a.cfg.Chat.MaxTokens,
		Temperature: a.cfg.Chat.Temperature,
		MaxRetries:  a.cfg.Chat.MaxRetries,
	}, a.logger)
	if err != nil {
		return nil, fmt.Errorf("creating chat gateway (set CHAT_API_KEY): %w", err)
	}
	return surfer.NewService(a.assembler, completer, a.memory, a.logger), nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing store", zap.Error(err))
	}
	if err := a.embedder.Close(); err != nil {
		a.logger.Warn("closing embedder", zap.Error(err))
	}
	_ = logging.Sync(a.logger)
}
