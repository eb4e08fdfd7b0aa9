package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/reposurfer/internal/chunker"
	"github.com/fyrsmithlabs/reposurfer/internal/vectorstore"
)

// upsertBatchSize bounds how many chunks go to the store per call so a
// large file doesn't turn into one oversized embedding request.
const upsertBatchSize = 64

// Config holds indexer configuration.
type Config struct {
	// CollectionNamePrefix prefixes every repository collection name.
	// Default: "reposurfer".
	CollectionNamePrefix string

	// MaxChunkSize is the maximum chunk length in characters.
	// Default: 1000.
	MaxChunkSize int

	// ChunkOverlap is the number of characters repeated between
	// consecutive chunks. Default: 100.
	ChunkOverlap int
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.CollectionNamePrefix == "" {
		c.CollectionNamePrefix = "reposurfer"
	}
	if c.MaxChunkSize == 0 {
		c.MaxChunkSize = 1000
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = 100
	}
}

// Service populates the embedding store with repository chunks.
type Service struct {
	store  vectorstore.Store
	config Config
	logger *zap.Logger
}

// NewService creates a new repository indexing service.
func NewService(store vectorstore.Store, logger *zap.Logger, cfg Config) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ApplyDefaults()
	return &Service{
		store:  store,
		config: cfg,
		logger: logger,
	}
}

// Collection returns the store collection name for a repository id.
func (s *Service) Collection(repositoryID string) string {
	return s.config.CollectionNamePrefix + "_" + sanitizeForCollectionName(repositoryID)
}

// Index chunks and stores the given files under the repository's
// collection.
//
// Re-indexing the same repository id is idempotent: the prior chunk set
// is dropped before the new one is written, so chunks from files that no
// longer exist never survive. The clear happens up front rather than per
// file; callers treating the run as a whole-collection replace should
// not query the collection mid-index.
//
// Binary files (invalid UTF-8) and empty files are skipped, not fatal.
// A store or embedding failure aborts the run.
func (s *Service) Index(ctx context.Context, repositoryID string, files []File) (*IndexResult, error) {
	if repositoryID == "" {
		return nil, fmt.Errorf("repository id cannot be empty")
	}

	collection := s.Collection(repositoryID)

	s.logger.Info("indexing repository",
		zap.String("repository_id", repositoryID),
		zap.String("collection", collection),
		zap.Int("file_count", len(files)),
	)

	// Replace-all: drop the previous generation first.
	if err := s.store.DeleteCollection(ctx, collection); err != nil {
		return nil, fmt.Errorf("clearing collection %s: %w", collection, err)
	}

	result := &IndexResult{
		RepositoryID: repositoryID,
		Collection:   collection,
	}

	var pending []vectorstore.Document
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		if _, err := s.store.Upsert(ctx, collection, pending); err != nil {
			return err
		}
		result.ChunksIndexed += len(pending)
		pending = pending[:0]
		return nil
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if len(file.Content) == 0 || !utf8.Valid(file.Content) {
			result.FilesSkipped++
			s.logger.Debug("skipping file",
				zap.String("path", file.Path),
				zap.Bool("binary", len(file.Content) > 0),
			)
			continue
		}

		chunks := chunker.Chunk(string(file.Content), s.config.MaxChunkSize, s.config.ChunkOverlap)
		if len(chunks) == 0 {
			result.FilesSkipped++
			continue
		}

		for i, text := range chunks {
			pending = append(pending, vectorstore.Document{
				ID:      chunkID(repositoryID, file.Path, i),
				Content: text,
				Metadata: map[string]string{
					"path":        file.Path,
					"chunk_index": strconv.Itoa(i),
				},
			})
			if len(pending) >= upsertBatchSize {
				if err := flush(); err != nil {
					return nil, fmt.Errorf("indexing %s: %w", file.Path, err)
				}
			}
		}

		result.FilesIndexed++
	}

	if err := flush(); err != nil {
		return nil, fmt.Errorf("flushing chunks: %w", err)
	}

	result.IndexedAt = time.Now().UTC()

	s.logger.Info("repository indexed",
		zap.String("repository_id", repositoryID),
		zap.Int("files_indexed", result.FilesIndexed),
		zap.Int("files_skipped", result.FilesSkipped),
		zap.Int("chunks_indexed", result.ChunksIndexed),
	)

	return result, nil
}

// Search performs similarity search over a repository's indexed chunks.
// A repository that was never indexed yields an empty result.
func (s *Service) Search(ctx context.Context, repositoryID, query string, topK int) ([]vectorstore.SearchResult, error) {
	if repositoryID == "" {
		return nil, fmt.Errorf("repository id cannot be empty")
	}
	if query == "" {
		return []vectorstore.SearchResult{}, nil
	}
	results, err := s.store.Query(ctx, s.Collection(repositoryID), query, topK, nil)
	if err != nil {
		return nil, fmt.Errorf("searching repository %s: %w", repositoryID, err)
	}
	return results, nil
}

// chunkID builds a content-addressed chunk identifier. The triple
// (repository id, path, chunk index) is the chunk's identity, so
// re-indexing the same content writes the same ids and naturally
// overwrites.
func chunkID(repositoryID, path string, index int) string {
	sum := sha256.Sum256([]byte(repositoryID + "|" + path + "|" + strconv.Itoa(index)))
	return "chunk_" + hex.EncodeToString(sum[:8])
}

// sanitizeForCollectionName ensures a string is safe for use in
// collection names. Only lowercase alphanumerics and underscores pass
// through; a hash prefix is used when sanitization produces nothing, to
// avoid collisions between all-symbol inputs.
func sanitizeForCollectionName(s string) string {
	original := s
	s = strings.ToLower(s)
	var result strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			result.WriteRune(r)
		case r >= '0' && r <= '9':
			result.WriteRune(r)
		case r == '-' || r == ' ' || r == '_' || r == '.' || r == '/':
			result.WriteRune('_')
		}
	}
	if result.Len() == 0 {
		hash := sha256.Sum256([]byte(original))
		return "h_" + hex.EncodeToString(hash[:8])
	}
	out := result.String()
	// Leave room for the prefix within the store's 64-char name limit.
	if len(out) > 48 {
		out = out[:48]
	}
	return out
}
