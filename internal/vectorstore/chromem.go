package vectorstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	chromem "github.com/philippgille/chromem-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// chromemTracer for OpenTelemetry instrumentation.
var chromemTracer = otel.Tracer("reposurfer.vectorstore.chromem")

// seqKey is the metadata key carrying the insertion-order marker used to
// break similarity ties deterministically (earliest insertion wins).
const seqKey = "_seq"

// insertSeq is monotonically increasing within a process and seeded from
// wall-clock time so markers stay ordered across restarts of the same
// persisted store.
var insertSeq atomic.Int64

func init() {
	insertSeq.Store(time.Now().UnixNano())
}

// ChromemConfig holds configuration for the chromem-go embedded vector
// database.
type ChromemConfig struct {
	// Path is the directory for persistent storage. Required.
	Path string

	// Compress enables gzip compression for stored data.
	Compress bool

	// VectorSize is the expected embedding dimension. Must match the
	// embedder's output dimension. Default: 384.
	VectorSize int
}

// ApplyDefaults sets default values for unset fields.
func (c *ChromemConfig) ApplyDefaults() {
	if c.VectorSize == 0 {
		c.VectorSize = 384
	}
}

// Validate validates the configuration.
func (c *ChromemConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("%w: store path is required", ErrInvalidConfig)
	}
	if c.VectorSize <= 0 {
		return fmt.Errorf("%w: vector size must be positive", ErrInvalidConfig)
	}
	return nil
}

// ChromemStore implements the Store interface using chromem-go.
//
// chromem-go is an embeddable vector database with zero third-party
// dependencies: pure Go, no external database service, automatic
// persistence to gob files under the configured directory.
type ChromemStore struct {
	db       *chromem.DB
	embedder Embedder
	config   ChromemConfig
	logger   *zap.Logger
}

// NewChromemStore creates a new ChromemStore with the given configuration.
//
// The storage directory is created if missing. An unreadable or
// uncreatable directory is fatal: the subsystem cannot proceed without
// its persisted store.
func NewChromemStore(config ChromemConfig, embedder Embedder, logger *zap.Logger) (*ChromemStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	expandedPath, err := expandChromemPath(config.Path)
	if err != nil {
		return nil, fmt.Errorf("expanding path: %w", err)
	}

	if err := os.MkdirAll(expandedPath, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", expandedPath, err)
	}

	db, err := chromem.NewPersistentDB(expandedPath, config.Compress)
	if err != nil {
		return nil, fmt.Errorf("creating chromem DB: %w", err)
	}

	store := &ChromemStore{
		db:       db,
		embedder: embedder,
		config:   config,
		logger:   logger,
	}

	logger.Info("ChromemStore initialized",
		zap.String("path", expandedPath),
		zap.Bool("compress", config.Compress),
		zap.Int("vector_size", config.VectorSize),
	)

	return store, nil
}

// expandChromemPath expands ~ to home directory.
func expandChromemPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// createEmbeddingFunc creates a chromem.EmbeddingFunc from our Embedder.
func (s *ChromemStore) createEmbeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.EmbedQuery(ctx, text)
	}
}

// checkDimension validates an embedding against the configured dimension.
func (s *ChromemStore) checkDimension(vec []float32) error {
	if len(vec) != s.config.VectorSize {
		return fmt.Errorf("%w: got %d, collection dimension is %d",
			ErrDimensionMismatch, len(vec), s.config.VectorSize)
	}
	return nil
}

// Upsert adds or replaces documents in a collection, creating it on
// first use. Documents with the same ID overwrite the previous version.
func (s *ChromemStore) Upsert(ctx context.Context, collection string, docs []Document) ([]string, error) {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.Upsert")
	defer span.End()

	span.SetAttributes(
		attribute.String("collection", collection),
		attribute.Int("document_count", len(docs)),
	)

	if err := ValidateCollectionName(collection); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrEmptyDocuments
	}

	ids := make([]string, len(docs))
	texts := make([]string, len(docs))
	for i, doc := range docs {
		if strings.TrimSpace(doc.Content) == "" {
			return nil, fmt.Errorf("%w: document at index %d", ErrEmptyContent, i)
		}
		ids[i] = doc.ID
		if ids[i] == "" {
			ids[i] = fmt.Sprintf("doc_%d_%d", insertSeq.Add(1), i)
			s.logger.Warn("auto-generated document ID - caller should provide explicit IDs",
				zap.String("generated_id", ids[i]),
				zap.Int("index", i),
			)
		}
		texts[i] = doc.Content
	}

	embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	if len(embeddings) != len(docs) {
		return nil, fmt.Errorf("%w: embedder returned %d vectors for %d texts",
			ErrEmbeddingFailed, len(embeddings), len(docs))
	}
	for i, vec := range embeddings {
		if err := s.checkDimension(vec); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("document %q: %w", ids[i], err)
		}
	}

	col, err := s.db.GetOrCreateCollection(collection, nil, s.createEmbeddingFunc())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("getting/creating collection %s: %w", collection, err)
	}

	chromemDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		meta := make(map[string]string, len(doc.Metadata)+1)
		for k, v := range doc.Metadata {
			meta[k] = v
		}
		meta[seqKey] = fmt.Sprintf("%020d", insertSeq.Add(1))
		chromemDocs[i] = chromem.Document{
			ID:        ids[i],
			Content:   doc.Content,
			Metadata:  meta,
			Embedding: embeddings[i],
		}
	}

	// Concurrency of 1 since embeddings are already computed.
	if err := col.AddDocuments(ctx, chromemDocs, 1); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("adding documents: %w", err)
	}

	span.SetStatus(codes.Ok, "success")

	s.logger.Debug("upserted documents",
		zap.String("collection", collection),
		zap.Int("count", len(docs)),
	)

	return ids, nil
}

// Query performs similarity search in a collection. A missing collection
// yields an empty result rather than an error.
func (s *ChromemStore) Query(ctx context.Context, collection, query string, topK int, filters map[string]string) ([]SearchResult, error) {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.Query")
	defer span.End()

	span.SetAttributes(
		attribute.String("collection", collection),
		attribute.Int("top_k", topK),
	)

	if err := ValidateCollectionName(collection); err != nil {
		return nil, err
	}
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	queryVec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	if err := s.checkDimension(queryVec); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	col := s.db.GetCollection(collection, s.createEmbeddingFunc())
	if col == nil {
		return []SearchResult{}, nil
	}

	// chromem requires nResults <= doc count.
	docCount := col.Count()
	if docCount == 0 {
		return []SearchResult{}, nil
	}
	if topK > docCount {
		topK = docCount
	}

	results, err := col.QueryEmbedding(ctx, queryVec, topK, filters, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("querying collection %s: %w", collection, err)
	}

	searchResults := make([]SearchResult, len(results))
	for i, r := range results {
		searchResults[i] = SearchResult{
			ID:       r.ID,
			Content:  r.Content,
			Score:    r.Similarity,
			Metadata: r.Metadata,
		}
	}
	sortResults(searchResults)

	span.SetAttributes(attribute.Int("results_count", len(searchResults)))
	span.SetStatus(codes.Ok, "success")

	s.logger.Debug("queried collection",
		zap.String("collection", collection),
		zap.Int("top_k", topK),
		zap.Int("results", len(searchResults)),
	)

	return searchResults, nil
}

// sortResults orders by score descending, then by insertion marker
// (earliest first), then by ID so rankings are fully deterministic.
func sortResults(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		si, sj := results[i].Metadata[seqKey], results[j].Metadata[seqKey]
		if si != sj {
			return si < sj
		}
		return results[i].ID < results[j].ID
	})
}

// Delete removes documents matching the metadata filters and/or IDs from
// a collection. Deleting from a missing collection is a no-op.
func (s *ChromemStore) Delete(ctx context.Context, collection string, filters map[string]string, ids ...string) error {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.Delete")
	defer span.End()

	span.SetAttributes(
		attribute.String("collection", collection),
		attribute.Int("id_count", len(ids)),
	)

	if err := ValidateCollectionName(collection); err != nil {
		return err
	}
	if len(filters) == 0 && len(ids) == 0 {
		return fmt.Errorf("delete requires at least one of filters or ids")
	}

	col := s.db.GetCollection(collection, s.createEmbeddingFunc())
	if col == nil {
		return nil
	}

	if err := col.Delete(ctx, filters, nil, ids...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("deleting from collection %s: %w", collection, err)
	}

	span.SetStatus(codes.Ok, "success")
	return nil
}

// DeleteCollection deletes a collection and all its documents.
func (s *ChromemStore) DeleteCollection(ctx context.Context, collection string) error {
	_, span := chromemTracer.Start(ctx, "ChromemStore.DeleteCollection")
	defer span.End()

	span.SetAttributes(attribute.String("collection", collection))

	if err := ValidateCollectionName(collection); err != nil {
		return err
	}

	if err := s.db.DeleteCollection(collection); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("deleting collection %s: %w", collection, err)
	}

	s.logger.Info("deleted collection", zap.String("collection", collection))
	return nil
}

// CollectionExists checks if a collection exists.
func (s *ChromemStore) CollectionExists(ctx context.Context, collection string) (bool, error) {
	if err := ValidateCollectionName(collection); err != nil {
		return false, err
	}
	return s.db.GetCollection(collection, s.createEmbeddingFunc()) != nil, nil
}

// ListCollections returns the names of all collections, sorted.
func (s *ChromemStore) ListCollections(ctx context.Context) ([]string, error) {
	cols := s.db.ListCollections()
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetCollectionInfo returns metadata about a collection.
func (s *ChromemStore) GetCollectionInfo(ctx context.Context, collection string) (*CollectionInfo, error) {
	if err := ValidateCollectionName(collection); err != nil {
		return nil, err
	}
	col := s.db.GetCollection(collection, s.createEmbeddingFunc())
	if col == nil {
		return nil, ErrCollectionNotFound
	}
	return &CollectionInfo{
		Name:       collection,
		PointCount: col.Count(),
		VectorSize: s.config.VectorSize,
	}, nil
}

// Close releases resources. chromem persists on every write, so there is
// nothing to flush here.
func (s *ChromemStore) Close() error {
	return nil
}
