package vectorstore

import (
	"context"
	"errors"
)

// Sentinel errors for vector store operations.
var (
	// ErrCollectionNotFound is returned when a collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyDocuments indicates empty or nil documents.
	ErrEmptyDocuments = errors.New("empty or nil documents")

	// ErrEmptyContent indicates a document with an empty text field.
	ErrEmptyContent = errors.New("document content cannot be empty")

	// ErrDimensionMismatch indicates an embedding whose dimension does not
	// match the store's configured dimension. This is a configuration bug
	// and is always fatal.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingFailed indicates embedding generation failure.
	ErrEmbeddingFailed = errors.New("failed to generate embeddings")

	// ErrInvalidCollectionName indicates collection name validation failure.
	ErrInvalidCollectionName = errors.New("invalid collection name")
)

// Embedder generates vector embeddings from text.
//
// Embeddings are dense numerical representations that capture semantic
// meaning, enabling similarity search. Implementations can use local
// deterministic models or cloud APIs.
type Embedder interface {
	// EmbedDocuments generates embeddings for multiple texts.
	// Returns a slice of embeddings (one per input text) or an error.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a single query.
	// Some models optimize differently for queries vs documents.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Store is the interface for vector storage operations.
//
// A Store holds named collections of (text, vector, metadata) tuples and
// answers nearest-neighbor queries over them. All collections share one
// fixed embedding dimension configured at store creation; a vector of a
// different dimension is rejected with ErrDimensionMismatch.
//
// Behavioral contract:
//   - Upsert auto-creates the target collection on first write.
//   - Query against a missing collection returns an empty result, not an
//     error; retrieval degrades to "nothing found".
//   - Query never returns more than topK results. Ties in similarity
//     break by insertion order, earliest first, so identical stores give
//     identical rankings.
type Store interface {
	// Upsert adds or replaces documents in a collection. Documents with
	// the same ID overwrite the previous version. The collection is
	// created on first use.
	//
	// Returns the IDs of the written documents.
	Upsert(ctx context.Context, collection string, docs []Document) ([]string, error)

	// Query performs similarity search in a collection.
	//
	// The query text is embedded and up to topK results are returned,
	// ordered by similarity score (highest first). Filters match document
	// metadata exactly; only documents matching ALL filter entries are
	// returned. A missing collection yields an empty result.
	Query(ctx context.Context, collection, query string, topK int, filters map[string]string) ([]SearchResult, error)

	// Delete removes documents matching the metadata filters and/or the
	// given IDs. At least one of filters or ids must be provided.
	// Deleting from a missing collection is a no-op.
	Delete(ctx context.Context, collection string, filters map[string]string, ids ...string) error

	// DeleteCollection deletes a collection and all its documents.
	// This is a destructive operation that cannot be undone. Deleting a
	// missing collection is a no-op.
	DeleteCollection(ctx context.Context, collection string) error

	// CollectionExists checks if a collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)

	// ListCollections returns the names of all collections.
	ListCollections(ctx context.Context) ([]string, error)

	// GetCollectionInfo returns metadata about a collection.
	// Returns ErrCollectionNotFound if the collection doesn't exist.
	GetCollectionInfo(ctx context.Context, collection string) (*CollectionInfo, error)

	// Close closes the vector store and releases resources.
	Close() error
}
