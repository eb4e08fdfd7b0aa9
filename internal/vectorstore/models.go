package vectorstore

// Document represents a document to be stored in the vector store.
type Document struct {
	// ID is the unique identifier for the document. Upserting a second
	// document with the same ID replaces the first.
	ID string

	// Content is the text content of the document. Must be non-empty;
	// every persisted chunk and turn carries its text.
	Content string

	// Metadata contains additional key-value pairs for filtering.
	// Common fields: path, chunk_index, scope, seq, timestamp.
	Metadata map[string]string
}

// SearchResult represents a search result from the vector store.
type SearchResult struct {
	// ID is the document identifier.
	ID string

	// Content is the document text content.
	Content string

	// Score is the similarity score (higher = more similar).
	Score float32

	// Metadata contains the document metadata.
	Metadata map[string]string
}

// CollectionInfo contains metadata about a vector collection.
type CollectionInfo struct {
	// Name is the collection name.
	Name string `json:"name"`

	// PointCount is the number of vectors in the collection.
	PointCount int `json:"point_count"`

	// VectorSize is the dimensionality of vectors in this collection.
	VectorSize int `json:"vector_size"`
}
