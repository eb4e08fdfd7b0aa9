package indexer

import "time"

// File is one unit of repository content handed to the indexer: a
// relative path and its raw bytes, already resolved by the caller from
// clone, fetch or local walk.
type File struct {
	Path    string
	Content []byte
}

// IndexResult holds statistics about a completed indexing run.
type IndexResult struct {
	// RepositoryID is the repository identity the chunks were stored under.
	RepositoryID string `json:"repository_id"`

	// Collection is the embedding store collection that was written.
	Collection string `json:"collection"`

	// FilesIndexed is the number of files whose chunks were stored.
	FilesIndexed int `json:"files_indexed"`

	// FilesSkipped counts binary or empty files that were passed over.
	FilesSkipped int `json:"files_skipped"`

	// ChunksIndexed is the total number of chunks written.
	ChunksIndexed int `json:"chunks_indexed"`

	// IndexedAt is when the run completed.
	IndexedAt time.Time `json:"indexed_at"`
}
