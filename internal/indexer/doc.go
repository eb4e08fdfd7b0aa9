// Package indexer turns collected repository file contents into
// searchable chunks in the embedding store.
//
// Indexing is replace-all: re-indexing a repository id drops its prior
// chunk set before writing the new one, so stale chunks from deleted
// files never survive and repeated runs never accumulate duplicates.
package indexer
