// Package chunker splits file content into bounded text units suitable
// for embedding. Splitting is pure and deterministic: identical input
// always yields identical chunks, which keeps re-indexing idempotent.
package chunker
