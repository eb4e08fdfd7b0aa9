// Package vectorstore provides the persisted embedding store used for
// repository chunks and conversation turns. Collections are named,
// dimension-fixed partitions; the backend is the embedded chromem-go
// database persisted to a local directory.
package vectorstore
