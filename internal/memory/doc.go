// Package memory persists conversation turns and makes them searchable.
//
// Each turn records the user query, the assistant answer, a session
// sequence number and a timestamp. Turns live in a single store
// collection and are partitioned by scope (typically a repository id),
// so retrieval and clearing can be limited to one conversation corpus.
package memory
