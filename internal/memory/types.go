package memory

import "time"

// EmbedPolicy selects which text a turn's embedding is computed over.
// Searching behaves differently under each: query-only matches future
// questions against past questions, query+answer also surfaces turns
// whose answer mentions the topic.
type EmbedPolicy string

const (
	// EmbedQueryOnly embeds the user query alone.
	EmbedQueryOnly EmbedPolicy = "query"

	// EmbedQueryAndAnswer embeds the query and answer concatenated.
	EmbedQueryAndAnswer EmbedPolicy = "query_answer"
)

// Turn is one recorded conversational exchange.
//
// Turns are immutable once recorded; they are removed only by an
// explicit Clear.
type Turn struct {
	// ID is the turn's unique identifier.
	ID string `json:"id"`

	// Scope associates the turn with a conversation corpus, typically a
	// repository id. Empty means general memory.
	Scope string `json:"scope,omitempty"`

	// Seq is a monotonically increasing ordering number. Higher means
	// recorded later.
	Seq int64 `json:"seq"`

	// Query is the user's message.
	Query string `json:"query"`

	// Answer is the assistant's response.
	Answer string `json:"answer"`

	// Timestamp is when the turn was recorded.
	Timestamp time.Time `json:"timestamp"`

	// Score is the similarity score when the turn was produced by a
	// search; zero otherwise.
	Score float32 `json:"score,omitempty"`
}
