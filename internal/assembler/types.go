package assembler

// ItemKind distinguishes where a context item came from.
type ItemKind string

const (
	// KindChunk marks an item drawn from indexed repository content.
	KindChunk ItemKind = "chunk"

	// KindTurn marks an item drawn from conversation memory.
	KindTurn ItemKind = "turn"
)

// ContextItem is one piece of assembled context.
type ContextItem struct {
	// ID is the underlying document or turn id.
	ID string `json:"id"`

	// Kind says whether this is a repository chunk or a memory turn.
	Kind ItemKind `json:"kind"`

	// Source is the file path for chunks and the scope for turns.
	Source string `json:"source,omitempty"`

	// Text is the item's content as it will appear in the prompt.
	Text string `json:"text"`

	// Score is the similarity score against the query.
	Score float32 `json:"score"`
}

// Context is the assembled retrieval context for one question.
type Context struct {
	// Query is the question the context was assembled for.
	Query string `json:"query"`

	// Items are the included pieces, best first within each kind,
	// chunks before turns.
	Items []ContextItem `json:"items"`

	// Size is the total character count of the included item texts.
	Size int `json:"size"`
}
