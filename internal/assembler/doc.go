// Package assembler builds the retrieval context for a question.
//
// It pulls the most relevant repository chunks and past conversation
// turns, then packs them into a size-bounded context: candidates are
// taken best first and an item that does not fit whole is skipped, it
// is never truncated.
package assembler
