// Package surfer orchestrates question answering over a repository.
//
// It assembles retrieval context, prompts the chat gateway and records
// the exchange in conversation memory.
package surfer
