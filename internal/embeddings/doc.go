// Package embeddings provides embedding generation via multiple providers.
//
// Two providers are available: "local", a deterministic token-hash
// embedder that needs no network or API key, and "openai", which calls
// the OpenAI embeddings API. Both satisfy vectorstore.Embedder plus
// dimension reporting.
package embeddings
