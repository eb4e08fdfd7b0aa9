package embeddings

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// LocalProvider is a deterministic, dependency-free embedder.
//
// It hashes lowercased tokens into a fixed-dimension vector (feature
// hashing with a sign bit) and normalizes the result to unit length.
// Texts sharing vocabulary land near each other under cosine similarity,
// which is enough for retrieval over a single repository without any
// model download or API key. Identical input always produces the
// identical vector, which keeps re-indexing idempotent.
type LocalProvider struct {
	dimension int
}

// NewLocalProvider creates a local embedder with the given dimension.
func NewLocalProvider(dimension int) *LocalProvider {
	if dimension <= 0 {
		dimension = 384
	}
	return &LocalProvider{dimension: dimension}
}

// EmbedDocuments generates embeddings for multiple texts.
func (p *LocalProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		embeddings[i] = p.embed(text)
	}
	return embeddings, nil
}

// EmbedQuery generates an embedding for a single query.
func (p *LocalProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.embed(text), nil
}

// Dimension returns the embedding dimension.
func (p *LocalProvider) Dimension() int {
	return p.dimension
}

// Close is a no-op for the local provider.
func (p *LocalProvider) Close() error {
	return nil
}

func (p *LocalProvider) embed(text string) []float32 {
	vec := make([]float32, p.dimension)

	for _, token := range tokenize(text) {
		h := fnv.New64a()
		h.Write([]byte(token))
		sum := h.Sum64()

		idx := int(sum % uint64(p.dimension))
		// One hash bit decides the sign so unrelated tokens hashed to the
		// same bucket tend to cancel rather than pile up.
		if sum&(1<<63) != 0 {
			vec[idx] -= 1
		} else {
			vec[idx] += 1
		}
	}

	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	if sumSq == 0 {
		// Degenerate text (no tokens). Use a fixed unit vector so the
		// store never sees a zero-length embedding.
		vec[0] = 1
		return vec
	}

	norm := float32(1 / math.Sqrt(sumSq))
	for i := range vec {
		vec[i] *= norm
	}
	return vec
}

// tokenize lowercases and splits on any non-alphanumeric rune.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
