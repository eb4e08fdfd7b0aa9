package chunker

import "strings"

// Chunk splits text into chunks of at most maxChunkSize characters, with
// overlap characters repeated between consecutive chunks to preserve
// cross-boundary context for retrieval.
//
// Splits prefer line boundaries: the cut point is moved back to the last
// newline inside the window when doing so still makes forward progress
// past the overlap region. Otherwise the chunk is cut mid-line at exactly
// maxChunkSize characters.
//
// Empty text yields no chunks; text that already fits yields a single
// chunk. Invalid UTF-8 bytes are replaced with the Unicode replacement
// character rather than treated as an error. Sizes are measured in runes
// so a replacement never changes chunk boundaries between runs.
func Chunk(text string, maxChunkSize, overlap int) []string {
	if maxChunkSize <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize - 1
	}

	text = strings.ToValidUTF8(text, "�")
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= maxChunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for {
		end := start + maxChunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			return chunks
		}

		cut := end
		for i := end - 1; i > start; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		// A line cut that lands inside the overlap region would stall the
		// walk; fall back to a hard cut at the size limit.
		if cut-start <= overlap {
			cut = end
		}

		chunks = append(chunks, string(runes[start:cut]))
		start = cut - overlap
	}
}
