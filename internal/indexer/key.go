package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// CollectionKey derives a stable repository identifier from the
// repository's origin (local path or remote slug) and revision.
//
// The same origin and revision always resolve to the same key, which is
// what lets callers skip re-indexing an unchanged repository and scopes
// retrieval to the right corpus. Origins are lightly normalized (case,
// trailing slash, ".git" suffix) so equivalent spellings collide.
func CollectionKey(origin, revision string) string {
	origin = strings.ToLower(strings.TrimSuffix(strings.TrimRight(origin, "/"), ".git"))
	sum := sha256.Sum256([]byte(origin + "@" + revision))
	return "repo_" + hex.EncodeToString(sum[:6])
}
