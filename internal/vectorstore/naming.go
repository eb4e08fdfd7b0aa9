package vectorstore

import (
	"fmt"
	"regexp"
)

// collectionNamePattern restricts collection names to lowercase
// alphanumerics and underscores, 1-64 characters.
var collectionNamePattern = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

// ValidateCollectionName validates a collection name.
//
// Names must match ^[a-z0-9_]{1,64}$. This keeps names safe for use as
// on-disk directory components and stable across store backends.
func ValidateCollectionName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: collection name cannot be empty", ErrInvalidCollectionName)
	}
	if !collectionNamePattern.MatchString(name) {
		return fmt.Errorf("%w: collection name must match pattern ^[a-z0-9_]{1,64}$, got %q", ErrInvalidCollectionName, name)
	}
	return nil
}
