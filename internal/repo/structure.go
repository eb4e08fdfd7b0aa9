package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Structure renders a directory tree as indented text, directories
// first at each level and suffixed with "/". maxDepth <= 0 means
// unlimited. Skipped directories (.git, node_modules, ...) are
// omitted entirely.
func Structure(path string, maxDepth int) (string, error) {
	cleanPath, err := validatePath(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	var b strings.Builder
	b.WriteString(filepath.Base(cleanPath) + "/\n")
	if err := writeTree(&b, cleanPath, 1, maxDepth); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeTree(b *strings.Builder, dir string, depth, maxDepth int) error {
	if maxDepth > 0 && depth > maxDepth {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	indent := strings.Repeat("  ", depth)
	for _, e := range entries {
		if e.IsDir() {
			if defaultSkipDirs[e.Name()] {
				continue
			}
			b.WriteString(indent + e.Name() + "/\n")
			if err := writeTree(b, filepath.Join(dir, e.Name()), depth+1, maxDepth); err != nil {
				return err
			}
			continue
		}
		b.WriteString(indent + e.Name() + "\n")
	}
	return nil
}
