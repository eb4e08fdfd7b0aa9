package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fyrsmithlabs/reposurfer/internal/indexer"
)

// defaultSkipDirs are directories never worth indexing. They hold
// generated code, dependencies or version control data.
var defaultSkipDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	".hg":          true,
	"node_modules": true,
	"vendor":       true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	".idea":        true,
	".vscode":      true,
	".cache":       true,
	"dist":         true,
	"build":        true,
	".next":        true,
	"target":       true,
}

// CollectOptions configures file collection.
type CollectOptions struct {
	// IncludePatterns are glob patterns for files to include. Empty
	// means everything, subject to excludes and the size limit.
	IncludePatterns []string

	// ExcludePatterns are glob patterns for files to exclude. They
	// take precedence over includes.
	ExcludePatterns []string

	// MaxFileSize is the largest file in bytes to collect.
	// Default: 1MB. Maximum: 10MB.
	MaxFileSize int64
}

// Collect walks a local directory tree and returns the files eligible
// for indexing, paths relative to the tree root. Binary detection is
// left to the indexer; collection filters only on location, pattern
// and size.
func Collect(ctx context.Context, path string, opts CollectOptions) ([]indexer.File, error) {
	cleanPath, err := validatePath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	if opts.MaxFileSize == 0 {
		opts.MaxFileSize = 1024 * 1024
	}
	if opts.MaxFileSize > 10*1024*1024 {
		return nil, fmt.Errorf("max_file_size cannot exceed 10MB")
	}
	if err := validatePatterns(opts.IncludePatterns); err != nil {
		return nil, fmt.Errorf("invalid include pattern: %w", err)
	}
	if err := validatePatterns(opts.ExcludePatterns); err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}

	var files []indexer.File
	err = filepath.Walk(cleanPath, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if defaultSkipDirs[filepath.Base(filePath)] {
				return filepath.SkipDir
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		relPath, err := filepath.Rel(cleanPath, filePath)
		if err != nil {
			return fmt.Errorf("computing relative path: %w", err)
		}

		if !shouldIncludeFile(relPath, info, opts) {
			return nil
		}

		content, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("reading file %s: %w", filePath, err)
		}

		files = append(files, indexer.File{
			Path:    filepath.ToSlash(relPath),
			Content: content,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking file tree: %w", err)
	}

	return files, nil
}

// validatePath validates and cleans a directory path.
func validatePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("path does not exist: %s", cleanPath)
		}
		return "", fmt.Errorf("stat path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path must be a directory: %s", cleanPath)
	}
	return cleanPath, nil
}

// validatePatterns validates glob patterns.
func validatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if _, err := filepath.Match(pattern, "test"); err != nil {
			return fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// shouldIncludeFile applies size, exclude and include filters.
func shouldIncludeFile(relPath string, info os.FileInfo, opts CollectOptions) bool {
	basename := filepath.Base(relPath)

	if info.Size() > opts.MaxFileSize {
		return false
	}

	for _, pattern := range opts.ExcludePatterns {
		if matched, _ := filepath.Match(pattern, basename); matched {
			return false
		}
		if matched, _ := filepath.Match(pattern, relPath); matched {
			return false
		}
		// Directory prefixes for patterns like "docs/**".
		if strings.Contains(pattern, "**") {
			prefix := strings.TrimSuffix(pattern, "/**")
			if strings.HasPrefix(relPath, prefix+string(filepath.Separator)) {
				return false
			}
		}
	}

	if len(opts.IncludePatterns) > 0 {
		for _, pattern := range opts.IncludePatterns {
			if matched, _ := filepath.Match(pattern, basename); matched {
				return true
			}
			if matched, _ := filepath.Match(pattern, relPath); matched {
				return true
			}
		}
		return false
	}

	return true
}
