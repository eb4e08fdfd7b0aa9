package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/reposurfer/internal/indexer"
	"github.com/fyrsmithlabs/reposurfer/internal/repo"
)

var (
	analyzeID      string
	analyzePin     bool
	analyzeInclude []string
	analyzeExclude []string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path|url>",
	Short: "Index a repository for question answering",
	Long: `Index a local directory or remote repository into the vector store.

Remote URLs are shallow-cloned into a temporary directory first.
Re-analyzing replaces the previous index for the same repository id.

Examples:
  # Analyze the current directory
  reposurfer analyze .

  # Analyze a remote repository
  reposurfer analyze https://github.com/owner/repo

  # Analyze under an explicit id, Go sources only
  reposurfer analyze --id myrepo --include '*.go' ./src`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeID, "id", "", "repository id (default: directory or repository name)")
	analyzeCmd.Flags().BoolVar(&analyzePin, "pin", false, "derive the id from origin and revision instead of the name")
	analyzeCmd.Flags().StringSliceVar(&analyzeInclude, "include", nil, "glob patterns of files to include")
	analyzeCmd.Flags().StringSliceVar(&analyzeExclude, "exclude", nil, "glob patterns of files to exclude")
}

// isRemote reports whether the analyze target needs cloning.
func isRemote(target string) bool {
	return strings.Contains(target, "://") || strings.HasPrefix(target, "git@")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	target := args[0]

	path := target
	origin := target
	revision := ""
	name := ""

	if isRemote(target) {
		tmp, err := os.MkdirTemp("", "reposurfer-clone-*")
		if err != nil {
			return fmt.Errorf("creating temp directory: %w", err)
		}
		defer os.RemoveAll(tmp)

		fmt.Fprintf(os.Stderr, "Cloning %s...\n", target)
		revision, err = repo.Clone(ctx, target, tmp)
		if err != nil {
			return err
		}
		path = tmp
		name = strings.TrimSuffix(filepath.Base(strings.TrimSuffix(target, "/")), ".git")
	} else {
		abs, err := filepath.Abs(target)
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}
		path = abs
		origin = abs
		name = filepath.Base(abs)
		// Not being a git repository is fine for local analysis.
		if rev, err := repo.HeadRevision(abs); err == nil {
			revision = rev
		}
	}

	repoID := analyzeID
	if repoID == "" {
		if analyzePin {
			if revision == "" {
				return fmt.Errorf("--pin requires a git repository with a resolvable HEAD")
			}
			repoID = indexer.CollectionKey(origin, revision)
		} else {
			repoID = name
		}
	}

	files, err := repo.Collect(ctx, path, repo.CollectOptions{
		IncludePatterns: analyzeInclude,
		ExcludePatterns: analyzeExclude,
	})
	if err != nil {
		return err
	}

	result, err := app.indexer.Index(ctx, repoID, files)
	if err != nil {
		return err
	}

	fmt.Printf("Repository id: %s\n", result.RepositoryID)
	fmt.Printf("Files indexed: %d (skipped %d)\n", result.FilesIndexed, result.FilesSkipped)
	fmt.Printf("Chunks stored: %d\n", result.ChunksIndexed)
	if revision != "" {
		fmt.Printf("Revision:      %s\n", revision)
	}
	return nil
}

var cloneCmd = &cobra.Command{
	Use:   "clone <url> [dest]",
	Short: "Shallow-clone a repository",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		dest := ""
		if len(args) == 2 {
			dest = args[1]
		} else {
			dest = strings.TrimSuffix(filepath.Base(strings.TrimSuffix(url, "/")), ".git")
		}

		revision, err := repo.Clone(cmd.Context(), url, dest)
		if err != nil {
			return err
		}
		fmt.Printf("Cloned into %s at %s\n", dest, revision)
		return nil
	},
}
