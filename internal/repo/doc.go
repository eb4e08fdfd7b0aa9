// Package repo acquires repository content.
//
// It collects files from a local working tree for indexing, clones
// remote repositories with go-git, fetches repository metadata from
// the GitHub API and renders directory structure summaries.
package repo
