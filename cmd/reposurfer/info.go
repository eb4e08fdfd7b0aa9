package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/reposurfer/internal/repo"
)

var infoCmd = &cobra.Command{
	Use:   "info <owner/repo|url>",
	Short: "Show GitHub metadata for a repository",
	Long: `Fetch repository metadata from the GitHub API.

Set GITHUB_TOKEN for authenticated access and higher rate limits.

Examples:
  reposurfer info golang/go
  reposurfer info https://github.com/golang/go`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	owner, name, err := repo.ParseGitHubURL(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client := repo.NewGitHubClient(ctx, os.Getenv("GITHUB_TOKEN"))
	info, err := client.RepoInfo(ctx, owner, name)
	if err != nil {
		return err
	}

	fmt.Printf("Repository:     %s\n", info.FullName)
	if info.Description != "" {
		fmt.Printf("Description:    %s\n", info.Description)
	}
	if info.Language != "" {
		fmt.Printf("Language:       %s\n", info.Language)
	}
	fmt.Printf("Stars:          %d\n", info.Stars)
	fmt.Printf("Forks:          %d\n", info.Forks)
	fmt.Printf("Default branch: %s\n", info.DefaultBranch)
	if len(info.Topics) > 0 {
		fmt.Printf("Topics:         %s\n", strings.Join(info.Topics, ", "))
	}
	fmt.Printf("Clone URL:      %s\n", info.CloneURL)
	return nil
}
