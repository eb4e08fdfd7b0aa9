package repo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Info is repository metadata from the hosting platform.
type Info struct {
	FullName      string   `json:"full_name"`
	Description   string   `json:"description,omitempty"`
	Language      string   `json:"language,omitempty"`
	Stars         int      `json:"stars"`
	Forks         int      `json:"forks"`
	DefaultBranch string   `json:"default_branch"`
	Topics        []string `json:"topics,omitempty"`
	CloneURL      string   `json:"clone_url"`
}

// GitHubClient fetches repository metadata from the GitHub API.
type GitHubClient struct {
	client *github.Client
}

// NewGitHubClient creates a GitHub API client. An empty token means
// anonymous access with its lower rate limits.
func NewGitHubClient(ctx context.Context, token string) *GitHubClient {
	if token == "" {
		return &GitHubClient{client: github.NewClient(nil)}
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &GitHubClient{client: github.NewClient(oauth2.NewClient(ctx, ts))}
}

// RepoInfo fetches metadata for owner/name.
func (c *GitHubClient) RepoInfo(ctx context.Context, owner, name string) (*Info, error) {
	if owner == "" || name == "" {
		return nil, fmt.Errorf("owner and name are required")
	}

	r, _, err := c.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("fetching %s/%s: %w", owner, name, err)
	}

	return &Info{
		FullName:      r.GetFullName(),
		Description:   r.GetDescription(),
		Language:      r.GetLanguage(),
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		DefaultBranch: r.GetDefaultBranch(),
		Topics:        r.Topics,
		CloneURL:      r.GetCloneURL(),
	}, nil
}

// ParseGitHubURL extracts owner and repository name from a GitHub URL
// or an owner/name shorthand.
func ParseGitHubURL(raw string) (owner, name string, err error) {
	s := strings.TrimSuffix(strings.TrimSpace(raw), ".git")
	if s == "" {
		return "", "", fmt.Errorf("repository url cannot be empty")
	}

	// SSH form: git@github.com:owner/name
	if rest, ok := strings.CutPrefix(s, "git@github.com:"); ok {
		return splitOwnerName(rest)
	}

	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", "", fmt.Errorf("parsing url %q: %w", raw, err)
		}
		if u.Host != "github.com" && u.Host != "www.github.com" {
			return "", "", fmt.Errorf("not a github.com url: %s", raw)
		}
		return splitOwnerName(strings.TrimPrefix(u.Path, "/"))
	}

	s = strings.TrimPrefix(s, "github.com/")
	return splitOwnerName(s)
}

func splitOwnerName(s string) (string, string, error) {
	parts := strings.Split(strings.Trim(s, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("expected owner/name, got %q", s)
	}
	return parts[0], parts[1], nil
}
