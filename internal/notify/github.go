package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"context"
)

// GitHubIssues posts comments on GitHub issues.
type GitHubIssues struct {
	baseURL string
	repo    string // "owner/name"
	token   string
	client  *http.Client
}

// GitHubOption configures a GitHubIssues notifier.
type GitHubOption func(*GitHubIssues)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) GitHubOption {
	return func(n *GitHubIssues) {
		n.baseURL = u
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) GitHubOption {
	return func(n *GitHubIssues) {
		n.client = c
	}
}

// NewGitHubIssues creates a notifier for the given repository.
func NewGitHubIssues(repo, token string, opts ...GitHubOption) *GitHubIssues {
	n := &GitHubIssues{
		baseURL: "https://api.github.com",
		repo:    repo,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Comment posts a comment on the given issue number.
func (n *GitHubIssues) Comment(ctx context.Context, issue string, body string) error {
	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/repos/%s/issues/%s/comments", n.baseURL, n.repo, issue)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status %s posting comment on issue %s", resp.Status, issue)
	}
	return nil
}
