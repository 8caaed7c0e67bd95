package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/firefly-engineering/sandpool-ctl/internal/errors"
	"github.com/firefly-engineering/sandpool-ctl/internal/logging"
)

const (
	defaultBaseURL = "https://api.github.com"

	// variablesPerPage is the page size for listing; the API caps at 100.
	variablesPerPage = 100
)

// GitHubVariables stores records as GitHub Actions repository variables
// under /repos/{owner}/{repo}/actions/variables.
type GitHubVariables struct {
	baseURL string
	repo    string // "owner/name"
	token   string
	client  *http.Client
}

// GitHubOption configures a GitHubVariables store.
type GitHubOption func(*GitHubVariables)

// WithBaseURL overrides the API base URL (for GitHub Enterprise or tests).
func WithBaseURL(u string) GitHubOption {
	return func(s *GitHubVariables) {
		s.baseURL = u
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) GitHubOption {
	return func(s *GitHubVariables) {
		s.client = c
	}
}

// NewGitHubVariables creates a store backed by the repository variables
// of repo ("owner/name"), authenticated with token.
func NewGitHubVariables(repo, token string, opts ...GitHubOption) *GitHubVariables {
	s := &GitHubVariables{
		baseURL: defaultBaseURL,
		repo:    repo,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// variable is the wire form of one repository variable.
type variable struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// listResponse is one page of the variables listing.
type listResponse struct {
	TotalCount int        `json:"total_count"`
	Variables  []variable `json:"variables"`
}

func (s *GitHubVariables) variablesURL() string {
	return fmt.Sprintf("%s/repos/%s/actions/variables", s.baseURL, s.repo)
}

func (s *GitHubVariables) variableURL(key string) string {
	return fmt.Sprintf("%s/%s", s.variablesURL(), url.PathEscape(key))
}

func (s *GitHubVariables) do(ctx context.Context, method, u string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("Authorization", "Bearer "+s.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return s.client.Do(req)
}

// List fetches every variable page by page and returns the entries whose
// names match pattern.
func (s *GitHubVariables) List(ctx context.Context, pattern string) ([]Entry, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid key pattern %q: %w", pattern, err)
	}

	var entries []Entry
	for page := 1; ; page++ {
		u := fmt.Sprintf("%s?per_page=%d&page=%d", s.variablesURL(), variablesPerPage, page)
		resp, err := s.do(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, errors.StoreUnavailable("list", err)
		}

		var body listResponse
		err = decodeResponse(resp, &body)
		if err != nil {
			return nil, err
		}

		for _, v := range body.Variables {
			if re.MatchString(v.Name) {
				entries = append(entries, Entry{
					Key:       v.Name,
					Value:     []byte(v.Value),
					CreatedAt: v.CreatedAt,
				})
			}
		}

		if page*variablesPerPage >= body.TotalCount || len(body.Variables) == 0 {
			break
		}
	}

	logging.Debug("listed store entries", "pattern", pattern, "count", len(entries))
	return entries, nil
}

// Read fetches a single variable by key.
func (s *GitHubVariables) Read(ctx context.Context, key string) (Entry, error) {
	resp, err := s.do(ctx, http.MethodGet, s.variableURL(key), nil)
	if err != nil {
		return Entry{}, errors.StoreUnavailable("read", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		drain(resp)
		return Entry{}, errors.RecordNotFound(key)
	}

	var v variable
	if err := decodeResponse(resp, &v); err != nil {
		return Entry{}, err
	}
	return Entry{Key: v.Name, Value: []byte(v.Value), CreatedAt: v.CreatedAt}, nil
}

// Write overwrites the variable unconditionally, creating it when absent.
func (s *GitHubVariables) Write(ctx context.Context, key string, value []byte) error {
	payload := map[string]string{"name": key, "value": string(value)}

	resp, err := s.do(ctx, http.MethodPatch, s.variableURL(key), payload)
	if err != nil {
		return errors.StoreUnavailable("write", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		drain(resp)
		resp, err = s.do(ctx, http.MethodPost, s.variablesURL(), payload)
		if err != nil {
			return errors.StoreUnavailable("write", err)
		}
	}
	return checkStatus(resp)
}

// Delete removes the variable. Deleting an absent variable is an error
// so callers never mistake a missed delete for success.
func (s *GitHubVariables) Delete(ctx context.Context, key string) error {
	resp, err := s.do(ctx, http.MethodDelete, s.variableURL(key), nil)
	if err != nil {
		return errors.StoreUnavailable("delete", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		drain(resp)
		return errors.RecordNotFound(key)
	}
	return checkStatus(resp)
}

// decodeResponse checks the status and decodes a JSON body into out.
func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if err := statusError(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.StoreUnavailable("decode response", err)
	}
	return nil
}

// checkStatus consumes and closes the body, returning any status error.
func checkStatus(resp *http.Response) error {
	defer drain(resp)
	return statusError(resp)
}

func statusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return errors.StoreUnavailable(
		fmt.Sprintf("%s %s", resp.Request.Method, resp.Request.URL.Path),
		fmt.Errorf("unexpected status %s", resp.Status))
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
