package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Public GitHub endpoints.
const (
	DefaultGitHubAPIURL = "https://api.github.com"
	DefaultGitHubRawURL = "https://raw.githubusercontent.com"
)

// GitHubConfig locates a corpus folder inside a GitHub repository.
type GitHubConfig struct {
	APIURL string // default DefaultGitHubAPIURL
	RawURL string // default DefaultGitHubRawURL
	Owner  string
	Repo   string
	Branch string
	Folder string

	// Client overrides the HTTP client. Default: 15s timeout.
	Client *http.Client
}

// GitHubSource lists a repository folder through the contents API and
// downloads each record from the raw content host.
type GitHubSource struct {
	cfg    GitHubConfig
	client *http.Client
}

var _ Source = (*GitHubSource)(nil)

// contentEntry is the subset of the contents API response we use.
type contentEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// NewGitHubSource creates a remote listing source.
func NewGitHubSource(cfg GitHubConfig) *GitHubSource {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultGitHubAPIURL
	}
	if cfg.RawURL == "" {
		cfg.RawURL = DefaultGitHubRawURL
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &GitHubSource{cfg: cfg, client: client}
}

func (s *GitHubSource) Name() string {
	return fmt.Sprintf("github:%s/%s/%s@%s", s.cfg.Owner, s.cfg.Repo, s.cfg.Folder, s.cfg.Branch)
}

func (s *GitHubSource) List(ctx context.Context) ([]string, error) {
	listURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		strings.TrimRight(s.cfg.APIURL, "/"),
		url.PathEscape(s.cfg.Owner),
		url.PathEscape(s.cfg.Repo),
		escapePath(s.cfg.Folder),
		url.QueryEscape(s.cfg.Branch),
	)
	body, err := s.get(ctx, listURL, "application/vnd.github+json")
	if err != nil {
		return nil, fmt.Errorf("list contents: %w", err)
	}

	var entries []contentEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode contents listing: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type == "file" {
			keys = append(keys, e.Name)
		}
	}
	return keys, nil
}

func (s *GitHubSource) Fetch(ctx context.Context, key string) ([]byte, error) {
	rawURL := fmt.Sprintf("%s/%s/%s/%s/%s/%s",
		strings.TrimRight(s.cfg.RawURL, "/"),
		url.PathEscape(s.cfg.Owner),
		url.PathEscape(s.cfg.Repo),
		url.PathEscape(s.cfg.Branch),
		escapePath(s.cfg.Folder),
		url.PathEscape(key),
	)
	return s.get(ctx, rawURL, "")
}

func (s *GitHubSource) get(ctx context.Context, u, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, u)
	}
	return io.ReadAll(resp.Body)
}

// escapePath escapes each segment of a slash-separated path.
func escapePath(p string) string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
