package api

import (
	"context"
	"net/url"
)

// GitHub proxy endpoints. The backend owns the OAuth handshake and the
// repository binding; the client only sees status, listings, contents,
// and save/commit acknowledgments. Every method answers locally when
// mock-repository mode is on.

// RepoStatus reports the GitHub connection state.
func (c *Client) RepoStatus(ctx context.Context) (GitHubStatus, error) {
	if MockRepoEnabled() {
		return GitHubStatus{Connected: true, Login: "mock", Repo: "mock/workspace"}, nil
	}
	var status GitHubStatus
	err := c.get(ctx, "/api/github/status", &status)
	return status, err
}

// AuthorizeURL returns the backend URL that starts the OAuth flow. The
// TUI shows it for the user to open in a browser.
func (c *Client) AuthorizeURL() string {
	return c.baseURL + "/api/github/oauth/authorize"
}

// RepoFiles lists the repository at path ("" for the root).
func (c *Client) RepoFiles(ctx context.Context, path string) ([]RepoEntry, error) {
	if MockRepoEnabled() {
		return mockRepoListing(), nil
	}
	var wire struct {
		Files []RepoEntry `json:"files"`
	}
	if err := c.get(ctx, "/api/github/repo/files?path="+url.QueryEscape(path), &wire); err != nil {
		return nil, err
	}
	return wire.Files, nil
}

// RepoFile fetches one file's content.
func (c *Client) RepoFile(ctx context.Context, path string) (string, error) {
	if MockRepoEnabled() {
		return mockRepoRead(path), nil
	}
	var wire struct {
		Content string `json:"content"`
	}
	if err := c.get(ctx, "/api/github/repo/file?path="+url.QueryEscape(path), &wire); err != nil {
		return "", err
	}
	return wire.Content, nil
}

// SaveRepoFile writes content back without committing.
func (c *Client) SaveRepoFile(ctx context.Context, path, content string) (SaveResult, error) {
	if MockRepoEnabled() {
		return mockRepoWrite(path, content), nil
	}
	var result SaveResult
	err := c.do(ctx, "PUT", "/api/github/repo/file", map[string]string{
		"path":    path,
		"content": content,
	}, &result)
	return result, err
}

// CommitRepoFile writes content and creates a commit with message.
func (c *Client) CommitRepoFile(ctx context.Context, path, content, message string) (SaveResult, error) {
	if MockRepoEnabled() {
		return mockRepoWrite(path, content), nil
	}
	var result SaveResult
	err := c.post(ctx, "/api/github/repo/commit", map[string]string{
		"path":    path,
		"content": content,
		"message": message,
	}, &result)
	return result, err
}
