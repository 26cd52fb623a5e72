package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/klabast/wb-services/menu-planer/internal/config"
)

const (
	githubAPIVersion  = "2022-11-28"
	githubMediaType   = "application/vnd.github+json"
	createCommitTitle = "Création des menus"
	updateCommitTitle = "Mise à jour des menus"
)

// GitHubBackend stores resources as files of a GitHub repository through the
// contents API. The version token is the blob SHA of the file.
type GitHubBackend struct {
	client  *http.Client
	baseURL string
	owner   string
	repo    string
	branch  string
	token   string
}

func NewGitHubBackend(cfg config.GitHubConfig, client *http.Client) *GitHubBackend {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	baseURL := cfg.APIURL
	if baseURL == "" {
		baseURL = config.DefaultAPIURL
	}
	return &GitHubBackend{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		owner:   cfg.Owner,
		repo:    cfg.Repo,
		branch:  cfg.Branch,
		token:   cfg.Token,
	}
}

type githubContent struct {
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type githubPutRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch,omitempty"`
	SHA     string `json:"sha,omitempty"`
}

type githubError struct {
	Message string `json:"message"`
}

func (b *GitHubBackend) contentsURL(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		b.baseURL, url.PathEscape(b.owner), url.PathEscape(b.repo), strings.Join(segments, "/"))
}

func (b *GitHubBackend) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", githubMediaType)
	req.Header.Set("X-GitHub-Api-Version", githubAPIVersion)
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Get downloads the file at path from the configured branch
func (b *GitHubBackend) Get(ctx context.Context, path string) ([]byte, string, error) {
	target := b.contentsURL(path)
	if b.branch != "" {
		target += "?ref=" + url.QueryEscape(b.branch)
	}
	req, err := b.newRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("github get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", apiError(resp, "get "+path)
	}

	var content githubContent
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return nil, "", fmt.Errorf("github get %s: invalid response: %w", path, err)
	}
	if content.Encoding != "base64" {
		return nil, "", fmt.Errorf("github get %s: unsupported encoding %q", path, content.Encoding)
	}
	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content.Content, "\n", ""))
	if err != nil {
		return nil, "", fmt.Errorf("github get %s: invalid content: %w", path, err)
	}
	return data, content.SHA, nil
}

// Create commits a new file at path
func (b *GitHubBackend) Create(ctx context.Context, path string, data []byte) error {
	return b.put(ctx, path, data, "", createCommitTitle)
}

// Update commits new content for the file at path. The SHA from the
// preceding Get is required by the API.
func (b *GitHubBackend) Update(ctx context.Context, path string, data []byte, version string) error {
	if version == "" {
		return fmt.Errorf("github update %s: missing blob sha", path)
	}
	return b.put(ctx, path, data, version, updateCommitTitle)
}

func (b *GitHubBackend) put(ctx context.Context, path string, data []byte, sha, message string) error {
	body, err := json.Marshal(githubPutRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(data),
		Branch:  b.branch,
		SHA:     sha,
	})
	if err != nil {
		return err
	}

	req, err := b.newRequest(ctx, http.MethodPut, b.contentsURL(path), bytes.NewReader(body))
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("github put %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case http.StatusUnprocessableEntity:
		if sha == "" {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
	}
	return apiError(resp, "put "+path)
}

func apiError(resp *http.Response, op string) error {
	var ge githubError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &ge); err != nil || ge.Message == "" {
		ge.Message = strings.TrimSpace(string(raw))
	}
	return fmt.Errorf("github %s: %s: %s", op, resp.Status, ge.Message)
}
