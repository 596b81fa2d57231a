// Package github is a minimal client for the GitHub Contents API, the only
// two calls the remote snapshot store needs: read a file (content + sha)
// and write a file guarded by that sha.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.github.com"

// Typed failures callers branch on with errors.Is.
var (
	// ErrNotFound: the file (or repo) does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized: the token was rejected.
	ErrUnauthorized = errors.New("bad credentials")
	// ErrConflict: the sha no longer matches the remote file; someone else
	// wrote in between.
	ErrConflict = errors.New("version conflict")
)

// APIError carries the remote status and message verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api: %d %s", e.StatusCode, e.Message)
}

// File is a decoded repository file.
type File struct {
	Content []byte
	SHA     string
}

// Client talks to one repository with one token.
type Client struct {
	token   string
	owner   string
	repo    string
	baseURL string
	httpc   *http.Client
}

// NewClient creates a Contents API client for owner/repo.
func NewClient(token, owner, repo string) *Client {
	return &Client{
		token:   token,
		owner:   owner,
		repo:    repo,
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL points the client at a different API root (tests).
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

func (c *Client) contentsURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, c.owner, c.repo, path)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpc.Do(req)
}

// apiError maps a non-2xx response onto the typed failures, preserving the
// remote message.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	message := strings.TrimSpace(string(body))
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		message = parsed.Message
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: message}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, message)
	case resp.StatusCode == http.StatusUnprocessableEntity &&
		strings.Contains(strings.ToLower(message), "does not match"):
		// 422 with a sha mismatch message is the Contents API's other way
		// of reporting a concurrent write.
		return fmt.Errorf("%w: %s", ErrConflict, message)
	}
	return apiErr
}

// GetFile fetches path, returning its decoded content and version sha.
func (c *Client) GetFile(ctx context.Context, path string) (*File, error) {
	resp, err := c.do(ctx, http.MethodGet, c.contentsURL(path), nil)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var payload struct {
		Content string `json:"content"`
		SHA     string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	// The API wraps base64 content across lines
	content, err := base64.StdEncoding.DecodeString(
		strings.Map(stripWhitespace, payload.Content))
	if err != nil {
		return nil, fmt.Errorf("decode %s content: %w", path, err)
	}
	return &File{Content: content, SHA: payload.SHA}, nil
}

func stripWhitespace(r rune) rune {
	switch r {
	case '\n', '\r', ' ', '\t':
		return -1
	}
	return r
}

// PutFile writes content to path with a commit message. A non-empty sha
// makes the write conditional on that version; empty sha creates the file.
func (c *Client) PutFile(ctx context.Context, path string, content []byte, message, sha string) error {
	body := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
	}
	if sha != "" {
		body["sha"] = sha
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}

	resp, err := c.do(ctx, http.MethodPut, c.contentsURL(path), encoded)
	if err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return apiError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
