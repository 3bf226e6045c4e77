package quaily

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a minimal HTTP client for Quaily API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	// Endpoints (optional overrides)
	createPath  string // Template: "/lists/%s/posts"
	deliverPath string // Template: "/lists/%s/posts/%s/deliver"
}

// New creates a new Quaily client.
// baseURL should be like "https://api.quaily.com/v1" (no trailing slash).
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		http:        &http.Client{Timeout: timeout},
		createPath:  "/lists/%s/posts",
		deliverPath: "/lists/%s/posts/%s/deliver",
	}
}

// WithPaths optionally overrides endpoints.
func (c *Client) WithPaths(createPath, deliverPath string) *Client {
	c2 := *c
	if strings.TrimSpace(createPath) != "" {
		c2.createPath = createPath
	}
	if strings.TrimSpace(deliverPath) != "" {
		c2.deliverPath = deliverPath
	}
	return &c2
}

// CreatePost sends a Create Post request to Quaily and returns the post ID.
func (c *Client) CreatePost(ctx context.Context, channelSlug string, params map[string]any) (string, error) {
	if c == nil {
		return "", errors.New("nil quaily client")
	}
	body, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf(c.createPath, channelSlug), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create post: %w", err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	// Try common patterns for id
	if id := idOf(out); id != "" {
		return id, nil
	}
	if data, ok := out["data"].(map[string]any); ok {
		if id := idOf(data); id != "" {
			return id, nil
		}
	}
	return "", errors.New("create post: missing id in response")
}

// DeliverPost triggers delivery (send) for a post by slug.
func (c *Client) DeliverPost(ctx context.Context, channelSlug, postSlug string) error {
	if c == nil {
		return errors.New("nil quaily client")
	}
	if strings.TrimSpace(postSlug) == "" {
		return errors.New("empty post slug")
	}
	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf(c.deliverPath, channelSlug, postSlug), http.NoBody)
	if err != nil {
		return fmt.Errorf("deliver post: %w", err)
	}
	resp.Body.Close()
	return nil
}

// do sends an authenticated JSON request and rejects non-2xx answers.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("status=%d body=%s", resp.StatusCode, string(b))
	}
	return resp, nil
}

func idOf(m map[string]any) string {
	switch id := m["id"].(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%v", id)
	}
	return ""
}
