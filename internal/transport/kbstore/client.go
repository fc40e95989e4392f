// Package kbstore is the HTTP client for the knowledge-base search backend.
package kbstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kailas-cloud/kbopt/internal/domain"
)

// Config holds backend connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client queries the scraped-pages search API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a backend client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// searchResponse mirrors the backend wire format. Title is optional there;
// a missing field decodes to the empty string.
type searchResponse struct {
	Rows []struct {
		URL     string `json:"url"`
		Title   string `json:"title"`
		Content string `json:"content_md"`
	} `json:"rows"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Search returns up to limit documents matching the keyword.
// A 429 response maps to domain.ErrRateLimited so the fetch layer can
// trigger the shared cooldown; other failures map to domain.ErrBackendUnavailable.
func (c *Client) Search(ctx context.Context, keyword string, limit int) ([]domain.Document, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be >= 1, got %d", limit)
	}

	endpoint := fmt.Sprintf(
		"%s/v1/pages/search?q=%s&limit=%s",
		c.baseURL, url.QueryEscape(keyword), strconv.Itoa(limit),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, domain.ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", domain.ErrBackendUnavailable, responseMessage(resp))
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %w", domain.ErrBackendUnavailable, err)
	}

	docs := make([]domain.Document, 0, len(body.Rows))
	for _, row := range body.Rows {
		docs = append(docs, domain.Document{
			URL:           row.URL,
			Title:         row.Title,
			Content:       row.Content,
			SourceKeyword: keyword,
		})
	}
	return docs, nil
}

// Ping reports backend reachability. Any HTTP response counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	_ = resp.Body.Close()
	return nil
}

// responseMessage extracts a short diagnostic from a non-200 response.
func responseMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 512))
	if err != nil || len(data) == 0 {
		return "status " + strconv.Itoa(resp.StatusCode)
	}
	var body errorResponse
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, body.Message)
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, string(data))
}
