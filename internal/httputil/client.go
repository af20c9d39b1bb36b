// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "biblioteksdata/0.1"
	maxErrorBody     = 512
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d: %s", e.URL, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Client sends identified, retried GET requests.
type Client struct {
	HTTP       *http.Client
	UserAgent  string
	MaxRetries int
}

// NewClient builds a client from cfg, filling defaults.
func NewClient(cfg types.HTTPConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		HTTP:       &http.Client{Timeout: timeout},
		UserAgent:  ua,
		MaxRetries: cfg.MaxRetries,
	}
}

// Get fetches rawURL with query appended and returns the body.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values, accept string) ([]byte, error) {
	u := rawURL
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := DoWithRetry(ctx, c.HTTP, req, c.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Body: string(body)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return data, nil
}

// GetJSON fetches rawURL and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, out any) error {
	data, err := c.Get(ctx, rawURL, query, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	return nil
}
