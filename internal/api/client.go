// Package api is the HTTP client of the store search service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Doer sends HTTP requests. *http.Client and the transport layers satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the search service over HTTP.
type Client struct {
	Doer         Doer
	BaseURL      string
	ApplyHeaders func(*http.Request)
}

func NewClient(doer Doer, baseURL string, applyHeaders func(*http.Request)) *Client {
	return &Client{
		Doer:         doer,
		BaseURL:      strings.TrimRight(baseURL, "/"),
		ApplyHeaders: applyHeaders,
	}
}

const (
	maxListBody  = 4 * 1024 * 1024
	maxErrorBody = 64 * 1024
)

func (c *Client) newReq(ctx context.Context, method, path string, q url.Values, body []byte) (*http.Request, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is empty")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.ApplyHeaders != nil {
		c.ApplyHeaders(req)
	}
	return req, nil
}

// getJSON issues a GET and decodes a 200 answer into out.
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	req, err := c.newReq(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return err
	}

	resp, err := c.Doer.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxListBody))
	if err != nil {
		return fmt.Errorf("GET %s: read body: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return ParseAPIError(resp.StatusCode, bytes.TrimSpace(b))
	}

	// an empty result set may come back as [] or null
	switch string(bytes.TrimSpace(b)) {
	case "", "null", "[]":
		return nil
	}

	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("GET %s: bad json body=%s: %w", path, string(b[:min(len(b), 256)]), err)
	}
	return nil
}
