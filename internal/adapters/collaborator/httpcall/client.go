// Package httpcall adapts net/http to the engine's HTTP collaborator
// interface for api_call nodes.
package httpcall

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/flowcanvas/flowcanvas/internal/app/usecases"
	"github.com/flowcanvas/flowcanvas/internal/infrastructure/ctxlog"
)

// maxResponseBytes bounds how much of a response body a node may pull in.
const maxResponseBytes = 4 << 20

// Client implements usecases.HTTPClient.
type Client struct {
	http *http.Client
}

// New creates a client with the given per-call timeout.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Call issues the request and returns status and body. Non-2xx statuses
// are returned as data, not errors; the handler decides what fails a node.
func (c *Client) Call(ctx context.Context, method, url string, body []byte) (*usecases.HTTPResponse, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	ctxlog.FromContext(ctx).Debug("http call", "method", method, "url", url)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &usecases.HTTPResponse{StatusCode: resp.StatusCode, Body: data}, nil
}
