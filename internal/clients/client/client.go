package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tentaclefi/tentacle-locker/internal/observability/metrics"
)

// Client is the contract a concrete HTTP client exposes to SendRequest.
type Client interface {
	GetBaseURL() string
	GetDefaultRequestTimeout() time.Duration
	GetHttpClient() *http.Client
}

type HttpClientOptions struct {
	Path string
	// TemplatePath is the path with placeholders intact, used as the metrics
	// label to keep cardinality bounded.
	TemplatePath string
	Headers      map[string]string
}

type HttpResponse[T any] struct {
	StatusCode int
	Body       *T
}

// SendRequest sends a JSON request to the client's base URL and decodes a
// JSON response. Non-2xx responses are returned as errors carrying the
// status code and body.
func SendRequest[I any, O any](
	ctx context.Context,
	c Client,
	method string,
	opts *HttpClientOptions,
	input *I,
) (*O, error) {
	url := c.GetBaseURL() + opts.Path

	var body io.Reader
	if input != nil {
		payload, err := json.Marshal(input)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	timeout := c.GetDefaultRequestTimeout()
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.GetHttpClient().Do(req)
	if err != nil {
		metrics.RecordClientRequestDuration(c.GetBaseURL(), method, opts.TemplatePath, 0, time.Since(start))
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	metrics.RecordClientRequestDuration(
		c.GetBaseURL(), method, opts.TemplatePath, resp.StatusCode, time.Since(start),
	)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf(
			"request to %s returned status %d: %s", url, resp.StatusCode, string(respBody),
		)
	}

	var output O
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &output); err != nil {
			return nil, fmt.Errorf("failed to decode response body: %w", err)
		}
	}

	return &output, nil
}
