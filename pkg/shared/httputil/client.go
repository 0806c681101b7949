// Package httputil provides the JSON-over-HTTP helpers shared by the
// collaborator clients. Every call carries a bounded timeout so a slow
// collaborator cannot block a pipeline run indefinitely.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StatusError is returned for non-2xx responses so callers can tell a
// service-side failure apart from a transport one.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

// GetJSON sends a GET request with the given headers and returns the raw
// response body. timeoutSecs bounds the whole request.
func GetJSON(ctx context.Context, url string, headers map[string]string, timeoutSecs int) ([]byte, error) {
	if timeoutSecs <= 0 {
		timeoutSecs = 30
	}
	client := &http.Client{Timeout: time.Duration(timeoutSecs) * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}
