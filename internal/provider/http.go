package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// StatusError is returned when an upstream API answers with a non-200 status.
type StatusError struct {
	API    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.API, e.Status, e.Body)
}

// maxErrorBody caps how much of an error response ends up in logs.
const maxErrorBody = 512

func doGet(ctx context.Context, client *http.Client, limiter *RateLimiter, api, url string, headers map[string]string) ([]byte, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

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

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{API: api, Status: resp.StatusCode, Body: string(body)}
	}

	return io.ReadAll(resp.Body)
}
