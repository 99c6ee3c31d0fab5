// Package sources talks to the two upstream services: the OpenBible topic
// pages that list verse references and bible-api.com that returns verse text.
// Every failure is absorbed here and logged; callers only see empty results.
package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"scripture-graph/backend/internal/constants"
	"scripture-graph/backend/internal/graph"
	apperrors "scripture-graph/backend/pkg/errors"
)

// TopicSource maps a topic to an ordered list of passage references.
// It returns an empty list on no results or any transport failure.
type TopicSource interface {
	References(ctx context.Context, topic string, max int) []string
}

// PassageSource maps a reference to its text. It returns nil on any failure.
type PassageSource interface {
	Passage(ctx context.Context, reference string) *graph.Passage
}

// NewHTTPClient returns the client shared by both sources
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// get performs a GET and returns the response body of a 200 reply.
func get(ctx context.Context, client *http.Client, url, userAgent, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewSourceFetchFailed(url, 0, err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept", accept)

	resp, err := client.Do(req)
	if err != nil {
		return nil, apperrors.NewSourceFetchFailed(url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewSourceFetchFailed(url, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxResponseBytes))
	if err != nil {
		return nil, apperrors.NewSourceFetchFailed(url, resp.StatusCode, fmt.Errorf("failed to read body: %w", err))
	}
	return body, nil
}
