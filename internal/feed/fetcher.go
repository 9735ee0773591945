package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Fetcher performs single-shot JSON GETs against the upstream APIs
type Fetcher struct {
	client *resty.Client
}

// NewFetcher builds a fetcher. A zero timeout leaves the client default in
// place. Requests are never retried.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	client := resty.New().
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}
	return &Fetcher{client: client}
}

// StatusError is returned for non-2xx upstream responses
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.Status, e.URL)
}

// FetchJSON issues one GET to url and decodes the body into out
func (f *Fetcher) FetchJSON(ctx context.Context, url string, out interface{}) error {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if !resp.IsSuccess() {
		return &StatusError{URL: url, Status: resp.StatusCode()}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", url, err)
	}
	return nil
}
