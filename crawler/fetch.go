package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rufuslabs/rufus/config"
	"github.com/rufuslabs/rufus/models"
)

// FetchResult is the outcome of retrieving one URL.
type FetchResult struct {
	StatusCode  int
	Body        []byte
	ContentType string // Content-Type response header
	FinalURL    string // URL after redirects
}

// Fetcher retrieves a URL within a deadline. The production
// implementation is HTTPFetcher; tests substitute their own.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*FetchResult, error)
}

// HTTPFetcher fetches pages over plain HTTP with a polite, identifying
// User-Agent and a per-request timeout.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// NewHTTPFetcher creates a fetcher from crawler configuration.
func NewHTTPFetcher(cfg config.CrawlerConfig) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: cfg.FetchTimeout},
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
	}
}

// Fetch retrieves rawURL. Any non-2xx status or transport failure is
// returned as a FETCH_FAILED error; callers treat that as node-local.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, models.NewRufusError(models.ErrCodeFetchFailed, "build request", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, models.NewRufusError(models.ErrCodeFetchFailed, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, models.NewRufusError(models.ErrCodeFetchFailed,
			fmt.Sprintf("HTTP %d for %s", resp.StatusCode, rawURL), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, models.NewRufusError(models.ErrCodeFetchFailed, "read body", err)
	}

	return &FetchResult{
		StatusCode:  resp.StatusCode,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}
