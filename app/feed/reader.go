package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// HTTPReader reads feed pages from the contracts feed endpoint.
// Transient fetch failures are retried with exponential backoff.
type HTTPReader struct {
	endpoint   string
	httpClient *http.Client
	parser     *Parser
	userAgent  string
	timeout    time.Duration
	maxRetries uint64
}

func NewHTTPReader(endpoint string, httpClient *http.Client, userAgent string, timeout time.Duration, maxRetries uint64) *HTTPReader {
	return &HTTPReader{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: httpClient,
		parser:     NewParser(),
		userAgent:  userAgent,
		timeout:    timeout,
		maxRetries: maxRetries,
	}
}

func (r *HTTPReader) ReadSelfPage(ctx context.Context) (*Page, error) {
	return r.read(ctx, r.endpoint)
}

func (r *HTTPReader) ReadPage(ctx context.Context, pageNumber int) (*Page, error) {
	return r.read(ctx, fmt.Sprintf("%s/%d", r.endpoint, pageNumber))
}

func (r *HTTPReader) ParsePage(data []byte) (*Page, error) {
	return r.parser.Run(data)
}

func (r *HTTPReader) read(ctx context.Context, url string) (*Page, error) {
	data, err := r.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return r.parser.Run(data)
}

func (r *HTTPReader) fetch(ctx context.Context, url string) ([]byte, error) {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), r.maxRetries), ctx)

	return backoff.RetryWithData(func() ([]byte, error) {
		data, err := r.fetchOnce(ctx, url)
		if err != nil {
			slog.Warn("Feed fetch failed, retrying", "url", url, "error", err)
			return nil, err
		}
		return data, nil
	}, policy)
}

func (r *HTTPReader) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "application/atom+xml")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
