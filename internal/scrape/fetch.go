package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	fetchAttempts = 3
	fetchBackoff  = time.Second
	// fetchTimeout bounds each individual attempt so one hanging
	// connection cannot stall a whole request.
	fetchTimeout = 15 * time.Second

	userAgent = "Mozilla/5.0 (compatible; lunchmenus/1.0)"
)

// fetchWithRetry fetches a URL with up to fetchAttempts tries and linear
// backoff between them. Network errors and 5xx responses are retried; 4xx
// responses fail immediately since retrying them cannot help.
func fetchWithRetry(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt-1) * fetchBackoff):
			}
		}

		body, retryable, err := fetchOnce(ctx, client, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("all %d fetch attempts failed: %w", fetchAttempts, lastErr)
}

func fetchOnce(ctx context.Context, client *http.Client, url string) (body []byte, retryable bool, err error) {
	attemptCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, "GET", url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("server error: status %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, fmt.Errorf("bad status: %s", resp.Status)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read body: %w", err)
	}
	return body, false, nil
}

// fetchDoc fetches a URL and parses it as an HTML document.
func fetchDoc(ctx context.Context, client *http.Client, url string) (*goquery.Document, error) {
	body, err := fetchWithRetry(ctx, client, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}
