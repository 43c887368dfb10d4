package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Upper bound on response bodies; listing and article pages beyond this are
// truncated rather than buffered in full.
const maxBodySize = 10 << 20

var acceptableContentTypes = []string{
	"text/html",
	"application/xhtml",
	"text/xml",
	"application/xml",
	"application/rss",
	"application/atom",
}

// PageFetcher is implemented by both the plain HTTP client and the headless
// renderer, so tasks can pick one per source.
type PageFetcher interface {
	Run(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error)
}

type Client struct {
	httpClient *http.Client
	userAgent  string
}

var _ PageFetcher = (*Client)(nil)

func NewClient(httpClient *http.Client, userAgent string) *Client {
	return &Client{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

func (c *Client) Run(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isAcceptableContentType(contentType) {
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func isAcceptableContentType(contentType string) bool {
	lower := strings.ToLower(contentType)
	for _, acceptable := range acceptableContentTypes {
		if strings.Contains(lower, acceptable) {
			return true
		}
	}
	return false
}
