package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

// Renderer fetches pages through a headless browser for sources whose
// listings only materialize after JavaScript runs. One browser instance is
// shared across the process; each request gets its own timeout context.
type Renderer struct {
	allocCtx      context.Context
	cancelAlloc   context.CancelFunc
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
}

var _ PageFetcher = (*Renderer)(nil)

func NewRenderer() (*Renderer, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), chromedp.DefaultExecAllocatorOptions[:]...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Warm up the browser so the first request does not pay the startup cost.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start headless browser: %w", err)
	}

	slog.Info("Headless renderer started")

	return &Renderer{
		allocCtx:      allocCtx,
		cancelAlloc:   cancelAlloc,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
	}, nil
}

func (r *Renderer) Run(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	renderCtx, cancel := context.WithTimeout(r.browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(renderCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}

	if html == "" {
		return nil, fmt.Errorf("rendered page is empty")
	}

	return []byte(html), nil
}

func (r *Renderer) Close() {
	r.cancelBrowser()
	r.cancelAlloc()
}
