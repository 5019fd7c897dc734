package browser

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromeDPConfig holds configuration for the chromedp-backed controller.
type ChromeDPConfig struct {
	// RemoteURL is the CDP WebSocket endpoint of a remote Chrome. If
	// empty, a local instance is launched.
	RemoteURL string
	// Headless controls whether a locally launched Chrome runs headless.
	Headless bool
	// Timeout is the per-action timeout.
	Timeout time.Duration
}

// ChromeDP implements Controller by driving Chrome through the DevTools
// protocol. Actions run against a single tab; failures are folded into
// the returned Result.
type ChromeDP struct {
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	timeout     time.Duration
}

// NewChromeDP launches (or connects to) Chrome and opens a tab.
func NewChromeDP(cfg ChromeDPConfig) (*ChromeDP, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	var allocCtx context.Context
	b := &ChromeDP{timeout: cfg.Timeout}
	if cfg.RemoteURL != "" {
		allocCtx, b.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
	} else {
		opts := make([]chromedp.ExecAllocatorOption, len(chromedp.DefaultExecAllocatorOptions))
		copy(opts, chromedp.DefaultExecAllocatorOptions[:])
		opts = append(opts,
			chromedp.Flag("headless", cfg.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.WindowSize(1280, 720),
		)
		allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}

	b.tabCtx, b.tabCancel = chromedp.NewContext(allocCtx)

	// Running an empty action starts the browser and binds the session.
	startDone := make(chan error, 1)
	go func() { startDone <- chromedp.Run(b.tabCtx) }()
	select {
	case err := <-startDone:
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("start browser: %w", err)
		}
	case <-time.After(cfg.Timeout):
		b.Close()
		return nil, fmt.Errorf("start browser: timed out after %v", cfg.Timeout)
	}

	return b, nil
}

func (b *ChromeDP) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(b.tabCtx, b.timeout)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- chromedp.Run(runCtx, actions...) }()
	select {
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Navigate loads the URL in the tab.
func (b *ChromeDP) Navigate(ctx context.Context, url string) Result {
	if err := b.run(ctx, chromedp.Navigate(url)); err != nil {
		return fail(ActionNavigate, err)
	}
	return ok(ActionNavigate, map[string]any{"url": url})
}

// Click clicks the first element matching the CSS selector.
func (b *ChromeDP) Click(ctx context.Context, selector string) Result {
	if err := b.run(ctx, chromedp.Click(selector, chromedp.ByQuery)); err != nil {
		return fail(ActionClick, err)
	}
	return ok(ActionClick, map[string]any{"selector": selector})
}

// Type sends text to the element matching the CSS selector.
func (b *ChromeDP) Type(ctx context.Context, selector, text string) Result {
	if err := b.run(ctx, chromedp.SendKeys(selector, text, chromedp.ByQuery)); err != nil {
		return fail(ActionType, err)
	}
	return ok(ActionType, map[string]any{"selector": selector, "text": text})
}

// Scroll scrolls the window vertically by deltaY pixels.
func (b *ChromeDP) Scroll(ctx context.Context, deltaY int) Result {
	js := fmt.Sprintf("window.scrollBy(0, %d); true", deltaY)
	var dummy bool
	if err := b.run(ctx, chromedp.Evaluate(js, &dummy)); err != nil {
		return fail(ActionScroll, err)
	}
	return ok(ActionScroll, map[string]any{"delta_y": deltaY})
}

// Screenshot captures the viewport as base64 PNG.
func (b *ChromeDP) Screenshot(ctx context.Context) Result {
	var buf []byte
	if err := b.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return fail(ActionScreenshot, err)
	}
	return ok(ActionScreenshot, map[string]any{
		"format": "png",
		"data":   base64.StdEncoding.EncodeToString(buf),
	})
}

// Extract returns the text content of the matching element, or the page
// body when selector is empty.
func (b *ChromeDP) Extract(ctx context.Context, selector string) Result {
	if selector == "" {
		selector = "body"
	}
	var text string
	if err := b.run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery)); err != nil {
		return fail(ActionExtract, err)
	}
	return ok(ActionExtract, map[string]any{"selector": selector, "text": text})
}

// Evaluate executes JavaScript in the page and returns the JSON result.
func (b *ChromeDP) Evaluate(ctx context.Context, expression string) Result {
	var value any
	if err := b.run(ctx, chromedp.Evaluate(expression, &value)); err != nil {
		return fail(ActionEvaluate, err)
	}
	return ok(ActionEvaluate, map[string]any{"expression": expression, "value": value})
}

// Close releases the tab and browser resources.
func (b *ChromeDP) Close() error {
	if b.tabCancel != nil {
		b.tabCancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
	return nil
}
