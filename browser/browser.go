package browser

import (
	"context"
	"fmt"
	"sync"
)

// Action names form the fixed vocabulary of the collaborator.
const (
	ActionNavigate   = "navigate"
	ActionClick      = "click"
	ActionType       = "type"
	ActionScroll     = "scroll"
	ActionScreenshot = "screenshot"
	ActionExtract    = "extract"
	ActionEvaluate   = "evaluate"
)

// Result is the uniform return of every browser action. Error is a string
// rather than a Go error so the boundary never throws.
type Result struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(action string, data any) Result {
	return Result{Success: true, Action: action, Data: data}
}

func fail(action string, err error) Result {
	return Result{Success: false, Action: action, Error: err.Error()}
}

// Controller is the narrow interface agents and tools consume.
type Controller interface {
	Navigate(ctx context.Context, url string) Result
	Click(ctx context.Context, selector string) Result
	Type(ctx context.Context, selector, text string) Result
	Scroll(ctx context.Context, deltaY int) Result
	Screenshot(ctx context.Context) Result
	Extract(ctx context.Context, selector string) Result
	Evaluate(ctx context.Context, expression string) Result
	Close() error
}

// Fake is a deterministic in-memory Controller. It tracks the current URL
// and typed values so tests can assert on navigation without a browser.
type Fake struct {
	mu      sync.Mutex
	url     string
	typed   map[string]string
	content map[string]string // url -> page text served by Extract
	failAll bool
}

// NewFake creates a fake controller.
func NewFake() *Fake {
	return &Fake{typed: map[string]string{}, content: map[string]string{}}
}

// SetContent registers page text returned by Extract after navigating to url.
func (f *Fake) SetContent(url, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content[url] = text
}

// FailAll makes every subsequent action report failure.
func (f *Fake) FailAll(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAll = v
}

func (f *Fake) check(action string) (Result, bool) {
	if f.failAll {
		return Result{Success: false, Action: action, Error: "browser unavailable"}, false
	}
	return Result{}, true
}

// Navigate records the target URL.
func (f *Fake) Navigate(_ context.Context, url string) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, okay := f.check(ActionNavigate); !okay {
		return r
	}
	f.url = url
	return ok(ActionNavigate, map[string]any{"url": url})
}

// Click acknowledges the selector.
func (f *Fake) Click(_ context.Context, selector string) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, okay := f.check(ActionClick); !okay {
		return r
	}
	return ok(ActionClick, map[string]any{"selector": selector})
}

// Type records the typed text per selector.
func (f *Fake) Type(_ context.Context, selector, text string) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, okay := f.check(ActionType); !okay {
		return r
	}
	f.typed[selector] = text
	return ok(ActionType, map[string]any{"selector": selector, "text": text})
}

// Scroll acknowledges the scroll delta.
func (f *Fake) Scroll(_ context.Context, deltaY int) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, okay := f.check(ActionScroll); !okay {
		return r
	}
	return ok(ActionScroll, map[string]any{"delta_y": deltaY})
}

// Screenshot returns a placeholder payload.
func (f *Fake) Screenshot(_ context.Context) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, okay := f.check(ActionScreenshot); !okay {
		return r
	}
	return ok(ActionScreenshot, map[string]any{"url": f.url, "format": "png"})
}

// Extract returns the registered content for the current URL.
func (f *Fake) Extract(_ context.Context, selector string) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, okay := f.check(ActionExtract); !okay {
		return r
	}
	text, found := f.content[f.url]
	if !found {
		return fail(ActionExtract, fmt.Errorf("no content for %q", f.url))
	}
	return ok(ActionExtract, map[string]any{"selector": selector, "text": text})
}

// Evaluate echoes the expression.
func (f *Fake) Evaluate(_ context.Context, expression string) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, okay := f.check(ActionEvaluate); !okay {
		return r
	}
	return ok(ActionEvaluate, map[string]any{"expression": expression, "value": nil})
}

// CurrentURL returns the last navigated URL.
func (f *Fake) CurrentURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.url
}

// Close is a no-op.
func (f *Fake) Close() error { return nil }
