// Package browser defines the minimal page capability surface the
// watcher consumes from a real browser, plus a chromedp-backed
// implementation. Everything above this package works against the
// interfaces, so the DOM heuristics stay testable without Chrome.
package browser

import (
	"context"
	"time"
)

// Element is a handle to a single DOM element on a live page. Handles
// can go stale after the page re-renders; callers re-query rather
// than holding elements across clicks.
type Element interface {
	// Text returns the rendered text content of the element.
	Text(ctx context.Context) (string, error)
	// Attr returns the attribute value and whether it is present.
	Attr(ctx context.Context, name string) (string, bool, error)
	Visible(ctx context.Context) (bool, error)
	Enabled(ctx context.Context) (bool, error)
	// Click clicks the element, bounded by timeout.
	Click(ctx context.Context, timeout time.Duration) error
	// ClickNearestClickable clicks the element itself when it is a
	// button or link, otherwise its nearest button/link ancestor.
	ClickNearestClickable(ctx context.Context, timeout time.Duration) error
}

// Page is one live browser tab, scoped to a single poll cycle.
type Page interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	CurrentURL(ctx context.Context) (string, error)
	// BodyText returns the full visible text of the page body.
	BodyText(ctx context.Context) (string, error)
	// Query returns all elements matching a CSS selector. A selector
	// with no matches returns an empty slice, not an error.
	Query(ctx context.Context, selector string) ([]Element, error)
	Close() error
}
