// Package browsertest provides an in-memory browser.Page for
// exercising DOM heuristics in tests without launching Chrome.
package browsertest

import (
	"context"
	"time"

	"github.com/ecomwatch/restock/pkg/browser"
)

// Element is a scriptable fake element. Zero value is a visible,
// enabled element with no text or attributes.
type Element struct {
	TextContent string
	Attrs       map[string]string
	Hidden      bool

	TextErr          error
	EnabledErr       error
	ClickErr         error
	AncestorClickErr error

	Clicks         int
	AncestorClicks int
}

var _ browser.Element = (*Element)(nil)

func (e *Element) Text(_ context.Context) (string, error) {
	return e.TextContent, e.TextErr
}

func (e *Element) Attr(_ context.Context, name string) (string, bool, error) {
	v, ok := e.Attrs[name]
	return v, ok, nil
}

func (e *Element) Visible(_ context.Context) (bool, error) {
	return !e.Hidden, nil
}

// Enabled mirrors a real driver: the disabled attribute makes the
// element not enabled. aria-disabled is left to the caller to check.
func (e *Element) Enabled(_ context.Context) (bool, error) {
	if e.EnabledErr != nil {
		return false, e.EnabledErr
	}
	_, disabled := e.Attrs["disabled"]
	return !disabled, nil
}

func (e *Element) Click(_ context.Context, _ time.Duration) error {
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.Clicks++
	return nil
}

func (e *Element) ClickNearestClickable(_ context.Context, _ time.Duration) error {
	if e.AncestorClickErr != nil {
		return e.AncestorClickErr
	}
	e.AncestorClicks++
	return nil
}

// Page serves canned elements per selector.
type Page struct {
	URL        string
	Body       string
	Selections map[string][]*Element

	NavErr   error
	QueryErr error

	Navigations []string
	Closed      bool
}

var _ browser.Page = (*Page)(nil)

func (p *Page) Navigate(_ context.Context, url string, _ time.Duration) error {
	if p.NavErr != nil {
		return p.NavErr
	}
	p.Navigations = append(p.Navigations, url)
	if p.URL == "" {
		p.URL = url
	}
	return nil
}

func (p *Page) CurrentURL(_ context.Context) (string, error) {
	return p.URL, nil
}

func (p *Page) BodyText(_ context.Context) (string, error) {
	return p.Body, nil
}

func (p *Page) Query(_ context.Context, selector string) ([]browser.Element, error) {
	if p.QueryErr != nil {
		return nil, p.QueryErr
	}
	els := p.Selections[selector]
	out := make([]browser.Element, 0, len(els))
	for _, e := range els {
		out = append(out, e)
	}
	return out, nil
}

func (p *Page) Close() error {
	p.Closed = true
	return nil
}
