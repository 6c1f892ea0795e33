package watch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ecomwatch/restock/pkg/browser"
	"github.com/ecomwatch/restock/pkg/product"
)

// cookieLabels are tried in order against visible buttons on the page.
// Matching is case-insensitive substring, one click at most.
var cookieLabels = []string{
	"Accept", "Accept All", "Allow all", "I Accept",
	"Agree", "OK", "Accept Cookies", "Allow All Cookies",
}

// OpenPage opens a fresh browser page. The watch loop calls it once
// per cycle so each check starts from a clean session.
type OpenPage func(ctx context.Context, opts browser.Options) (browser.Page, error)

// Checker runs single check cycles against a product page.
type Checker struct {
	Open OpenPage
	Cfg  Config
	Log  Logger
}

// NewChecker wires a Checker; log may be nil.
func NewChecker(open OpenPage, cfg Config, log Logger) *Checker {
	if log == nil {
		log = nopLogger{}
	}
	return &Checker{Open: open, Cfg: cfg, Log: log}
}

// CheckOnce performs one full cycle: navigate, dismiss the consent
// banner, settle, select the requested variant, classify stock. It
// always returns a usable Observation; errors inside the page are
// folded into the observation's Reason with InStock=false.
func (c *Checker) CheckOnce(ctx context.Context, t Target) Observation {
	obs := Observation{
		ResolvedURL: t.URL,
		Color:       t.Color,
		Size:        t.Size,
		CheckedAt:   time.Now().UTC(),
	}

	page, err := c.Open(ctx, c.Cfg.Browser)
	if err != nil {
		obs.Reason = "browser launch failed: " + err.Error()
		return obs
	}
	defer page.Close()

	if err := page.Navigate(ctx, t.URL, c.Cfg.NavigationTimeout); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			obs.Reason = "navigation timed out"
		} else {
			obs.Reason = "navigation failed: " + err.Error()
		}
		return obs
	}

	c.dismissCookieBanner(ctx, page)

	if !sleep(ctx, c.Cfg.SettleDelay) {
		obs.Reason = "canceled"
		return obs
	}

	if t.Color != "" {
		ok, msg := product.SelectColor(ctx, page, t.Color)
		if !ok {
			c.Log.Warnf("%s", msg)
		}
		if !sleep(ctx, c.Cfg.ClickSettleDelay) {
			obs.Reason = "canceled"
			return obs
		}
	}
	if t.Size != "" {
		ok, msg := product.SelectSize(ctx, page, t.Size)
		if !ok {
			c.Log.Warnf("%s", msg)
		}
		if !sleep(ctx, c.Cfg.ClickSettleDelay) {
			obs.Reason = "canceled"
			return obs
		}
	}

	inStock, reason := product.Classify(ctx, page)
	obs.InStock = inStock
	obs.Reason = reason
	if u, err := page.CurrentURL(ctx); err == nil && u != "" {
		obs.ResolvedURL = u
	}
	return obs
}

// dismissCookieBanner clicks the first visible button whose label
// matches a known consent phrase. Failures are logged and ignored;
// a page with no banner is the common case.
func (c *Checker) dismissCookieBanner(ctx context.Context, page browser.Page) {
	buttons, err := page.Query(ctx, "button")
	if err != nil {
		c.Log.Debugf("cookie banner scan failed: %v", err)
		return
	}
	for _, label := range cookieLabels {
		want := strings.ToLower(label)
		for _, b := range buttons {
			text, err := b.Text(ctx)
			if err != nil || !strings.Contains(strings.ToLower(text), want) {
				continue
			}
			visible, err := b.Visible(ctx)
			if err != nil || !visible {
				continue
			}
			if err := b.Click(ctx, c.Cfg.CookieTimeout); err != nil {
				c.Log.Debugf("cookie banner click failed: %v", err)
			}
			return
		}
	}
}

// sleep pauses for d unless ctx is canceled first. It reports whether
// the full pause elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
