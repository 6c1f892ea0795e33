package product

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ecomwatch/restock/pkg/browser"
)

// clickTimeout bounds each individual variant-selection click.
const clickTimeout = 2 * time.Second

// Variant selection runs a fixed priority list of strategies against
// untrusted markup. Each strategy is total: browser faults become a
// skipped candidate, never an aborted poll. First success wins.

// SelectColor tries to put the page into the desired color variant.
// Failure is not fatal; the caller keeps polling whatever variant the
// page is showing.
func SelectColor(ctx context.Context, page browser.Page, color string) (bool, string) {
	target := Normalize(color)

	strategies := []func(context.Context, browser.Page, string) (bool, string){
		colorByImageAlt,
		colorByVisibleText,
	}
	for _, strategy := range strategies {
		if ok, msg := strategy(ctx, page, target); ok {
			return true, msg
		}
	}
	return false, fmt.Sprintf("could not select color %q; site markup may have changed", color)
}

// colorByImageAlt scans swatch thumbnails for a matching alt text.
// The image itself is often not the clickable element, so a failed
// click falls back to the nearest button/link ancestor.
func colorByImageAlt(ctx context.Context, page browser.Page, target string) (bool, string) {
	imgs, err := page.Query(ctx, "img[alt]")
	if err != nil {
		return false, ""
	}
	for _, img := range imgs {
		alt, ok, err := img.Attr(ctx, "alt")
		if err != nil || !ok {
			continue
		}
		if !strings.Contains(Normalize(alt), target) {
			continue
		}
		if err := img.Click(ctx, clickTimeout); err == nil {
			return true, fmt.Sprintf("selected color via image alt %q", alt)
		}
		if err := img.ClickNearestClickable(ctx, clickTimeout); err == nil {
			return true, fmt.Sprintf("selected color via ancestor of image alt %q", alt)
		}
	}
	return false, ""
}

func colorByVisibleText(ctx context.Context, page browser.Page, target string) (bool, string) {
	els, err := page.Query(ctx, "button, a")
	if err != nil {
		return false, ""
	}
	for _, el := range els {
		text, err := el.Text(ctx)
		if err != nil {
			continue
		}
		if !strings.Contains(Normalize(text), target) {
			continue
		}
		if err := el.Click(ctx, clickTimeout); err != nil {
			continue
		}
		return true, "selected color via button text"
	}
	return false, ""
}

// SelectSize tries to activate the desired size chip. A miss across
// all strategies usually means that size is itself out of stock.
func SelectSize(ctx context.Context, page browser.Page, size string) (bool, string) {
	token := strings.ToUpper(strings.TrimSpace(size))
	norm := Normalize(token)

	exact := func(text string) bool { return Normalize(text) == norm }
	contains := func(text string) bool { return strings.Contains(Normalize(text), norm) }

	strategies := []struct {
		selector string
		match    func(string) bool
	}{
		{"button", exact},
		{"button", contains},
		{"[role='button']", contains},
	}

	for _, s := range strategies {
		if ok, msg := clickFirstEnabled(ctx, page, s.selector, s.match, token); ok {
			return true, msg
		}
	}
	return false, fmt.Sprintf("could not select size %q; it may be out of stock or markup changed", token)
}

// clickFirstEnabled clicks the first visible, enabled element whose
// text satisfies match. Disabled size chips are exactly how the site
// marks sold-out sizes, so they are skipped, not errors.
func clickFirstEnabled(ctx context.Context, page browser.Page, selector string, match func(string) bool, token string) (bool, string) {
	els, err := page.Query(ctx, selector)
	if err != nil {
		return false, ""
	}
	for _, el := range els {
		visible, err := el.Visible(ctx)
		if err != nil || !visible {
			continue
		}
		text, err := el.Text(ctx)
		if err != nil || !match(text) {
			continue
		}
		if elementDisabled(ctx, el) {
			continue
		}
		if err := el.Click(ctx, clickTimeout); err != nil {
			continue
		}
		return true, fmt.Sprintf("selected size %s", token)
	}
	return false, ""
}

// elementDisabled checks both the disabled attribute and the
// aria-disabled="true" convention some sites use instead.
func elementDisabled(ctx context.Context, el browser.Element) bool {
	if _, ok, err := el.Attr(ctx, "disabled"); err == nil && ok {
		return true
	}
	aria, _, err := el.Attr(ctx, "aria-disabled")
	return err == nil && strings.EqualFold(strings.TrimSpace(aria), "true")
}
