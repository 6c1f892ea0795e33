package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/ecomwatch/restock/pkg/browser"
)

// addToCartLabels are the canonical call-to-action phrasings, in
// priority order.
var addToCartLabels = []string{"add to bag", "add to cart"}

// negativePhrases signal unavailability when no call-to-action
// control can be found at all.
var negativePhrases = []string{"out of stock", "sold out", "currently unavailable"}

// Classify decides availability from page state alone. It never
// returns an error: ambiguity and probe faults both degrade to
// out-of-stock with an explanatory reason, so a bad read can only
// delay a notification, not fire a spurious one.
func Classify(ctx context.Context, page browser.Page) (bool, string) {
	control := findAddToCartControl(ctx, page)
	if control == nil {
		return classifyByBodyText(ctx, page)
	}

	enabled, err := control.Enabled(ctx)
	if err != nil {
		return false, fmt.Sprintf("error probing add-to-cart control: %v", err)
	}
	if !enabled {
		return false, "disabled"
	}

	aria, ok, err := control.Attr(ctx, "aria-disabled")
	if err != nil {
		return false, fmt.Sprintf("error probing add-to-cart control: %v", err)
	}
	if ok && strings.EqualFold(strings.TrimSpace(aria), "true") {
		return false, "aria-disabled=true"
	}
	return true, "enabled"
}

// findAddToCartControl returns the first button matching the
// highest-priority label, or nil when none match.
func findAddToCartControl(ctx context.Context, page browser.Page) browser.Element {
	els, err := page.Query(ctx, "button")
	if err != nil {
		return nil
	}
	for _, label := range addToCartLabels {
		for _, el := range els {
			text, err := el.Text(ctx)
			if err != nil {
				continue
			}
			if strings.Contains(Normalize(text), label) {
				return el
			}
		}
	}
	return nil
}

func classifyByBodyText(ctx context.Context, page browser.Page) (bool, string) {
	body, err := page.BodyText(ctx)
	if err != nil {
		return false, "no availability control found"
	}
	norm := Normalize(body)
	for _, phrase := range negativePhrases {
		if strings.Contains(norm, phrase) {
			return false, fmt.Sprintf("page text contains %q", phrase)
		}
	}
	return false, "no availability control found"
}
