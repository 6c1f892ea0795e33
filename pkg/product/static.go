package product

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// ClassifyStatic applies the same decision order as Classify to a
// parsed HTML document, preceded by a JSON-LD availability probe.
// It exists for environments without a browser; stock state rendered
// client-side is invisible to it, so results are best-effort.
func ClassifyStatic(doc *goquery.Document) (bool, string) {
	if inStock, reason, ok := classifyByJSONLD(doc); ok {
		return inStock, reason
	}

	if control := findStaticControl(doc); control != nil {
		if _, ok := control.Attr("disabled"); ok {
			return false, "disabled"
		}
		if aria, ok := control.Attr("aria-disabled"); ok && strings.EqualFold(strings.TrimSpace(aria), "true") {
			return false, "aria-disabled=true"
		}
		return true, "enabled"
	}

	norm := Normalize(doc.Find("body").Text())
	for _, phrase := range negativePhrases {
		if strings.Contains(norm, phrase) {
			return false, fmt.Sprintf("page text contains %q", phrase)
		}
	}
	return false, "no availability control found"
}

func findStaticControl(doc *goquery.Document) *goquery.Selection {
	var control *goquery.Selection
	buttons := doc.Find("button")
	for _, label := range addToCartLabels {
		buttons.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if strings.Contains(Normalize(s.Text()), label) {
				control = s
				return false
			}
			return true
		})
		if control != nil {
			break
		}
	}
	return control
}

// classifyByJSONLD looks for a schema.org offers.availability value
// in ld+json blocks, the one stock signal many storefronts still
// render server-side.
func classifyByJSONLD(doc *goquery.Document) (inStock bool, reason string, found bool) {
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := s.Text()
		if !gjson.Valid(raw) {
			return true
		}
		availability := firstAvailability(gjson.Parse(raw))
		if availability == "" {
			return true
		}
		found = true
		inStock = strings.EqualFold(availability, "instock")
		reason = fmt.Sprintf("json-ld offers.availability=%s", availability)
		return false
	})
	return inStock, reason, found
}

// firstAvailability walks a JSON-LD document, which may be a single
// object, an array, or an @graph wrapper, and returns the first
// offers.availability value with any URL prefix stripped.
func firstAvailability(v gjson.Result) string {
	if v.IsArray() {
		for _, item := range v.Array() {
			if a := firstAvailability(item); a != "" {
				return a
			}
		}
		return ""
	}
	for _, path := range []string{"offers.availability", "offers.0.availability"} {
		if r := v.Get(path); r.Exists() {
			a := r.String()
			if i := strings.LastIndex(a, "/"); i >= 0 {
				a = a[i+1:]
			}
			return a
		}
	}
	if g := v.Get("@graph"); g.Exists() {
		return firstAvailability(g)
	}
	return ""
}
