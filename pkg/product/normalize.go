// Package product holds the DOM heuristics that read a product page:
// variant selection (color/size) and stock classification. All of it
// works against browser.Page so the markup guessing stays testable.
package product

import (
	"regexp"
	"strings"
)

var spaceRun = regexp.MustCompile(`\s+`)

// Normalize trims, lowercases, and collapses whitespace runs to a
// single space, so text matching is insensitive to incidental
// formatting differences in scraped markup.
func Normalize(s string) string {
	return spaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}
