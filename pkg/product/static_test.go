package product

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func staticDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestClassifyStaticJSONLDInStock(t *testing.T) {
	doc := staticDoc(t, `<html><head>
<script type="application/ld+json">
{"@type":"Product","offers":{"availability":"https://schema.org/InStock","price":"120"}}
</script>
</head><body><button disabled>Add to Bag</button></body></html>`)

	inStock, reason := ClassifyStatic(doc)
	if !inStock {
		t.Fatal("expected JSON-LD InStock to win over the disabled button")
	}
	if reason != "json-ld offers.availability=InStock" {
		t.Fatalf("wrong reason: %q", reason)
	}
}

func TestClassifyStaticJSONLDOutOfStock(t *testing.T) {
	doc := staticDoc(t, `<html><head>
<script type="application/ld+json">
[{"@type":"BreadcrumbList"},{"@type":"Product","offers":[{"availability":"http://schema.org/OutOfStock"}]}]
</script>
</head><body><button>Add to Bag</button></body></html>`)

	inStock, reason := ClassifyStatic(doc)
	if inStock {
		t.Fatal("expected JSON-LD OutOfStock to win over the enabled button")
	}
	if reason != "json-ld offers.availability=OutOfStock" {
		t.Fatalf("wrong reason: %q", reason)
	}
}

func TestClassifyStaticDisabledButton(t *testing.T) {
	doc := staticDoc(t, `<html><body><button disabled>Add to Cart</button></body></html>`)

	inStock, reason := ClassifyStatic(doc)
	if inStock || reason != "disabled" {
		t.Fatalf("got in_stock=%t reason=%q, want false/disabled", inStock, reason)
	}
}

func TestClassifyStaticAriaDisabled(t *testing.T) {
	doc := staticDoc(t, `<html><body><button aria-disabled="true">Add to Bag</button></body></html>`)

	inStock, reason := ClassifyStatic(doc)
	if inStock || reason != "aria-disabled=true" {
		t.Fatalf("got in_stock=%t reason=%q, want false/aria-disabled=true", inStock, reason)
	}
}

func TestClassifyStaticNegativePhrase(t *testing.T) {
	doc := staticDoc(t, `<html><body><p>This colorway is Sold Out.</p></body></html>`)

	inStock, reason := ClassifyStatic(doc)
	if inStock {
		t.Fatal("expected out of stock")
	}
	if reason != `page text contains "sold out"` {
		t.Fatalf("wrong reason: %q", reason)
	}
}

func TestClassifyStaticDefault(t *testing.T) {
	doc := staticDoc(t, `<html><body><p>Nothing of interest.</p></body></html>`)

	inStock, reason := ClassifyStatic(doc)
	if inStock || reason != "no availability control found" {
		t.Fatalf("got in_stock=%t reason=%q, want conservative default", inStock, reason)
	}
}
