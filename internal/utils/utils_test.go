package utils

import "testing"

func TestSiteLabel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.hollisterco.com/shop/us/p/tee-123", "hollisterco.com"},
		{"https://shop.example.co.uk/p/1", "example.co.uk"},
		{"http://localhost:9222/page", "localhost"},
		{"not a url", "not a url"},
	}
	for _, c := range cases {
		if got := SiteLabel(c.in); got != c.want {
			t.Fatalf("SiteLabel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
