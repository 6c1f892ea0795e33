package watch

import (
	"testing"
	"time"

	"github.com/ecomwatch/restock/pkg/state"
)

func TestShouldNotify(t *testing.T) {
	wasOut := &state.Entry{InStock: false}
	wasIn := &state.Entry{InStock: true}

	cases := []struct {
		name string
		prev *state.Entry
		cur  bool
		want bool
	}{
		{"first check, in stock", nil, true, true},
		{"first check, out of stock", nil, false, false},
		{"flip out to in", wasOut, true, true},
		{"stays out", wasOut, false, false},
		{"stays in", wasIn, true, false},
		{"flip in to out", wasIn, false, false},
	}
	for _, c := range cases {
		got := ShouldNotify(c.prev, Observation{InStock: c.cur})
		if got != c.want {
			t.Fatalf("%s: ShouldNotify = %t, want %t", c.name, got, c.want)
		}
	}
}

// A sustained restock fires exactly once: after the entry is updated,
// the same observation must not notify again.
func TestShouldNotifyOncePerRestock(t *testing.T) {
	obs := Observation{InStock: true, CheckedAt: time.Now()}
	if !ShouldNotify(nil, obs) {
		t.Fatal("first in-stock observation should notify")
	}
	entry := EntryFor(obs)
	if ShouldNotify(&entry, obs) {
		t.Fatal("second identical observation should not notify")
	}
}

func TestKey(t *testing.T) {
	cases := []struct {
		target Target
		want   string
	}{
		{
			Target{URL: "https://shop.test/p/1", Color: "Triple Black", Size: "M"},
			"https://shop.test/p/1 | color=triple black | size=m",
		},
		{
			Target{URL: "https://shop.test/p/1", Color: "  Triple  BLACK ", Size: "m"},
			"https://shop.test/p/1 | color=triple black | size=m",
		},
		{
			Target{URL: "https://shop.test/p/1"},
			"https://shop.test/p/1 | color=* | size=*",
		},
		{
			Target{URL: "https://shop.test/p/1", Size: "42 2/3"},
			"https://shop.test/p/1 | color=* | size=42 2/3",
		},
	}
	for _, c := range cases {
		if got := Key(c.target); got != c.want {
			t.Fatalf("Key(%+v) = %q, want %q", c.target, got, c.want)
		}
	}
}

func TestEntryFor(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	obs := Observation{
		InStock:     true,
		Reason:      "enabled",
		ResolvedURL: "https://shop.test/p/1?variant=2",
		CheckedAt:   at,
	}

	e := EntryFor(obs)
	if !e.InStock {
		t.Fatal("InStock not carried over")
	}
	if e.LastCheckUTC != "2026-03-14 09:26:53Z" {
		t.Fatalf("wrong timestamp: %q", e.LastCheckUTC)
	}
	if e.LastReason != "enabled" || e.LastResolvedURL != "https://shop.test/p/1?variant=2" {
		t.Fatalf("fields not carried over: %+v", e)
	}
}
