// Package notify delivers restock alerts over Discord webhooks and SMTP.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/ecomwatch/restock/pkg/watch"
)

// Notifier delivers a single alert message to one channel.
type Notifier interface {
	// Name identifies the channel in logs, e.g. "discord".
	Name() string
	Send(ctx context.Context, subject, body string) error
}

// FormatRestockMessage renders the alert body for a restock transition.
func FormatRestockMessage(t watch.Target, obs watch.Observation) string {
	var b strings.Builder
	b.WriteString("RESTOCK DETECTED!\n")
	fmt.Fprintf(&b, "Product: %s\n", t.URL)
	fmt.Fprintf(&b, "Open: %s\n", obs.ResolvedURL)
	fmt.Fprintf(&b, "Color: %s | Size: %s\n", orAny(t.Color), orAny(t.Size))
	fmt.Fprintf(&b, "Signal: %s\n", obs.Reason)
	fmt.Fprintf(&b, "Time: %s", obs.CheckedAt.UTC().Format(watch.TimeLayout))
	return b.String()
}

func orAny(s string) string {
	if s == "" {
		return "(any)"
	}
	return s
}
