// Package watch drives one full availability check per call and
// decides, from the previous persisted record, whether a restock
// notification should fire.
package watch

import (
	"time"

	"github.com/ecomwatch/restock/pkg/browser"
)

// TimeLayout is the UTC timestamp format used in state files and
// notification messages.
const TimeLayout = "2006-01-02 15:04:05Z"

// Target identifies what is being watched. Color and Size are
// optional; empty means "any variant".
type Target struct {
	URL   string
	Color string
	Size  string
}

// Observation is the result of one poll cycle. Color and Size echo
// what was requested, not what the page confirmed; an Observation is
// never mutated after the cycle that produced it.
type Observation struct {
	InStock     bool
	Reason      string
	ResolvedURL string
	Color       string
	Size        string
	CheckedAt   time.Time
}

// Config carries every tunable of a check cycle. It is assembled
// once at startup and passed by value from then on.
type Config struct {
	// NavigationTimeout bounds the initial page load.
	NavigationTimeout time.Duration
	// SettleDelay is the fixed pause after navigation, standing in
	// for "wait for client-side rendering to finish".
	SettleDelay time.Duration
	// ClickSettleDelay is the shorter pause after each variant click.
	ClickSettleDelay time.Duration
	// CookieTimeout caps the consent-banner dismissal click.
	CookieTimeout time.Duration

	Browser browser.Options
}

// DefaultConfig returns the tuning the watcher ships with.
func DefaultConfig() Config {
	return Config{
		NavigationTimeout: 45 * time.Second,
		SettleDelay:       1500 * time.Millisecond,
		ClickSettleDelay:  800 * time.Millisecond,
		CookieTimeout:     1500 * time.Millisecond,
	}
}

// Logger abstracts logging so callers can use logrus, stdlib log, or
// any other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}
