package watch

import (
	"fmt"

	"github.com/ecomwatch/restock/pkg/product"
	"github.com/ecomwatch/restock/pkg/state"
)

// Key derives the state-store key for a target. Color and size are
// normalized so that "Triple Black" and " triple  black " map to the
// same entry; an unset variant is recorded as "*".
func Key(t Target) string {
	return fmt.Sprintf("%s | color=%s | size=%s", t.URL, keyPart(t.Color), keyPart(t.Size))
}

func keyPart(v string) string {
	n := product.Normalize(v)
	if n == "" {
		return "*"
	}
	return n
}

// ShouldNotify reports whether the current observation is a restock
// transition: the item is in stock now and was not in stock at the
// previous check (or was never checked before). A repeated in-stock
// result does not notify again until the item goes out of stock first.
func ShouldNotify(prev *state.Entry, cur Observation) bool {
	if !cur.InStock {
		return false
	}
	return prev == nil || !prev.InStock
}

// EntryFor converts an observation into the persisted record for its key.
func EntryFor(obs Observation) state.Entry {
	return state.Entry{
		InStock:         obs.InStock,
		LastCheckUTC:    obs.CheckedAt.UTC().Format(TimeLayout),
		LastReason:      obs.Reason,
		LastResolvedURL: obs.ResolvedURL,
	}
}
