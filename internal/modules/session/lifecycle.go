// README: Context lifespan bookkeeping between turns.
package session

import (
	"strings"

	"railbot/internal/dialog"
)

// Merge overlays the request's contexts on top of the stored ones; the
// request wins on a name collision. Names compare case-insensitively because
// the platform lowercases them between turns.
func Merge(stored, incoming []dialog.Context) []dialog.Context {
	merged := make([]dialog.Context, 0, len(stored)+len(incoming))
	for _, c := range stored {
		if _, override := find(incoming, c.Name); !override {
			merged = append(merged, c)
		}
	}
	return append(merged, incoming...)
}

// Advance produces the context bag for the next turn: every context carried
// through this turn loses one lifespan and expired ones drop out, then the
// contexts emitted by this turn are upserted with their fresh lifespans.
func Advance(active, emitted []dialog.Context) []dialog.Context {
	var next []dialog.Context
	for _, c := range active {
		if _, refreshed := find(emitted, c.Name); refreshed {
			continue
		}
		c.Lifespan--
		if c.Lifespan <= 0 {
			continue
		}
		next = append(next, c)
	}
	return append(next, emitted...)
}

func find(contexts []dialog.Context, name string) (dialog.Context, bool) {
	for _, c := range contexts {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return dialog.Context{}, false
}
