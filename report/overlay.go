/*
overlay.go - Manual adjustment overlay

PURPOSE:
  Layers manual billing adjustments onto an aggregated grid. Each
  adjustment names a (year, month, billing-type) bucket; its signed
  amount is added to that cell, the cell's period total, and the grand
  total.

OUT-OF-RANGE ADJUSTMENTS:
  An adjustment whose bucket is not in the grid (non-monthly
  granularity, a year outside the requested window, or a dimension
  without billing-type rows) is skipped. This is a known, accepted
  limitation of the overlay, not an error; changing it would alter
  observable totals. Skips are logged so that a data-entry mistake (an
  adjustment dated to a year nobody reports on) stays discoverable.

MOVE SEMANTICS:
  The overlay has none. "Move an amount between periods" is expressed
  by the caller as two compensating adjustments of the same type; see
  api/handlers.go.
*/
package report

import (
	"log"

	"github.com/warp/caseflow/cases"
)

// ApplyAdjustments adds every applicable adjustment into the grid and
// returns how many were applied. Application order does not matter;
// the overlay only ever adds.
func ApplyAdjustments(g *Grid, adjustments []cases.Adjustment) int {
	applied := 0
	for _, adj := range adjustments {
		if apply(g, adj) {
			applied++
		} else {
			log.Printf("[Overlay] Skipping adjustment %s: no %q bucket for %d-%02d in %s/%s grid",
				adj.ID, adj.BillingType, adj.Year, adj.Month, g.Granularity, g.Dimension)
		}
	}
	return applied
}

func apply(g *Grid, adj cases.Adjustment) bool {
	// Adjustments are keyed by calendar month; only a monthly grid has
	// a bucket they can name.
	if g.Granularity != Monthly || !adj.Valid() {
		return false
	}
	category := cases.CanonicalBillingType(adj.BillingType)
	if category == "" {
		return false
	}
	key := PeriodKey{Year: adj.Year, Index: adj.Month}
	if !g.HasPeriod(key) {
		return false
	}
	return g.add(category, key, adj.Amount)
}
