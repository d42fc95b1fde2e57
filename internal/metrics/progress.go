// Package metrics holds the derived-value computations behind the dashboard:
// initiative progress roll-up, risk classification, watchlist ordering and
// capacity aggregation. Everything here is a pure function over in-memory
// slices; persistence stays in the store.
package metrics

import "github.com/sadopc/manageros/internal/store"

// Progress rolls up an initiative's completion from its activities:
// round(100 * done / total) over non-archived children, 0 when there are
// none. The store persists the same value on every activity mutation; the
// dashboard calls this directly so the two can never disagree.
func Progress(initiativeID string, activities []store.Activity) int {
	total, done := 0, 0
	for _, a := range activities {
		if a.InitiativeID != initiativeID || a.Archived {
			continue
		}
		total++
		if a.Status == store.StatusDone {
			done++
		}
	}
	if total == 0 {
		return 0
	}
	return (done*100 + total/2) / total
}
