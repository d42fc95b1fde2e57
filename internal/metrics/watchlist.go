package metrics

import (
	"sort"

	"github.com/sadopc/manageros/internal/store"
)

// sort key for a possibly-missing date: missing dates go last.
const missingDate = "9999-12-31"

func dateOrMax(s string) string {
	if _, ok := parseDate(s); !ok {
		return missingDate
	}
	return s
}

// FilterWatchlist returns the initiatives shown on the dashboard watchlist.
// teamID filters by owning team when not "all"; archived initiatives are
// hidden unless showArchived is set.
func FilterWatchlist(initiatives []store.Initiative, teamID string, showArchived bool) []store.Initiative {
	var out []store.Initiative
	for _, i := range initiatives {
		if i.Archived && !showArchived {
			continue
		}
		if teamID != "all" && i.TeamID != teamID {
			continue
		}
		out = append(out, i)
	}
	return out
}

// SortWatchlist orders initiatives by urgency: blocked ones first, then P0s,
// then by end date ascending with undated items last. The sort is stable so
// equal items keep their incoming order.
func SortWatchlist(initiatives []store.Initiative) {
	sort.SliceStable(initiatives, func(a, b int) bool {
		ia, ib := initiatives[a], initiatives[b]
		ba := ia.Status == store.StatusBlocked
		bb := ib.Status == store.StatusBlocked
		if ba != bb {
			return ba
		}
		pa := ia.Priority == store.PriorityP0
		pb := ib.Priority == store.PriorityP0
		if pa != pb {
			return pa
		}
		return dateOrMax(ia.EndDate) < dateOrMax(ib.EndDate)
	})
}

// FilterNextActions returns the open activities for the dashboard next-actions
// panel. ownerID narrows to one owner when not "all"; finished and archived
// activities are always excluded.
func FilterNextActions(activities []store.Activity, ownerID string) []store.Activity {
	var out []store.Activity
	for _, a := range activities {
		if a.Archived || a.Status == store.StatusDone {
			continue
		}
		if ownerID != "all" && a.OwnerID != ownerID {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ActivitySortMode selects the ordering for activity lists.
type ActivitySortMode int

const (
	SortByPriority ActivitySortMode = iota
	SortByStartDate
	SortByEndDate
)

// SortActivities orders activities by the given mode. Priority sorts P0
// before P3; date modes sort ascending with undated items last.
func SortActivities(activities []store.Activity, mode ActivitySortMode) {
	sort.SliceStable(activities, func(a, b int) bool {
		aa, ab := activities[a], activities[b]
		switch mode {
		case SortByStartDate:
			return dateOrMax(aa.StartDate) < dateOrMax(ab.StartDate)
		case SortByEndDate:
			return dateOrMax(aa.EndDate) < dateOrMax(ab.EndDate)
		default:
			return aa.Priority < ab.Priority
		}
	})
}
