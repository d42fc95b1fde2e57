package metrics

import (
	"math"
	"time"

	"github.com/sadopc/manageros/internal/store"
)

// DefaultDueSoonDays is the look-ahead window for the due-soon flag.
const DefaultDueSoonDays = 7

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	return t, err == nil
}

// IsOverdue reports whether an entity's end date has passed. Done entities
// are never overdue; a missing or malformed date never is either.
func IsOverdue(endDate string, status store.Status, now time.Time) bool {
	if status == store.StatusDone {
		return false
	}
	end, ok := parseDate(endDate)
	return ok && end.Before(now)
}

// IsDueSoon reports whether the end date falls within the next windowDays
// days. The day count is the ceiling of the remaining time, so an end date
// of today counts; anything a full day or more in the past does not.
func IsDueSoon(endDate string, status store.Status, now time.Time, windowDays int) bool {
	if status == store.StatusDone {
		return false
	}
	end, ok := parseDate(endDate)
	if !ok {
		return false
	}
	days := int(math.Ceil(end.Sub(now).Hours() / 24))
	return days >= 0 && days <= windowDays
}

// KPIs are the dashboard headline counts, all over non-archived initiatives.
type KPIs struct {
	Active  int
	Blocked int
	Overdue int
	DueSoon int
}

func ComputeKPIs(initiatives []store.Initiative, now time.Time, windowDays int) KPIs {
	var k KPIs
	for _, i := range initiatives {
		if i.Archived {
			continue
		}
		k.Active++
		if i.Status == store.StatusBlocked {
			k.Blocked++
		}
		if IsOverdue(i.EndDate, i.Status, now) {
			k.Overdue++
		}
		if IsDueSoon(i.EndDate, i.Status, now, windowDays) {
			k.DueSoon++
		}
	}
	return k
}
