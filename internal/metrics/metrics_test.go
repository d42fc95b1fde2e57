package metrics

import (
	"testing"
	"time"

	"github.com/sadopc/manageros/internal/store"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestProgress(t *testing.T) {
	acts := func(statuses ...store.Status) []store.Activity {
		var out []store.Activity
		for _, s := range statuses {
			out = append(out, store.Activity{InitiativeID: "i1", Status: s})
		}
		return out
	}

	tests := []struct {
		name string
		in   []store.Activity
		want int
	}{
		{"no activities", nil, 0},
		{"none done", acts(store.StatusInProgress, store.StatusBlocked), 0},
		{"all done", acts(store.StatusDone, store.StatusDone), 100},
		{"one of three rounds up", acts(store.StatusDone, store.StatusInProgress, store.StatusNotStarted), 33},
		{"two of three rounds up", acts(store.StatusDone, store.StatusDone, store.StatusNotStarted), 67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress("i1", tt.in); got != tt.want {
				t.Errorf("Progress() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProgressIgnoresArchivedAndOtherInitiatives(t *testing.T) {
	in := []store.Activity{
		{InitiativeID: "i1", Status: store.StatusDone},
		{InitiativeID: "i1", Status: store.StatusDone, Archived: true},
		{InitiativeID: "i2", Status: store.StatusNotStarted},
		{InitiativeID: "i1", Status: store.StatusNotStarted},
	}
	if got := Progress("i1", in); got != 50 {
		t.Errorf("Progress() = %d, want 50", got)
	}
}

func TestIsOverdue(t *testing.T) {
	now := day("2026-03-15")
	tests := []struct {
		name   string
		end    string
		status store.Status
		want   bool
	}{
		{"past date open", "2026-03-10", store.StatusInProgress, true},
		{"past date done", "2026-03-10", store.StatusDone, false},
		{"future date", "2026-03-20", store.StatusInProgress, false},
		{"no date", "", store.StatusBlocked, false},
		{"garbage date", "soon", store.StatusInProgress, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOverdue(tt.end, tt.status, now); got != tt.want {
				t.Errorf("IsOverdue(%q) = %v, want %v", tt.end, got, tt.want)
			}
		})
	}
}

func TestIsDueSoon(t *testing.T) {
	now := day("2026-03-15")
	tests := []struct {
		name   string
		end    string
		status store.Status
		want   bool
	}{
		{"today", "2026-03-15", store.StatusInProgress, true},
		{"window edge", "2026-03-22", store.StatusInProgress, true},
		{"past window", "2026-03-23", store.StatusInProgress, false},
		{"yesterday", "2026-03-14", store.StatusInProgress, false},
		{"done", "2026-03-16", store.StatusDone, false},
		{"no date", "", store.StatusInProgress, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDueSoon(tt.end, tt.status, now, DefaultDueSoonDays); got != tt.want {
				t.Errorf("IsDueSoon(%q) = %v, want %v", tt.end, got, tt.want)
			}
		})
	}
}

func TestOverdueTodayIsAlsoDueSoon(t *testing.T) {
	// An end date equal to today, with a clock past midnight, counts on
	// both lists.
	now := day("2026-03-15").Add(9 * time.Hour)
	if !IsOverdue("2026-03-15", store.StatusInProgress, now) {
		t.Error("expected end date of today to be overdue")
	}
	if !IsDueSoon("2026-03-15", store.StatusInProgress, now, DefaultDueSoonDays) {
		t.Error("expected end date of today to be due soon")
	}
}

func TestComputeKPIs(t *testing.T) {
	now := day("2026-03-15")
	in := []store.Initiative{
		{Status: store.StatusInProgress, EndDate: "2026-03-10"},
		{Status: store.StatusBlocked, EndDate: "2026-03-18"},
		{Status: store.StatusDone, EndDate: "2026-03-01"},
		{Status: store.StatusInProgress, EndDate: "2026-03-10", Archived: true},
	}
	k := ComputeKPIs(in, now, DefaultDueSoonDays)
	if k.Active != 3 {
		t.Errorf("Active = %d, want 3", k.Active)
	}
	if k.Blocked != 1 {
		t.Errorf("Blocked = %d, want 1", k.Blocked)
	}
	if k.Overdue != 1 {
		t.Errorf("Overdue = %d, want 1", k.Overdue)
	}
	if k.DueSoon != 1 {
		t.Errorf("DueSoon = %d, want 1", k.DueSoon)
	}
}

func TestSortWatchlist(t *testing.T) {
	in := []store.Initiative{
		{ID: "later", Status: store.StatusInProgress, Priority: store.PriorityP2, EndDate: "2026-06-01"},
		{ID: "undated", Status: store.StatusInProgress, Priority: store.PriorityP1},
		{ID: "p0", Status: store.StatusInProgress, Priority: store.PriorityP0, EndDate: "2026-07-01"},
		{ID: "blocked", Status: store.StatusBlocked, Priority: store.PriorityP3},
		{ID: "sooner", Status: store.StatusInProgress, Priority: store.PriorityP2, EndDate: "2026-04-01"},
	}
	SortWatchlist(in)
	want := []string{"blocked", "p0", "sooner", "later", "undated"}
	for i, w := range want {
		if in[i].ID != w {
			t.Errorf("position %d = %s, want %s", i, in[i].ID, w)
		}
	}
}

func TestFilterWatchlist(t *testing.T) {
	in := []store.Initiative{
		{ID: "a", TeamID: "t1"},
		{ID: "b", TeamID: "t2"},
		{ID: "c", TeamID: "t1", Archived: true},
	}
	got := FilterWatchlist(in, "t1", false)
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("FilterWatchlist(t1) = %v", got)
	}
	if got := FilterWatchlist(in, "all", true); len(got) != 3 {
		t.Errorf("expected all three with archived shown, got %d", len(got))
	}
}

func TestFilterNextActions(t *testing.T) {
	in := []store.Activity{
		{ID: "open", OwnerID: "me", Status: store.StatusInProgress},
		{ID: "done", OwnerID: "me", Status: store.StatusDone},
		{ID: "other", OwnerID: "alice", Status: store.StatusNotStarted},
		{ID: "gone", OwnerID: "me", Status: store.StatusBlocked, Archived: true},
	}
	got := FilterNextActions(in, "me")
	if len(got) != 1 || got[0].ID != "open" {
		t.Errorf("FilterNextActions(me) = %v", got)
	}
	if got := FilterNextActions(in, "all"); len(got) != 2 {
		t.Errorf("expected two open activities for all owners, got %d", len(got))
	}
}

func TestSortActivities(t *testing.T) {
	in := []store.Activity{
		{ID: "p2", Priority: store.PriorityP2, StartDate: "2026-01-05", EndDate: ""},
		{ID: "p0", Priority: store.PriorityP0, StartDate: "", EndDate: "2026-02-01"},
		{ID: "p1", Priority: store.PriorityP1, StartDate: "2026-01-01", EndDate: "2026-01-15"},
	}

	byPriority := append([]store.Activity(nil), in...)
	SortActivities(byPriority, SortByPriority)
	if byPriority[0].ID != "p0" || byPriority[2].ID != "p2" {
		t.Errorf("priority order wrong: %v", byPriority)
	}

	byStart := append([]store.Activity(nil), in...)
	SortActivities(byStart, SortByStartDate)
	if byStart[0].ID != "p1" || byStart[2].ID != "p0" {
		t.Errorf("start date order wrong, missing dates should sort last: %v", byStart)
	}

	byEnd := append([]store.Activity(nil), in...)
	SortActivities(byEnd, SortByEndDate)
	if byEnd[0].ID != "p1" || byEnd[2].ID != "p2" {
		t.Errorf("end date order wrong, missing dates should sort last: %v", byEnd)
	}
}

func TestCapacityCell(t *testing.T) {
	in := []store.CapacityAssignment{
		{ID: "1", PersonID: "me", InitiativeID: "i1", Year: 2026, Month: 3, Percentage: 50},
		{ID: "2", PersonID: "me", InitiativeID: "i2", Year: 2026, Month: 3, Percentage: 30},
		{ID: "3", PersonID: "me", InitiativeID: "i1", Year: 2026, Month: 4, Percentage: 80},
		{ID: "4", PersonID: "alice", InitiativeID: "i1", Year: 2026, Month: 3, Percentage: 100},
		{ID: "5", PersonID: "me", InitiativeID: "i1", Year: 2026, Month: 3, Percentage: 50},
	}
	cell := AssignmentsForCell(in, "me", 2026, 3)
	if len(cell) != 3 {
		t.Fatalf("expected 3 assignments in cell, got %d", len(cell))
	}
	// duplicates of the same initiative stay as separate rows, in order
	if cell[0].ID != "1" || cell[1].ID != "2" || cell[2].ID != "5" {
		t.Errorf("cell order wrong: %v", cell)
	}
	if got := TotalPercentage(cell); got != 130 {
		t.Errorf("TotalPercentage() = %d, want 130", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		total int
		want  Allocation
	}{
		{0, Unallocated},
		{40, Partial},
		{100, Full},
		{101, Over},
	}
	for _, tt := range tests {
		if got := Classify(tt.total); got != tt.want {
			t.Errorf("Classify(%d) = %v, want %v", tt.total, got, tt.want)
		}
	}
}
