package report

import (
	"testing"
	"time"

	"github.com/sadopc/manageros/internal/store"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func logAt(id string, age time.Duration, msg string) store.ActivityLog {
	return store.ActivityLog{ID: id, CreatedAt: testNow.Add(-age), Message: msg}
}

func TestBuildDoneWindow(t *testing.T) {
	acts := []store.Activity{
		{ID: "a1", InitiativeID: "i1", Title: "Ship it", Status: store.StatusDone},
	}
	logs := map[string][]store.ActivityLog{
		"a1": {
			logAt("l1", 2*time.Hour, "deployed"),
			logAt("l2", 30*time.Hour, "old news"),
		},
	}
	rpt := Build(testNow, []store.Initiative{{ID: "i1", Title: "Launch"}}, acts, logs, nil, nil)
	if len(rpt.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(rpt.Blocks))
	}
	rows := rpt.Blocks[0].Rows
	if len(rows) != 1 {
		t.Fatalf("expected 1 row (only the log inside 24h), got %d", len(rows))
	}
	r := rows[0]
	if r.Message != "deployed" || r.StatusLabel != "Completed" || r.Severity != SeverityGreen {
		t.Errorf("unexpected row: %+v", r)
	}
}

func TestBuildDoneNoRecentLogsOmitsActivity(t *testing.T) {
	acts := []store.Activity{
		{ID: "a1", InitiativeID: "i1", Title: "Stale", Status: store.StatusDone},
	}
	logs := map[string][]store.ActivityLog{
		"a1": {logAt("l1", 30*time.Hour, "too old")},
	}
	rpt := Build(testNow, []store.Initiative{{ID: "i1"}}, acts, logs, nil, nil)
	if len(rpt.Blocks[0].Rows) != 0 {
		t.Errorf("expected empty block, got %+v", rpt.Blocks[0].Rows)
	}
}

func TestBuildInProgressFallsBackToMostRecent(t *testing.T) {
	acts := []store.Activity{
		{ID: "a1", InitiativeID: "i1", Title: "Slow burn", Status: store.StatusInProgress, EndDate: "2026-04-01"},
	}
	logs := map[string][]store.ActivityLog{
		"a1": {
			logAt("l1", 72*time.Hour, "latest"),
			logAt("l2", 200*time.Hour, "older"),
		},
	}
	rpt := Build(testNow, []store.Initiative{{ID: "i1"}}, acts, logs, nil, nil)
	rows := rpt.Blocks[0].Rows
	if len(rows) != 1 || rows[0].Message != "latest" {
		t.Fatalf("expected single most-recent fallback row, got %+v", rows)
	}
	if rows[0].EndDate != "2026-04-01" || rows[0].Severity != SeverityAmber {
		t.Errorf("unexpected row: %+v", rows[0])
	}
}

func TestBuildPlaceholders(t *testing.T) {
	acts := []store.Activity{
		{ID: "a1", InitiativeID: "i1", Title: "Quiet", Status: store.StatusInProgress},
		{ID: "a2", InitiativeID: "i1", Title: "Stuck", Status: store.StatusBlocked},
	}
	rpt := Build(testNow, []store.Initiative{{ID: "i1"}}, acts, nil, nil, nil)
	rows := rpt.Blocks[0].Rows
	if len(rows) != 2 {
		t.Fatalf("expected 2 placeholder rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.Message != PlaceholderMessage || r.Timestamp != PlaceholderDate || r.EndDate != PlaceholderDate {
			t.Errorf("unexpected placeholder row: %+v", r)
		}
	}
	if rows[1].Severity != SeverityRed {
		t.Errorf("blocked row severity = %s, want red", rows[1].Severity)
	}
}

func TestBuildBlockedShowsOnlyMostRecent(t *testing.T) {
	acts := []store.Activity{
		{ID: "a1", InitiativeID: "i1", Title: "Stuck", Status: store.StatusBlocked},
	}
	logs := map[string][]store.ActivityLog{
		"a1": {
			logAt("l1", 1*time.Hour, "still stuck"),
			logAt("l2", 5*time.Hour, "stuck"),
		},
	}
	rpt := Build(testNow, []store.Initiative{{ID: "i1"}}, acts, logs, nil, nil)
	rows := rpt.Blocks[0].Rows
	if len(rows) != 1 || rows[0].Message != "still stuck" {
		t.Errorf("expected only the most recent log, got %+v", rows)
	}
}

func TestBuildSkipsNotStartedAndArchived(t *testing.T) {
	acts := []store.Activity{
		{ID: "a1", InitiativeID: "i1", Status: store.StatusNotStarted},
		{ID: "a2", InitiativeID: "i1", Status: store.StatusBlocked, Archived: true},
	}
	logs := map[string][]store.ActivityLog{
		"a1": {logAt("l1", 1*time.Hour, "noise")},
		"a2": {logAt("l2", 1*time.Hour, "noise")},
	}
	rpt := Build(testNow, []store.Initiative{{ID: "i1"}}, acts, logs, nil, nil)
	if len(rpt.Blocks[0].Rows) != 0 {
		t.Errorf("expected no rows, got %+v", rpt.Blocks[0].Rows)
	}
}

func TestBuildResolvesNamesAndProgress(t *testing.T) {
	teams := []store.Team{{ID: "t1", Name: "Ops"}}
	people := []store.Person{{ID: "p1", Name: "Alice"}}
	acts := []store.Activity{
		{ID: "a1", InitiativeID: "i1", Status: store.StatusDone},
		{ID: "a2", InitiativeID: "i1", Status: store.StatusInProgress},
	}
	inits := []store.Initiative{{ID: "i1", Title: "Launch", TeamID: "t1", OwnerID: "p1"}}
	rpt := Build(testNow, inits, acts, nil, teams, people)
	b := rpt.Blocks[0]
	if b.TeamName != "Ops" || b.OwnerName != "Alice" {
		t.Errorf("name resolution wrong: %+v", b)
	}
	if b.Progress != 50 {
		t.Errorf("Progress = %d, want 50", b.Progress)
	}
}

func TestBuildPreservesInitiativeOrder(t *testing.T) {
	inits := []store.Initiative{{ID: "b"}, {ID: "a"}, {ID: "c"}}
	rpt := Build(testNow, inits, nil, nil, nil, nil)
	if len(rpt.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(rpt.Blocks))
	}
	for i, want := range []string{"b", "a", "c"} {
		if rpt.Blocks[i].InitiativeID != want {
			t.Errorf("block %d = %s, want %s", i, rpt.Blocks[i].InitiativeID, want)
		}
	}
}
