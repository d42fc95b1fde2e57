package store

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustSaveInitiative is a test helper for the common create path.
func mustSaveInitiative(t *testing.T, s *Store, title string) *Initiative {
	t.Helper()
	i, err := s.SaveInitiative(&Initiative{
		Title:    title,
		TeamID:   "team_ops",
		OwnerID:  "me",
		Priority: PriorityP2,
		Status:   StatusNotStarted,
	})
	if err != nil {
		t.Fatalf("save initiative: %v", err)
	}
	return i
}

func mustSaveActivity(t *testing.T, s *Store, initiativeID, title string, status Status) *Activity {
	t.Helper()
	a, err := s.SaveActivity(&Activity{
		InitiativeID: initiativeID,
		Title:        title,
		OwnerID:      "me",
		Priority:     PriorityP2,
		Status:       status,
	})
	if err != nil {
		t.Fatalf("save activity: %v", err)
	}
	return a
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/manageros.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen — should succeed and not re-migrate or re-seed
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	teams, err := s2.ListTeams(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(teams) != 3 {
		t.Fatalf("expected 3 seeded teams after reopen, got %d", len(teams))
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestSeedData(t *testing.T) {
	s := newTestStore(t)

	teams, err := s.ListTeams(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(teams) != 3 {
		t.Fatalf("expected 3 seeded teams, got %d", len(teams))
	}

	people, err := s.ListPeople()
	if err != nil {
		t.Fatal(err)
	}
	if len(people) != 3 {
		t.Fatalf("expected 3 seeded people, got %d", len(people))
	}

	if got := s.GetSettingOr(SettingTheme, ""); got != "dark" {
		t.Errorf("theme = %q, want dark", got)
	}
	if got := s.GetSettingInt(SettingDueSoonDays, 0); got != 7 {
		t.Errorf("due_soon_days = %d, want 7", got)
	}
	if got := s.GetSettingOr(SettingDefaultOwner, ""); got != "me" {
		t.Errorf("default_owner = %q, want me", got)
	}
}

// ============================================================
// Initiatives
// ============================================================

func TestSaveAndGetInitiative(t *testing.T) {
	s := newTestStore(t)

	i := mustSaveInitiative(t, s, "Launch")
	if i.ID == "" {
		t.Fatal("expected generated id")
	}
	if i.CreatedAt.IsZero() || i.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps set")
	}

	got, err := s.GetInitiative(i.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Title != "Launch" {
		t.Fatalf("unexpected initiative: %+v", got)
	}
}

func TestGetInitiativeNotFound(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetInitiative("nope")
	if err != nil {
		t.Fatalf("missing id should not error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestSaveInitiativeUpsertsByID(t *testing.T) {
	s := newTestStore(t)

	i := mustSaveInitiative(t, s, "Before")
	i.Title = "After"
	i.Status = StatusInProgress
	updated, err := s.SaveInitiative(i)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "After" || updated.Status != StatusInProgress {
		t.Fatalf("unexpected update: %+v", updated)
	}

	all, _ := s.ListInitiatives(true)
	if len(all) != 1 {
		t.Fatalf("upsert should not create a second row, got %d", len(all))
	}
}

func TestInitiativeTagsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	i, err := s.SaveInitiative(&Initiative{
		Title:   "Tagged",
		TeamID:  "team_ops",
		OwnerID: "me",
		Tags:    []string{"q3", "infra"},
	})
	if err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetInitiative(i.ID)
	if len(got.Tags) != 2 || got.Tags[0] != "q3" || got.Tags[1] != "infra" {
		t.Fatalf("tags round-trip failed: %v", got.Tags)
	}
}

func TestArchiveInitiative(t *testing.T) {
	s := newTestStore(t)

	i := mustSaveInitiative(t, s, "Old")
	if err := s.ArchiveInitiative(i.ID); err != nil {
		t.Fatal(err)
	}

	visible, _ := s.ListInitiatives(false)
	if len(visible) != 0 {
		t.Fatalf("archived initiative still visible: %+v", visible)
	}
	all, _ := s.ListInitiatives(true)
	if len(all) != 1 || !all[0].Archived {
		t.Fatalf("archived row should remain: %+v", all)
	}
}

// ============================================================
// Activities and derived progress
// ============================================================

func TestSaveActivityRefreshesProgress(t *testing.T) {
	s := newTestStore(t)
	i := mustSaveInitiative(t, s, "Launch")

	mustSaveActivity(t, s, i.ID, "a", StatusDone)
	mustSaveActivity(t, s, i.ID, "b", StatusNotStarted)

	got, _ := s.GetInitiative(i.ID)
	if got.Progress != 50 {
		t.Fatalf("progress = %d, want 50", got.Progress)
	}

	mustSaveActivity(t, s, i.ID, "c", StatusDone)
	got, _ = s.GetInitiative(i.ID)
	if got.Progress != 67 {
		t.Fatalf("progress = %d, want 67 (2 of 3 rounds up)", got.Progress)
	}
}

func TestActivityMutationBumpsParentUpdatedAt(t *testing.T) {
	s := newTestStore(t)
	i := mustSaveInitiative(t, s, "Launch")

	// Backdate the parent so the bump is observable at second resolution.
	s.db.Exec(`UPDATE initiatives SET updated_at = ? WHERE id = ?`,
		time.Now().UTC().Add(-time.Hour).Format(time.RFC3339), i.ID)
	before, _ := s.GetInitiative(i.ID)

	mustSaveActivity(t, s, i.ID, "a", StatusInProgress)

	after, _ := s.GetInitiative(i.ID)
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Fatalf("parent updated_at not bumped: %v -> %v", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestArchiveActivityRecomputesProgress(t *testing.T) {
	s := newTestStore(t)
	i := mustSaveInitiative(t, s, "Launch")

	done := mustSaveActivity(t, s, i.ID, "done", StatusDone)
	mustSaveActivity(t, s, i.ID, "open", StatusNotStarted)

	if err := s.ArchiveActivity(done.ID); err != nil {
		t.Fatal(err)
	}

	// Only the open activity counts now.
	got, _ := s.GetInitiative(i.ID)
	if got.Progress != 0 {
		t.Fatalf("progress = %d, want 0 after archiving the done activity", got.Progress)
	}

	acts, _ := s.ListActivities(i.ID, false)
	if len(acts) != 1 || acts[0].Title != "open" {
		t.Fatalf("archived activity still listed: %+v", acts)
	}
}

func TestProgressWithNoActivities(t *testing.T) {
	s := newTestStore(t)
	i := mustSaveInitiative(t, s, "Empty")
	if i.Progress != 0 {
		t.Fatalf("progress = %d, want 0", i.Progress)
	}
}

func TestListActivitiesFiltersByInitiative(t *testing.T) {
	s := newTestStore(t)
	i1 := mustSaveInitiative(t, s, "One")
	i2 := mustSaveInitiative(t, s, "Two")

	mustSaveActivity(t, s, i1.ID, "a1", StatusNotStarted)
	mustSaveActivity(t, s, i2.ID, "a2", StatusNotStarted)

	only, _ := s.ListActivities(i1.ID, false)
	if len(only) != 1 || only[0].Title != "a1" {
		t.Fatalf("filter by initiative failed: %+v", only)
	}

	all, _ := s.ListActivities("", false)
	if len(all) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(all))
	}
}

func TestResaveIdempotent(t *testing.T) {
	s := newTestStore(t)
	i := mustSaveInitiative(t, s, "Launch")
	a := mustSaveActivity(t, s, i.ID, "a", StatusDone)

	// Re-saving identical fields must not change derived values.
	if _, err := s.SaveActivity(a); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetInitiative(i.ID)
	if got.Progress != 100 {
		t.Fatalf("progress = %d, want 100 after idempotent re-save", got.Progress)
	}
	acts, _ := s.ListActivities(i.ID, false)
	if len(acts) != 1 {
		t.Fatalf("re-save duplicated the activity: %d rows", len(acts))
	}
}

// ============================================================
// Activity logs
// ============================================================

func TestAddAndListLogs(t *testing.T) {
	s := newTestStore(t)
	i := mustSaveInitiative(t, s, "Launch")
	a := mustSaveActivity(t, s, i.ID, "a", StatusInProgress)

	l1, err := s.AddLog(&ActivityLog{ActivityID: a.ID, AuthorID: "me", Message: "first", CreatedAt: time.Now().UTC().Add(-2 * time.Hour)})
	if err != nil {
		t.Fatal(err)
	}
	if l1.ID == "" {
		t.Fatal("expected generated log id")
	}
	s.AddLog(&ActivityLog{ActivityID: a.ID, AuthorID: "me", Message: "second", CreatedAt: time.Now().UTC().Add(-1 * time.Hour)})

	logs, err := s.ListLogs(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	// Reverse chronological: newest first.
	if logs[0].Message != "second" || logs[1].Message != "first" {
		t.Fatalf("log order wrong: %+v", logs)
	}
}

func TestLogsByActivity(t *testing.T) {
	s := newTestStore(t)
	i := mustSaveInitiative(t, s, "Launch")
	a1 := mustSaveActivity(t, s, i.ID, "a1", StatusInProgress)
	a2 := mustSaveActivity(t, s, i.ID, "a2", StatusBlocked)

	s.AddLog(&ActivityLog{ActivityID: a1.ID, AuthorID: "me", Message: "one"})
	s.AddLog(&ActivityLog{ActivityID: a2.ID, AuthorID: "me", Message: "two"})

	acts, _ := s.ListActivities(i.ID, false)
	byActivity, err := s.LogsByActivity(acts)
	if err != nil {
		t.Fatal(err)
	}
	if len(byActivity[a1.ID]) != 1 || byActivity[a1.ID][0].Message != "one" {
		t.Fatalf("a1 logs wrong: %+v", byActivity[a1.ID])
	}
	if len(byActivity[a2.ID]) != 1 {
		t.Fatalf("a2 logs wrong: %+v", byActivity[a2.ID])
	}
}

// ============================================================
// Capacity assignments
// ============================================================

func TestCapacityAssignmentCRUD(t *testing.T) {
	s := newTestStore(t)
	i := mustSaveInitiative(t, s, "Launch")

	a1, err := s.SaveAssignment(&CapacityAssignment{
		PersonID: "me", InitiativeID: i.ID, Year: 2026, Month: 3, Percentage: 70,
	})
	if err != nil {
		t.Fatal(err)
	}
	a2, _ := s.SaveAssignment(&CapacityAssignment{
		PersonID: "me", InitiativeID: i.ID, Year: 2026, Month: 3, Percentage: 50,
	})

	// Duplicates of (person, initiative, month) stay separate rows.
	list, _ := s.ListAssignments(2026)
	if len(list) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(list))
	}
	// Insertion order preserved.
	if list[0].ID != a1.ID || list[1].ID != a2.ID {
		t.Fatalf("insertion order lost: %+v", list)
	}

	// Edit replaces in place by id.
	a2.Percentage = 30
	if _, err := s.SaveAssignment(a2); err != nil {
		t.Fatal(err)
	}
	list, _ = s.ListAssignments(2026)
	if len(list) != 2 || list[1].Percentage != 30 {
		t.Fatalf("edit by id failed: %+v", list)
	}

	if err := s.DeleteAssignment(a1.ID); err != nil {
		t.Fatal(err)
	}
	list, _ = s.ListAssignments(2026)
	if len(list) != 1 || list[0].ID != a2.ID {
		t.Fatalf("delete failed: %+v", list)
	}
}

func TestListAssignmentsYearFilter(t *testing.T) {
	s := newTestStore(t)
	i := mustSaveInitiative(t, s, "Launch")

	s.SaveAssignment(&CapacityAssignment{PersonID: "me", InitiativeID: i.ID, Year: 2025, Month: 12, Percentage: 40})
	s.SaveAssignment(&CapacityAssignment{PersonID: "me", InitiativeID: i.ID, Year: 2026, Month: 1, Percentage: 60})

	y2026, _ := s.ListAssignments(2026)
	if len(y2026) != 1 || y2026[0].Year != 2026 {
		t.Fatalf("year filter failed: %+v", y2026)
	}

	all, _ := s.ListAssignments(0)
	if len(all) != 2 {
		t.Fatalf("expected all years with 0, got %d", len(all))
	}
}

// ============================================================
// People, teams, platforms
// ============================================================

func TestSaveTeamAndActiveFilter(t *testing.T) {
	s := newTestStore(t)

	inactive, err := s.SaveTeam(&Team{Name: "Old Guard", Color: "#111111", Active: false})
	if err != nil {
		t.Fatal(err)
	}

	active, _ := s.ListTeams(true)
	for _, team := range active {
		if team.ID == inactive.ID {
			t.Fatal("inactive team returned by active-only list")
		}
	}

	all, _ := s.ListTeams(false)
	if len(all) != 4 { // 3 seeded + 1 new
		t.Fatalf("expected 4 teams, got %d", len(all))
	}
}

func TestPersonTeamMembershipRoundTrip(t *testing.T) {
	s := newTestStore(t)

	p, err := s.SavePerson(&Person{Name: "Carol", TeamIDs: []string{"team_ops", "team_tech"}})
	if err != nil {
		t.Fatal(err)
	}

	people, _ := s.ListPeople()
	var got *Person
	for i := range people {
		if people[i].ID == p.ID {
			got = &people[i]
		}
	}
	if got == nil {
		t.Fatal("saved person not listed")
	}
	if !got.InTeam("team_ops") || !got.InTeam("team_tech") || got.InTeam("team_personal") {
		t.Fatalf("team membership wrong: %v", got.TeamIDs)
	}
}

func TestDeletePerson(t *testing.T) {
	s := newTestStore(t)

	p, _ := s.SavePerson(&Person{Name: "Temp"})
	if err := s.DeletePerson(p.ID); err != nil {
		t.Fatal(err)
	}

	people, _ := s.ListPeople()
	for _, q := range people {
		if q.ID == p.ID {
			t.Fatal("deleted person still listed")
		}
	}
}

func TestPlatformCRUD(t *testing.T) {
	s := newTestStore(t)

	p, err := s.SavePlatform(&Platform{Name: "Web"})
	if err != nil {
		t.Fatal(err)
	}

	platforms, _ := s.ListPlatforms()
	if len(platforms) != 1 || platforms[0].Name != "Web" {
		t.Fatalf("unexpected platforms: %+v", platforms)
	}

	p.Name = "Mobile"
	s.SavePlatform(p)
	platforms, _ = s.ListPlatforms()
	if len(platforms) != 1 || platforms[0].Name != "Mobile" {
		t.Fatalf("platform upsert failed: %+v", platforms)
	}

	if err := s.DeletePlatform(p.ID); err != nil {
		t.Fatal(err)
	}
	platforms, _ = s.ListPlatforms()
	if len(platforms) != 0 {
		t.Fatal("deleted platform still listed")
	}
}

// ============================================================
// Settings
// ============================================================

func TestSetAndGetSetting(t *testing.T) {
	s := newTestStore(t)

	if err := s.SetSetting(SettingTheme, "light"); err != nil {
		t.Fatal(err)
	}
	v, err := s.GetSetting(SettingTheme)
	if err != nil {
		t.Fatal(err)
	}
	if v != "light" {
		t.Fatalf("theme = %q, want light", v)
	}
}

func TestGetSettingFallbacks(t *testing.T) {
	s := newTestStore(t)

	if got := s.GetSettingOr("missing", "fb"); got != "fb" {
		t.Errorf("GetSettingOr = %q, want fb", got)
	}
	if got := s.GetSettingInt("missing", 42); got != 42 {
		t.Errorf("GetSettingInt = %d, want 42", got)
	}
	s.SetSetting("bad_int", "abc")
	if got := s.GetSettingInt("bad_int", 9); got != 9 {
		t.Errorf("non-numeric value should fall back, got %d", got)
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)

	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) != 3 {
		t.Fatalf("expected 3 default settings, got %d", len(settings))
	}
}

func TestListHelpers(t *testing.T) {
	if got := joinList([]string{"a", "b"}); got != "a,b" {
		t.Errorf("joinList = %q", got)
	}
	if got := splitList(""); got != nil {
		t.Errorf("splitList(\"\") = %v, want nil", got)
	}
	if got := splitList("a,b"); len(got) != 2 || got[0] != "a" {
		t.Errorf("splitList = %v", got)
	}
}
