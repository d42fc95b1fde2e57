// Package report builds the executive summary: per initiative, the recent
// activity updates worth surfacing, chosen by each activity's status.
package report

import (
	"time"

	"github.com/sadopc/manageros/internal/metrics"
	"github.com/sadopc/manageros/internal/store"
)

// Severity tags a row for presentation. Done rows are green, in-progress
// amber, blocked red.
type Severity string

const (
	SeverityGreen Severity = "green"
	SeverityAmber Severity = "amber"
	SeverityRed   Severity = "red"
)

// Placeholder strings used when an activity has no logs or dates.
const (
	PlaceholderMessage = "No comments"
	PlaceholderDate    = "N/A"
	NoUpdatesLine      = "no relevant updates"
)

const timestampLayout = "2006-01-02 15:04"

// Row is one update line in an initiative's block.
type Row struct {
	ActivityTitle string
	StatusLabel   string
	Message       string
	Timestamp     string // formatted log time, or "N/A" for synthesized rows
	EndDate       string // activity end date, or "N/A"
	Severity      Severity
}

// InitiativeBlock groups the rows for one initiative. An empty Rows slice
// means the block renders the "no relevant updates" placeholder.
type InitiativeBlock struct {
	InitiativeID string
	Title        string
	TeamName     string
	OwnerName    string
	Progress     int
	Rows         []Row
}

type Report struct {
	GeneratedAt time.Time
	Blocks      []InitiativeBlock
}

// Build assembles the summary. Initiatives are visited in the order given,
// and each initiative's activities in the order given; no re-sorting
// happens here. Logs are expected newest-first, as the store returns them.
//
// Per activity status: Done shows logs from the last 24 hours or drops the
// activity when there are none; InProgress shows logs from the last 48
// hours, falling back to the single most recent log; Blocked always shows
// only the most recent log. InProgress and Blocked activities with no logs
// at all get a synthesized placeholder row. NotStarted never appears.
func Build(now time.Time, initiatives []store.Initiative, activities []store.Activity, logsByActivity map[string][]store.ActivityLog, teams []store.Team, people []store.Person) Report {
	teamNames := make(map[string]string, len(teams))
	for _, t := range teams {
		teamNames[t.ID] = t.Name
	}
	personNames := make(map[string]string, len(people))
	for _, p := range people {
		personNames[p.ID] = p.Name
	}

	byInitiative := make(map[string][]store.Activity)
	for _, a := range activities {
		if a.Archived {
			continue
		}
		byInitiative[a.InitiativeID] = append(byInitiative[a.InitiativeID], a)
	}

	rpt := Report{GeneratedAt: now}
	for _, init := range initiatives {
		block := InitiativeBlock{
			InitiativeID: init.ID,
			Title:        init.Title,
			TeamName:     teamNames[init.TeamID],
			OwnerName:    personNames[init.OwnerID],
			Progress:     metrics.Progress(init.ID, activities),
		}
		for _, act := range byInitiative[init.ID] {
			block.Rows = append(block.Rows, activityRows(now, act, logsByActivity[act.ID])...)
		}
		rpt.Blocks = append(rpt.Blocks, block)
	}
	return rpt
}

func activityRows(now time.Time, act store.Activity, logs []store.ActivityLog) []Row {
	switch act.Status {
	case store.StatusDone:
		recent := logsSince(logs, now.Add(-24*time.Hour))
		if len(recent) == 0 {
			return nil
		}
		return logRows(act, "Completed", SeverityGreen, recent)
	case store.StatusInProgress:
		recent := logsSince(logs, now.Add(-48*time.Hour))
		if len(recent) == 0 && len(logs) > 0 {
			recent = logs[:1]
		}
		if len(recent) == 0 {
			return []Row{placeholderRow(act, "In progress", SeverityAmber)}
		}
		return logRows(act, "In progress", SeverityAmber, recent)
	case store.StatusBlocked:
		if len(logs) == 0 {
			return []Row{placeholderRow(act, "Blocked", SeverityRed)}
		}
		return logRows(act, "Blocked", SeverityRed, logs[:1])
	default:
		// NotStarted activities never make the report.
		return nil
	}
}

func logsSince(logs []store.ActivityLog, cutoff time.Time) []store.ActivityLog {
	var out []store.ActivityLog
	for _, l := range logs {
		if !l.CreatedAt.Before(cutoff) {
			out = append(out, l)
		}
	}
	return out
}

func logRows(act store.Activity, label string, sev Severity, logs []store.ActivityLog) []Row {
	rows := make([]Row, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, Row{
			ActivityTitle: act.Title,
			StatusLabel:   label,
			Message:       l.Message,
			Timestamp:     l.CreatedAt.Format(timestampLayout),
			EndDate:       endDateOrNA(act.EndDate),
			Severity:      sev,
		})
	}
	return rows
}

func placeholderRow(act store.Activity, label string, sev Severity) Row {
	return Row{
		ActivityTitle: act.Title,
		StatusLabel:   label,
		Message:       PlaceholderMessage,
		Timestamp:     PlaceholderDate,
		EndDate:       endDateOrNA(act.EndDate),
		Severity:      sev,
	}
}

func endDateOrNA(endDate string) string {
	if endDate == "" {
		return PlaceholderDate
	}
	return endDate
}
