package store

import "time"

type Priority string

const (
	PriorityP0 Priority = "P0" // critical
	PriorityP1 Priority = "P1" // high
	PriorityP2 Priority = "P2" // medium
	PriorityP3 Priority = "P3" // low
)

var Priorities = []Priority{PriorityP0, PriorityP1, PriorityP2, PriorityP3}

type Status string

const (
	StatusNotStarted Status = "NotStarted"
	StatusInProgress Status = "InProgress"
	StatusBlocked    Status = "Blocked"
	StatusDone       Status = "Done"
)

var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusBlocked, StatusDone}

// Label returns the display name for a status.
func (s Status) Label() string {
	switch s {
	case StatusNotStarted:
		return "Not Started"
	case StatusInProgress:
		return "In Progress"
	case StatusBlocked:
		return "Blocked"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

type Team struct {
	ID     string
	Name   string
	Color  string
	Active bool
}

type Person struct {
	ID      string
	Name    string
	Avatar  string
	TeamIDs []string
}

// InTeam reports whether the person belongs to the given team.
func (p Person) InTeam(teamID string) bool {
	for _, id := range p.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

type Platform struct {
	ID   string
	Name string
}

// Initiative is a top-level tracked project. Progress is derived from its
// non-archived activities and persisted on every activity mutation.
// StartDate and EndDate are ISO dates ("2006-01-02"); empty means unset.
type Initiative struct {
	ID          string
	Title       string
	Description string
	TeamID      string
	OwnerID     string
	PlatformID  string
	Priority    Priority
	Status      Status
	Progress    int
	StartDate   string
	EndDate     string
	Tags        []string
	Archived    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Activity is a task belonging to one initiative. Archiving is the only
// removal; there is no hard delete.
type Activity struct {
	ID           string
	InitiativeID string
	Title        string
	Description  string
	OwnerID      string
	Priority     Priority
	Status       Status
	StartDate    string
	EndDate      string
	Archived     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ActivityLog is an append-only timestamped comment on an activity.
type ActivityLog struct {
	ID         string
	ActivityID string
	CreatedAt  time.Time
	AuthorID   string
	Message    string
}

// CapacityAssignment records a person's dedication to an initiative for one
// month. Multiple rows may share (person, month); each counts toward the
// cell total separately.
type CapacityAssignment struct {
	ID           string
	PersonID     string
	InitiativeID string
	Year         int
	Month        int // 1-12
	Percentage   int
	UpdatedAt    time.Time
}

type Setting struct {
	Key   string
	Value string
}
