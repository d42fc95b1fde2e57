package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const activityCols = `id, initiative_id, title, description, owner_id,
	priority, status, start_date, end_date, archived, created_at, updated_at`

// SaveActivity upserts an activity by id and refreshes the parent
// initiative's derived progress and updated_at.
func (s *Store) SaveActivity(a *Activity) (*Activity, error) {
	now := time.Now().UTC()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO activities
		 (id, initiative_id, title, description, owner_id, priority, status,
		  start_date, end_date, archived, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.InitiativeID, a.Title, a.Description, a.OwnerID,
		string(a.Priority), string(a.Status), a.StartDate, a.EndDate,
		boolToInt(a.Archived),
		a.CreatedAt.Format(time.RFC3339), a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("save activity: %w", err)
	}

	if a.InitiativeID != "" {
		if err := s.refreshProgress(a.InitiativeID); err != nil {
			return nil, err
		}
	}
	return s.GetActivity(a.ID)
}

// GetActivity returns nil without error when the id does not exist.
func (s *Store) GetActivity(id string) (*Activity, error) {
	row := s.db.QueryRow(`SELECT `+activityCols+` FROM activities WHERE id = ?`, id)
	a, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get activity %s: %w", id, err)
	}
	return a, nil
}

// ListActivities returns all activities, or only those of one initiative
// when initiativeID is non-empty.
func (s *Store) ListActivities(initiativeID string, includeArchived bool) ([]Activity, error) {
	query := `SELECT ` + activityCols + ` FROM activities WHERE 1=1`
	var args []any
	if initiativeID != "" {
		query += ` AND initiative_id = ?`
		args = append(args, initiativeID)
	}
	if !includeArchived {
		query += ` AND archived = 0`
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

// ArchiveActivity soft-deletes and refreshes the parent's derived progress.
func (s *Store) ArchiveActivity(id string) error {
	a, err := s.GetActivity(id)
	if err != nil {
		return err
	}
	if a == nil {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`UPDATE activities SET archived = 1, updated_at = ? WHERE id = ?`, now, id,
	)
	if err != nil {
		return err
	}
	return s.refreshProgress(a.InitiativeID)
}

func scanActivity(r rowScanner) (*Activity, error) {
	a := &Activity{}
	var priority, status, createdAt, updatedAt string
	var archived int
	err := r.Scan(&a.ID, &a.InitiativeID, &a.Title, &a.Description, &a.OwnerID,
		&priority, &status, &a.StartDate, &a.EndDate, &archived, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	a.Priority = Priority(priority)
	a.Status = Status(status)
	a.Archived = archived == 1
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return a, nil
}
