package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SaveAssignment upserts a capacity assignment by id. Duplicate
// (person, initiative, month) rows are allowed; no merging happens here.
func (s *Store) SaveAssignment(a *CapacityAssignment) (*CapacityAssignment, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.UpdatedAt = time.Now().UTC()

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO capacity_assignments
		 (id, person_id, initiative_id, year, month, percentage, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.PersonID, a.InitiativeID, a.Year, a.Month, a.Percentage,
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("save assignment: %w", err)
	}
	return a, nil
}

// ListAssignments returns assignments in insertion order, optionally
// restricted to one year (0 = all).
func (s *Store) ListAssignments(year int) ([]CapacityAssignment, error) {
	query := `SELECT id, person_id, initiative_id, year, month, percentage, updated_at
	          FROM capacity_assignments`
	var args []any
	if year != 0 {
		query += ` WHERE year = ?`
		args = append(args, year)
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []CapacityAssignment
	for rows.Next() {
		var a CapacityAssignment
		var updatedAt string
		if err := rows.Scan(&a.ID, &a.PersonID, &a.InitiativeID, &a.Year, &a.Month,
			&a.Percentage, &updatedAt); err != nil {
			return nil, err
		}
		a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (s *Store) DeleteAssignment(id string) error {
	_, err := s.db.Exec(`DELETE FROM capacity_assignments WHERE id = ?`, id)
	return err
}
