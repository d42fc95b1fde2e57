package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const initiativeCols = `id, title, description, team_id, owner_id, platform_id,
	priority, status, progress, start_date, end_date, tags, archived, created_at, updated_at`

// SaveInitiative upserts an initiative by id. A blank id gets a fresh uuid.
func (s *Store) SaveInitiative(i *Initiative) (*Initiative, error) {
	now := time.Now().UTC()
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	i.UpdatedAt = now

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO initiatives
		 (id, title, description, team_id, owner_id, platform_id, priority, status,
		  progress, start_date, end_date, tags, archived, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.Title, i.Description, i.TeamID, i.OwnerID, i.PlatformID,
		string(i.Priority), string(i.Status), i.Progress, i.StartDate, i.EndDate,
		joinList(i.Tags), boolToInt(i.Archived),
		i.CreatedAt.Format(time.RFC3339), i.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("save initiative: %w", err)
	}
	return s.GetInitiative(i.ID)
}

// GetInitiative returns nil without error when the id does not exist.
func (s *Store) GetInitiative(id string) (*Initiative, error) {
	row := s.db.QueryRow(`SELECT `+initiativeCols+` FROM initiatives WHERE id = ?`, id)
	i, err := scanInitiative(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get initiative %s: %w", id, err)
	}
	return i, nil
}

func (s *Store) ListInitiatives(includeArchived bool) ([]Initiative, error) {
	query := `SELECT ` + initiativeCols + ` FROM initiatives`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list initiatives: %w", err)
	}
	defer rows.Close()

	var initiatives []Initiative
	for rows.Next() {
		i, err := scanInitiative(rows)
		if err != nil {
			return nil, err
		}
		initiatives = append(initiatives, *i)
	}
	return initiatives, rows.Err()
}

// ArchiveInitiative soft-deletes: the row stays, hidden from default views.
func (s *Store) ArchiveInitiative(id string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE initiatives SET archived = 1, updated_at = ? WHERE id = ?`, now, id,
	)
	return err
}

// refreshProgress recomputes the stored progress of an initiative from its
// non-archived activities and bumps updated_at. Keeps the persisted value in
// step with what the dashboard computes live.
func (s *Store) refreshProgress(initiativeID string) error {
	var total, done int
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = 'Done' THEN 1 ELSE 0 END), 0)
		 FROM activities WHERE initiative_id = ? AND archived = 0`, initiativeID,
	).Scan(&total, &done)
	if err != nil {
		return fmt.Errorf("count activities: %w", err)
	}

	progress := 0
	if total > 0 {
		progress = (done*100 + total/2) / total // round(100*done/total)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`UPDATE initiatives SET progress = ?, updated_at = ? WHERE id = ?`,
		progress, now, initiativeID,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInitiative(r rowScanner) (*Initiative, error) {
	i := &Initiative{}
	var priority, status, tags, createdAt, updatedAt string
	var archived int
	err := r.Scan(&i.ID, &i.Title, &i.Description, &i.TeamID, &i.OwnerID, &i.PlatformID,
		&priority, &status, &i.Progress, &i.StartDate, &i.EndDate, &tags, &archived,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	i.Priority = Priority(priority)
	i.Status = Status(status)
	i.Tags = splitList(tags)
	i.Archived = archived == 1
	i.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	i.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return i, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
