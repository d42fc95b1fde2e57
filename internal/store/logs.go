package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AddLog appends a log entry to an activity. Logs are never edited or
// deleted.
func (s *Store) AddLog(l *ActivityLog) (*ActivityLog, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO activity_logs (id, activity_id, created_at, author_id, message)
		 VALUES (?, ?, ?, ?, ?)`,
		l.ID, l.ActivityID, l.CreatedAt.Format(time.RFC3339), l.AuthorID, l.Message,
	)
	if err != nil {
		return nil, fmt.Errorf("add log: %w", err)
	}
	return l, nil
}

// ListLogs returns an activity's logs newest first.
func (s *Store) ListLogs(activityID string) ([]ActivityLog, error) {
	rows, err := s.db.Query(
		`SELECT id, activity_id, created_at, author_id, message
		 FROM activity_logs WHERE activity_id = ? ORDER BY created_at DESC`, activityID,
	)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var logs []ActivityLog
	for rows.Next() {
		var l ActivityLog
		var createdAt string
		if err := rows.Scan(&l.ID, &l.ActivityID, &createdAt, &l.AuthorID, &l.Message); err != nil {
			return nil, err
		}
		l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// LogsByActivity loads the logs of every given activity, keyed by activity
// id, each list newest first. Used by the report builder.
func (s *Store) LogsByActivity(activities []Activity) (map[string][]ActivityLog, error) {
	out := make(map[string][]ActivityLog, len(activities))
	for _, a := range activities {
		logs, err := s.ListLogs(a.ID)
		if err != nil {
			return nil, err
		}
		out[a.ID] = logs
	}
	return out, nil
}
