package store

import (
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) SaveTeam(t *Team) (*Team, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO teams (id, name, color, active) VALUES (?, ?, ?, ?)`,
		t.ID, t.Name, t.Color, boolToInt(t.Active),
	)
	if err != nil {
		return nil, fmt.Errorf("save team: %w", err)
	}
	return t, nil
}

func (s *Store) ListTeams(activeOnly bool) ([]Team, error) {
	query := `SELECT id, name, color, active FROM teams`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		var active int
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &active); err != nil {
			return nil, err
		}
		t.Active = active == 1
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s *Store) SavePerson(p *Person) (*Person, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO people (id, name, avatar, team_ids) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.Avatar, joinList(p.TeamIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("save person: %w", err)
	}
	return p, nil
}

func (s *Store) ListPeople() ([]Person, error) {
	rows, err := s.db.Query(`SELECT id, name, avatar, team_ids FROM people ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	var people []Person
	for rows.Next() {
		var p Person
		var teamIDs string
		if err := rows.Scan(&p.ID, &p.Name, &p.Avatar, &teamIDs); err != nil {
			return nil, err
		}
		p.TeamIDs = splitList(teamIDs)
		people = append(people, p)
	}
	return people, rows.Err()
}

func (s *Store) DeletePerson(id string) error {
	_, err := s.db.Exec(`DELETE FROM people WHERE id = ?`, id)
	return err
}

func (s *Store) SavePlatform(p *Platform) (*Platform, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO platforms (id, name) VALUES (?, ?)`, p.ID, p.Name,
	)
	if err != nil {
		return nil, fmt.Errorf("save platform: %w", err)
	}
	return p, nil
}

func (s *Store) ListPlatforms() ([]Platform, error) {
	rows, err := s.db.Query(`SELECT id, name FROM platforms ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	defer rows.Close()

	var platforms []Platform
	for rows.Next() {
		var p Platform
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		platforms = append(platforms, p)
	}
	return platforms, rows.Err()
}

func (s *Store) DeletePlatform(id string) error {
	_, err := s.db.Exec(`DELETE FROM platforms WHERE id = ?`, id)
	return err
}
