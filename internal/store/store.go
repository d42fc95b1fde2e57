package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := s.seed(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS teams (
		id      TEXT PRIMARY KEY,
		name    TEXT NOT NULL,
		color   TEXT NOT NULL DEFAULT '#2563EB',
		active  INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS people (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		avatar    TEXT NOT NULL DEFAULT '',
		team_ids  TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS platforms (
		id    TEXT PRIMARY KEY,
		name  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS initiatives (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		team_id      TEXT NOT NULL,
		owner_id     TEXT NOT NULL,
		platform_id  TEXT NOT NULL DEFAULT '',
		priority     TEXT NOT NULL DEFAULT 'P2',
		status       TEXT NOT NULL DEFAULT 'NotStarted',
		progress     INTEGER NOT NULL DEFAULT 0,
		start_date   TEXT NOT NULL DEFAULT '',
		end_date     TEXT NOT NULL DEFAULT '',
		tags         TEXT NOT NULL DEFAULT '',
		archived     INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS activities (
		id             TEXT PRIMARY KEY,
		initiative_id  TEXT NOT NULL REFERENCES initiatives(id),
		title          TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		owner_id       TEXT NOT NULL,
		priority       TEXT NOT NULL DEFAULT 'P2',
		status         TEXT NOT NULL DEFAULT 'NotStarted',
		start_date     TEXT NOT NULL DEFAULT '',
		end_date       TEXT NOT NULL DEFAULT '',
		archived       INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_activities_initiative ON activities(initiative_id);

	CREATE TABLE IF NOT EXISTS activity_logs (
		id           TEXT PRIMARY KEY,
		activity_id  TEXT NOT NULL REFERENCES activities(id),
		created_at   TEXT NOT NULL,
		author_id    TEXT NOT NULL,
		message      TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_logs_activity ON activity_logs(activity_id);

	CREATE TABLE IF NOT EXISTS capacity_assignments (
		id             TEXT PRIMARY KEY,
		person_id      TEXT NOT NULL,
		initiative_id  TEXT NOT NULL,
		year           INTEGER NOT NULL,
		month          INTEGER NOT NULL,
		percentage     INTEGER NOT NULL DEFAULT 0,
		updated_at     TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_capacity_year ON capacity_assignments(year);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('theme',         'dark'),
		('due_soon_days', '7'),
		('default_owner', 'me');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// seed inserts the starter teams and people on an empty database.
func (s *Store) seed() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM teams`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err := s.db.Exec(`
		INSERT INTO teams (id, name, color, active) VALUES
			('team_ops',      'Ops',        '#2563EB', 1),
			('team_tech',     'Technology', '#7C3AED', 1),
			('team_personal', 'Personal',   '#10B981', 1);

		INSERT INTO people (id, name) VALUES
			('me',    'Manager'),
			('alice', 'Alice'),
			('bob',   'Bob');
	`)
	return err
}

// DefaultDBPath returns ~/.config/manageros/manageros.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "manageros", "manageros.db"), nil
}

// joinList and splitList map []string fields onto comma-separated TEXT columns.
func joinList(items []string) string {
	return strings.Join(items, ",")
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
