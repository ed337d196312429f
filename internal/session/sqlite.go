package session

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the record in a single-row sqlite table, for setups
// where the session file should live alongside other local data.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS primary_file (
    id TEXT PRIMARY KEY,
    name TEXT,
    size INTEGER,
    content TEXT,
    uploaded_at TEXT
)`

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load() (*Record, error) {
	row := s.db.QueryRow(`SELECT id, name, size, content, uploaded_at FROM primary_file LIMIT 1`)
	var r Record
	var uploaded string
	err := row.Scan(&r.ID, &r.Name, &r.Size, &r.Content, &uploaded)
	if err == sql.ErrNoRows {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, err
	}
	if t, perr := time.Parse(time.RFC3339, uploaded); perr == nil {
		r.UploadedAt = t
	}
	return &r, nil
}

// Save replaces whatever record exists; the table holds at most one row.
func (s *SQLiteStore) Save(r *Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM primary_file`); err != nil {
		tx.Rollback()
		return err
	}
	_, err = tx.Exec(`INSERT INTO primary_file (id, name, size, content, uploaded_at) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Size, r.Content, r.UploadedAt.UTC().Format(time.RFC3339))
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM primary_file`)
	return err
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
