package session

// Package session holds the single "primary file" record that survives
// page navigation. It is loaded once at startup, replaced atomically on
// each user-driven upload and cleared on explicit removal; there is
// exactly one writer at a time, so last-write-wins needs no conflict
// resolution.

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrNoRecord is returned by Load when no primary file is stored.
var ErrNoRecord = errors.New("no primary file stored")

// Record is the persisted primary file.
type Record struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Content    string    `json:"content"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewRecord stamps a fresh record for an uploaded file.
func NewRecord(name string, content []byte) *Record {
	return &Record{
		ID:         uuid.NewString(),
		Name:       name,
		Size:       int64(len(content)),
		Content:    string(content),
		UploadedAt: time.Now().UTC(),
	}
}

// Store persists the primary file record. Implementations must make Save
// atomic with respect to concurrent readers of the backing file.
type Store interface {
	Load() (*Record, error)
	Save(*Record) error
	Clear() error
	Close() error
}

// JSONStore keeps the record in a single JSON file.
type JSONStore struct {
	path string
}

// NewJSONStore returns a store backed by the JSON file at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Load() (*Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	if r.ID == "" {
		return nil, ErrNoRecord
	}
	return &r, nil
}

// Save writes to a temp file in the same directory and renames it over
// the target, so readers never observe a half-written record.
func (s *JSONStore) Save(r *Record) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *JSONStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *JSONStore) Close() error { return nil }
