package session

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteStoreLifecycle(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	defer store.Close()
	testStoreLifecycle(t, store)
}

func TestSQLiteStoreTimestampRoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	defer store.Close()

	r := NewRecord("sample.fasta", []byte(">s\nATGC\n"))
	r.UploadedAt = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	if err := store.Save(r); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !got.UploadedAt.Equal(r.UploadedAt) {
		t.Fatalf("timestamp mismatch: %v vs %v", got.UploadedAt, r.UploadedAt)
	}
}
