package session

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestNewRecord(t *testing.T) {
	r := NewRecord("sample.fasta", []byte(">s\nATGC\n"))
	if r.ID == "" {
		t.Fatalf("expected generated ID")
	}
	if r.Size != 8 || r.Name != "sample.fasta" {
		t.Fatalf("unexpected record: %+v", r)
	}
	if r.UploadedAt.IsZero() {
		t.Fatalf("expected upload timestamp")
	}
}

func TestJSONStoreLifecycle(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "session.json"))
	testStoreLifecycle(t, store)
}

func testStoreLifecycle(t *testing.T, store Store) {
	t.Helper()

	if _, err := store.Load(); !errors.Is(err, ErrNoRecord) {
		t.Fatalf("expected ErrNoRecord on fresh store, got %v", err)
	}

	r := NewRecord("sample.fasta", []byte(">s\nATGC\n"))
	if err := store.Save(r); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.ID != r.ID || got.Name != r.Name || got.Content != r.Content || got.Size != r.Size {
		t.Fatalf("loaded record differs: %+v vs %+v", got, r)
	}

	// save again: last write wins
	r2 := NewRecord("other.fastq", []byte("@r\nGGGG\n+\nIIII\n"))
	if err := store.Save(r2); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	got, err = store.Load()
	if err != nil || got.ID != r2.ID {
		t.Fatalf("expected second record, got %+v (err %v)", got, err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoRecord) {
		t.Fatalf("expected ErrNoRecord after Clear, got %v", err)
	}
	// clearing an empty store is not an error
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear on empty store failed: %v", err)
	}
}
