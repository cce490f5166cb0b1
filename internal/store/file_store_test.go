package store_test

import (
	"testing"

	"github.com/tether-app/tether/internal/store"
)

func newStore(t *testing.T) *store.FileStore {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestSettings_SetGet(t *testing.T) {
	s := newStore(t)

	if err := s.Set(store.KeyUserID, "user-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(store.KeyUserID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "user-1" {
		t.Fatalf("Get = %q, want user-1", got)
	}
}

func TestSettings_MissingKeyIsEmpty(t *testing.T) {
	s := newStore(t)

	got, err := s.Get("never_set")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "" {
		t.Fatalf("Get = %q, want empty", got)
	}
}

func TestSettings_Delete(t *testing.T) {
	s := newStore(t)

	if err := s.Set(store.KeyPartnerID, "partner-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Delete(store.KeyPartnerID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := s.Get(store.KeyPartnerID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "" {
		t.Fatalf("Get after delete = %q, want empty", got)
	}
}

func TestImportRecords_AppendsAcrossImports(t *testing.T) {
	s := newStore(t)

	first := []store.Record{{"id": "m1", "body": "hello"}}
	second := []store.Record{{"id": "m2", "body": "again"}}

	if err := s.ImportRecords("messages", first); err != nil {
		t.Fatalf("ImportRecords: %v", err)
	}
	if err := s.ImportRecords("messages", second); err != nil {
		t.Fatalf("ImportRecords: %v", err)
	}

	got, err := s.LoadRecords("messages")
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(got))
	}
	if got[0]["id"] != "m1" || got[1]["id"] != "m2" {
		t.Fatalf("record order not preserved: %v", got)
	}
}

func TestImportRecords_EmptyIsNoop(t *testing.T) {
	s := newStore(t)

	if err := s.ImportRecords("messages", nil); err != nil {
		t.Fatalf("ImportRecords: %v", err)
	}
	got, err := s.LoadRecords("messages")
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if got != nil {
		t.Fatalf("LoadRecords = %v, want nil", got)
	}
}
