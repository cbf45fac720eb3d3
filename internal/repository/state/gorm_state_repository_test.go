package state

import (
	"context"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := NewStateStore(openTestDB(t))
	ctx := context.Background()

	if err := store.Save(ctx, KeyConversations, []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("save: %v", err)
	}

	value, found, err := store.Load(ctx, KeyConversations)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatalf("expected blob to be found")
	}
	if string(value) != `[{"id":"a"}]` {
		t.Fatalf("unexpected value: %s", value)
	}
}

func TestSaveOverwritesExistingKey(t *testing.T) {
	store := NewStateStore(openTestDB(t))
	ctx := context.Background()

	if err := store.Save(ctx, KeyPreferences, []byte(`{"darkMode":false}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, KeyPreferences, []byte(`{"darkMode":true}`)); err != nil {
		t.Fatalf("second save: %v", err)
	}

	value, found, err := store.Load(ctx, KeyPreferences)
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if string(value) != `{"darkMode":true}` {
		t.Fatalf("expected overwritten value, got %s", value)
	}
}

func TestLoadMissingKey(t *testing.T) {
	store := NewStateStore(openTestDB(t))

	_, found, err := store.Load(context.Background(), "nothing_here")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Fatalf("expected absent key")
	}
}

func TestDeleteKey(t *testing.T) {
	store := NewStateStore(openTestDB(t))
	ctx := context.Background()

	if err := store.Save(ctx, KeyUploadedFiles, []byte(`[]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, KeyUploadedFiles); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, found, err := store.Load(ctx, KeyUploadedFiles)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Fatalf("expected key to be gone")
	}
}

func TestEmptyKeyRejected(t *testing.T) {
	store := NewStateStore(openTestDB(t))

	if err := store.Save(context.Background(), "", []byte("x")); err != ErrInvalidKey {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if _, _, err := store.Load(context.Background(), ""); err != ErrInvalidKey {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}
