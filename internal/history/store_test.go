package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RecordAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i, title := range []string{"Sunset", "Forest", "Harbor"} {
		_, err := store.Record(ctx, Record{
			RunID:   "run",
			Offset:  i,
			EndDate: fmt.Sprintf("202404%02d", 25-i),
			Title:   title,
			URL:     "https://cn.bing.com/" + title,
		})
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	records, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Title != "Harbor" {
		t.Errorf("records[0].Title = %q, want newest first", records[0].Title)
	}
	if records[0].DownloadedAt.IsZero() {
		t.Error("DownloadedAt should be set")
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d records, want 3", len(all))
	}
}

func TestStore_NextBackupNumber(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	tests := []struct {
		floor int
		want  int
	}{
		{floor: 0, want: 1},
		{floor: 0, want: 2},
		{floor: 5, want: 6},
		{floor: 2, want: 7},
	}
	for _, tt := range tests {
		got, err := store.NextBackupNumber(ctx, tt.floor)
		if err != nil {
			t.Fatalf("NextBackupNumber failed: %v", err)
		}
		if got != tt.want {
			t.Errorf("NextBackupNumber(%d) = %d, want %d", tt.floor, got, tt.want)
		}
	}
}

func TestStore_CounterPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.NextBackupNumber(ctx, 3); err != nil {
		t.Fatal(err)
	}
	store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, err := reopened.NextBackupNumber(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Errorf("NextBackupNumber after reopen = %d, want 5", got)
	}
}

func TestStore_AdvanceBackupNumberRollsBackOnFailure(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	errRename := errors.New("rename failed")

	var attempted int
	_, err := store.AdvanceBackupNumber(ctx, 2, func(n int) error {
		attempted = n
		return errRename
	})
	if !errors.Is(err, errRename) {
		t.Fatalf("AdvanceBackupNumber error = %v, want %v", err, errRename)
	}
	if attempted != 3 {
		t.Errorf("apply got %d, want 3", attempted)
	}

	got, err := store.AdvanceBackupNumber(ctx, 2, func(n int) error { return nil })
	if err != nil {
		t.Fatalf("AdvanceBackupNumber failed: %v", err)
	}
	if got != 3 {
		t.Errorf("AdvanceBackupNumber after failed apply = %d, want 3", got)
	}
}
