package database_test

import (
	"sync"
	"testing"

	"themerr/internal/database"
	"themerr/internal/logging"
)

func TestUpdateContributorCounters(t *testing.T) {
	groupDir := t.TempDir()
	store := database.NewStore(t.TempDir(), logging.NewNop())

	if err := store.UpdateContributor(groupDir, "alice", true); err != nil {
		t.Fatalf("UpdateContributor returned error: %v", err)
	}
	if err := store.UpdateContributor(groupDir, "bob", false); err != nil {
		t.Fatalf("UpdateContributor returned error: %v", err)
	}
	if err := store.UpdateContributor(groupDir, "alice", false); err != nil {
		t.Fatalf("UpdateContributor returned error: %v", err)
	}

	stats, err := store.Contributors(groupDir)
	if err != nil {
		t.Fatalf("Contributors returned error: %v", err)
	}
	alice := stats["alice"]
	if alice.ItemsAdded != 1 || alice.ItemsEdited != 1 {
		t.Fatalf("unexpected alice counters: %+v", alice)
	}
	bob := stats["bob"]
	if bob.ItemsAdded != 0 || bob.ItemsEdited != 1 {
		t.Fatalf("unexpected bob counters: %+v", bob)
	}
}

func TestUpdateContributorRejectsEmptyID(t *testing.T) {
	store := database.NewStore(t.TempDir(), logging.NewNop())
	if err := store.UpdateContributor(t.TempDir(), "", true); err == nil {
		t.Fatal("expected error for empty contributor id")
	}
}

func TestContributorsMissingFile(t *testing.T) {
	store := database.NewStore(t.TempDir(), logging.NewNop())
	stats, err := store.Contributors(t.TempDir())
	if err != nil {
		t.Fatalf("Contributors returned error: %v", err)
	}
	if len(stats) != 0 {
		t.Fatalf("expected empty stats, got %v", stats)
	}
}

func TestUpdateContributorConcurrent(t *testing.T) {
	groupDir := t.TempDir()
	store := database.NewStore(t.TempDir(), logging.NewNop())

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.UpdateContributor(groupDir, "carol", false)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("UpdateContributor returned error: %v", err)
		}
	}

	stats, err := store.Contributors(groupDir)
	if err != nil {
		t.Fatalf("Contributors returned error: %v", err)
	}
	if stats["carol"].ItemsEdited != writers {
		t.Fatalf("lost updates: %+v", stats["carol"])
	}
}
