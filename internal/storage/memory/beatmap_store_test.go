package memory

import (
	"context"
	"errors"
	"testing"

	"otr-data-worker/internal/domain"
	"otr-data-worker/internal/storage"
)

func TestBeatmapStore_BulkInsertAndExistingIDs(t *testing.T) {
	store := NewBeatmapStore()
	ctx := context.Background()

	err := store.BulkInsert(ctx, []*domain.Beatmap{
		{OsuID: 2001, Artist: "a", Title: "t"},
		{OsuID: 2002, Artist: "a", Title: "t"},
	})
	if err != nil {
		t.Fatalf("BulkInsert failed: %v", err)
	}

	existing, err := store.ExistingIDs(ctx, []int64{2001, 2002, 2003})
	if err != nil {
		t.Fatalf("ExistingIDs failed: %v", err)
	}
	if !existing[2001] || !existing[2002] {
		t.Errorf("Expected stored ids present, got %v", existing)
	}
	if existing[2003] {
		t.Error("Expected 2003 absent")
	}
}

func TestBeatmapStore_InsertConflictIsNotAnError(t *testing.T) {
	store := NewBeatmapStore()
	ctx := context.Background()

	first := &domain.Beatmap{OsuID: 2001, Title: "original"}
	if err := store.BulkInsert(ctx, []*domain.Beatmap{first}); err != nil {
		t.Fatalf("BulkInsert failed: %v", err)
	}

	// A raced-in duplicate means "already exists": no error, no overwrite.
	dup := &domain.Beatmap{OsuID: 2001, Title: "changed"}
	if err := store.BulkInsert(ctx, []*domain.Beatmap{dup}); err != nil {
		t.Fatalf("Duplicate BulkInsert failed: %v", err)
	}

	stored, err := store.GetByOsuID(ctx, 2001)
	if err != nil {
		t.Fatalf("GetByOsuID failed: %v", err)
	}
	if stored.Title != "original" {
		t.Errorf("Expected stored beatmap immutable, got title %q", stored.Title)
	}
}

func TestBeatmapStore_NotFound(t *testing.T) {
	store := NewBeatmapStore()

	_, err := store.GetByOsuID(context.Background(), 404)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPlayerStore_EnsureExists(t *testing.T) {
	store := NewPlayerStore()
	ctx := context.Background()

	if err := store.EnsureExists(ctx, []int64{101, 102}); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}

	first, err := store.GetByOsuID(ctx, 101)
	if err != nil {
		t.Fatalf("GetByOsuID failed: %v", err)
	}

	// Known ids are left untouched on repeat calls.
	if err := store.EnsureExists(ctx, []int64{101, 103}); err != nil {
		t.Fatalf("Second EnsureExists failed: %v", err)
	}
	again, err := store.GetByOsuID(ctx, 101)
	if err != nil {
		t.Fatalf("GetByOsuID failed: %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("Expected player identity preserved, got %d want %d", again.ID, first.ID)
	}
	if _, err := store.GetByOsuID(ctx, 103); err != nil {
		t.Errorf("Expected player 103 created: %v", err)
	}
}

func TestCheckAuditStore_InsertOutcomes(t *testing.T) {
	store := NewCheckAuditStore()
	ctx := context.Background()

	err := store.InsertOutcomes(ctx, []*domain.CheckOutcome{
		{MatchOsuID: 111222, Level: domain.CheckLevelMatch, CheckName: "MatchLobbyName", Passed: true, Reason: domain.RejectionNone},
		{MatchOsuID: 111222, Level: domain.CheckLevelScore, EntityOsuID: 101, CheckName: "ScoreMods", Passed: false, Reason: domain.RejectionInvalidMods},
		{MatchOsuID: 999, Level: domain.CheckLevelMatch, CheckName: "MatchLobbyName", Passed: true, Reason: domain.RejectionNone},
	})
	if err != nil {
		t.Fatalf("InsertOutcomes failed: %v", err)
	}

	got := store.OutcomesForMatch(111222)
	if len(got) != 2 {
		t.Fatalf("Expected 2 outcomes for match, got %d", len(got))
	}
	if got[1].Reason != domain.RejectionInvalidMods {
		t.Errorf("Reason = %s, want InvalidMods", got[1].Reason)
	}
}
