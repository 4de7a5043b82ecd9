package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"otr-data-worker/internal/domain"
	"otr-data-worker/internal/storage"
)

func testGraph(osuID int64) *domain.Match {
	end := time.Date(2023, 11, 5, 20, 30, 0, 0, time.UTC)
	return &domain.Match{
		OsuID:              osuID,
		Name:               "OWC2023: (United States) vs (South Korea)",
		StartTime:          end.Add(-time.Hour),
		EndTime:            &end,
		ProcessingStatus:   domain.ProcessingMaterialized,
		VerificationStatus: domain.VerificationPending,
		RejectionReason:    domain.RejectionNone,
		Games: []*domain.Game{
			{
				OsuID:        5001,
				MatchOsuID:   osuID,
				BeatmapOsuID: 2001,
				ScoringType:  domain.ScoringScoreV2,
				TeamType:     domain.TeamTypeTeamVs,
				Scores: []*domain.Score{
					{GameOsuID: 5001, PlayerOsuID: 101, TotalScore: 612345, IsValid: true, RejectionReason: domain.RejectionNone},
					{GameOsuID: 5001, PlayerOsuID: 102, TotalScore: 534210, IsValid: true, RejectionReason: domain.RejectionNone},
				},
			},
		},
	}
}

func TestMatchStore_EnqueueAndClaim(t *testing.T) {
	store := NewMatchStore()
	ctx := context.Background()

	if err := store.Enqueue(ctx, 111222, 7, domain.VerificationPending); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := store.Enqueue(ctx, 111333, 7, domain.VerificationPending); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	// Claims come back in enqueue order.
	first, err := store.ClaimNextPending(ctx)
	if err != nil {
		t.Fatalf("ClaimNextPending failed: %v", err)
	}
	if first.OsuID != 111222 {
		t.Errorf("Expected oldest match first, got %d", first.OsuID)
	}
	if first.ProcessingStatus != domain.ProcessingMaterialized {
		t.Errorf("Expected claimed match Materialized, got %s", first.ProcessingStatus)
	}

	second, err := store.ClaimNextPending(ctx)
	if err != nil {
		t.Fatalf("ClaimNextPending failed: %v", err)
	}
	if second.OsuID != 111333 {
		t.Errorf("Expected second match, got %d", second.OsuID)
	}

	// Nothing left to claim.
	if _, err := store.ClaimNextPending(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMatchStore_EnqueueDuplicate(t *testing.T) {
	store := NewMatchStore()
	ctx := context.Background()

	if err := store.Enqueue(ctx, 111222, 7, domain.VerificationPending); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	err := store.Enqueue(ctx, 111222, 7, domain.VerificationPending)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestMatchStore_PersistMatchGraph_Idempotent(t *testing.T) {
	store := NewMatchStore()
	ctx := context.Background()

	first, err := store.PersistMatchGraph(ctx, testGraph(111222))
	if err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	// Re-persisting the same graph updates in place, never duplicates.
	updated := testGraph(111222)
	updated.Games[0].Scores[0].TotalScore = 700000
	second, err := store.PersistMatchGraph(ctx, updated)
	if err != nil {
		t.Fatalf("Second persist failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("Expected match identity preserved, got %d want %d", second.ID, first.ID)
	}
	if len(second.Games) != 1 {
		t.Fatalf("Expected 1 game, got %d", len(second.Games))
	}
	if len(second.Games[0].Scores) != 2 {
		t.Fatalf("Expected 2 scores, got %d", len(second.Games[0].Scores))
	}
	if second.Games[0].ID != first.Games[0].ID {
		t.Errorf("Expected game identity preserved")
	}
	if second.Games[0].Scores[0].TotalScore != 700000 {
		t.Errorf("Expected score updated in place, got %d", second.Games[0].Scores[0].TotalScore)
	}
}

func TestMatchStore_PersistReturnsCopies(t *testing.T) {
	store := NewMatchStore()
	ctx := context.Background()

	persisted, err := store.PersistMatchGraph(ctx, testGraph(111222))
	if err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	// Mutating the returned graph must not leak into the store.
	persisted.Name = "tampered"
	persisted.Games[0].Scores[0].TotalScore = 1

	stored, err := store.GetByOsuID(ctx, 111222)
	if err != nil {
		t.Fatalf("GetByOsuID failed: %v", err)
	}
	if stored.Name == "tampered" {
		t.Error("Store returned a shared match reference")
	}
	if stored.Games[0].Scores[0].TotalScore == 1 {
		t.Error("Store returned a shared score reference")
	}
}

func TestMatchStore_UpdateVerificationState(t *testing.T) {
	store := NewMatchStore()
	ctx := context.Background()

	if _, err := store.PersistMatchGraph(ctx, testGraph(111222)); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	err := store.UpdateVerificationState(ctx, 111222,
		domain.ProcessingDone, domain.VerificationRejected, domain.RejectionInvalidLobbyName)
	if err != nil {
		t.Fatalf("UpdateVerificationState failed: %v", err)
	}

	stored, err := store.GetByOsuID(ctx, 111222)
	if err != nil {
		t.Fatalf("GetByOsuID failed: %v", err)
	}
	if stored.ProcessingStatus != domain.ProcessingDone {
		t.Errorf("ProcessingStatus = %s, want Done", stored.ProcessingStatus)
	}
	if stored.VerificationStatus != domain.VerificationRejected {
		t.Errorf("VerificationStatus = %s, want Rejected", stored.VerificationStatus)
	}
	if stored.RejectionReason != domain.RejectionInvalidLobbyName {
		t.Errorf("RejectionReason = %s, want InvalidLobbyName", stored.RejectionReason)
	}

	err = store.UpdateVerificationState(ctx, 999,
		domain.ProcessingDone, domain.VerificationPending, domain.RejectionNone)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown match, got %v", err)
	}
}

func TestMatchStore_DoneMatchesNeverClaimed(t *testing.T) {
	store := NewMatchStore()
	ctx := context.Background()

	if err := store.Enqueue(ctx, 111222, 7, domain.VerificationPending); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if _, err := store.ClaimNextPending(ctx); err != nil {
		t.Fatalf("ClaimNextPending failed: %v", err)
	}
	err := store.UpdateVerificationState(ctx, 111222,
		domain.ProcessingDone, domain.VerificationPreVerified, domain.RejectionNone)
	if err != nil {
		t.Fatalf("UpdateVerificationState failed: %v", err)
	}

	if _, err := store.ClaimNextPending(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected Done match to stay unclaimed, got %v", err)
	}
}

func TestMatchStore_Requeue(t *testing.T) {
	store := NewMatchStore()
	ctx := context.Background()

	if err := store.Enqueue(ctx, 111222, 7, domain.VerificationPending); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if _, err := store.ClaimNextPending(ctx); err != nil {
		t.Fatalf("ClaimNextPending failed: %v", err)
	}
	err := store.UpdateVerificationState(ctx, 111222,
		domain.ProcessingFetchFailed, domain.VerificationPending, domain.RejectionNone)
	if err != nil {
		t.Fatalf("UpdateVerificationState failed: %v", err)
	}

	if err := store.Requeue(ctx, 111222); err != nil {
		t.Fatalf("Requeue failed: %v", err)
	}

	claimed, err := store.ClaimNextPending(ctx)
	if err != nil {
		t.Fatalf("Expected requeued match claimable: %v", err)
	}
	if claimed.OsuID != 111222 {
		t.Errorf("Claimed %d, want 111222", claimed.OsuID)
	}
	if claimed.VerificationStatus != domain.VerificationPending {
		t.Errorf("Expected Pending after requeue, got %s", claimed.VerificationStatus)
	}
}
