package services

import (
	"context"
	"strings"
	"testing"

	"github.com/yungbote/designmill-backend/internal/logger"
	"github.com/yungbote/designmill-backend/internal/types"
)

var (
	minhashA = strings.Repeat("0123456789abcdef", 64)
	minhashB = strings.Repeat("fedcba9876543210", 64)
)

func seedPrompt(t *testing.T, history *fakeHistoryRepo, simHash, minHash string) {
	t.Helper()
	err := history.InsertPromptRecord(context.Background(), &types.PromptRecord{
		SimHash: simHash,
		MinHash: minHash,
	})
	if err != nil {
		t.Fatalf("seed prompt: %v", err)
	}
}

func TestPromptRejectedWhenBothSignalsAgree(t *testing.T) {
	history := newFakeHistoryRepo()
	seedPrompt(t, history, "0000000000000003", minhashA) // distance 2

	svc := NewNoveltyService(logger.NewNop(), history)
	policy := types.DefaultGenerationPolicy()
	cand := &Candidate{SimHash: "0000000000000000", MinHash: minhashA}

	novel, reason, err := svc.PromptIsNovel(context.Background(), cand, &policy)
	if err != nil {
		t.Fatalf("PromptIsNovel failed: %v", err)
	}
	if novel {
		t.Fatalf("want rejection when both signals agree")
	}
	if !strings.Contains(reason, "MinHash similarity") {
		t.Fatalf("unexpected reason: %q", reason)
	}
}

func TestPromptAcceptedWhenMinHashDisagrees(t *testing.T) {
	history := newFakeHistoryRepo()
	seedPrompt(t, history, "0000000000000003", minhashB)

	svc := NewNoveltyService(logger.NewNop(), history)
	policy := types.DefaultGenerationPolicy()
	cand := &Candidate{SimHash: "0000000000000000", MinHash: minhashA}

	novel, _, err := svc.PromptIsNovel(context.Background(), cand, &policy)
	if err != nil {
		t.Fatalf("PromptIsNovel failed: %v", err)
	}
	if !novel {
		t.Fatalf("close SimHash alone must not reject when MinHash disagrees")
	}
}

func TestPromptAcceptedWhenSimHashIsFar(t *testing.T) {
	history := newFakeHistoryRepo()
	seedPrompt(t, history, "ffffffffffffffff", minhashA)

	svc := NewNoveltyService(logger.NewNop(), history)
	policy := types.DefaultGenerationPolicy()
	cand := &Candidate{SimHash: "0000000000000000", MinHash: minhashA}

	novel, _, err := svc.PromptIsNovel(context.Background(), cand, &policy)
	if err != nil {
		t.Fatalf("PromptIsNovel failed: %v", err)
	}
	if !novel {
		t.Fatalf("identical MinHash alone must not reject when SimHash is far")
	}
}

func TestPromptRejectedAgainstLegacyRecordWithoutMinHash(t *testing.T) {
	history := newFakeHistoryRepo()
	seedPrompt(t, history, "0000000000000001", "")

	svc := NewNoveltyService(logger.NewNop(), history)
	policy := types.DefaultGenerationPolicy()
	cand := &Candidate{SimHash: "0000000000000000", MinHash: minhashA}

	novel, reason, err := svc.PromptIsNovel(context.Background(), cand, &policy)
	if err != nil {
		t.Fatalf("PromptIsNovel failed: %v", err)
	}
	if novel {
		t.Fatalf("record without MinHash cannot exonerate a close SimHash")
	}
	if !strings.Contains(reason, "SimHash distance") {
		t.Fatalf("unexpected reason: %q", reason)
	}
}

func TestImageDuplicateOnClosePHash(t *testing.T) {
	history := newFakeHistoryRepo()
	err := history.InsertAssetRecord(context.Background(), &types.AssetRecord{
		PHash: "0000000000000007", // distance 3 from all-zero
		DHash: "ffffffffffffffff",
	})
	if err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	svc := NewNoveltyService(logger.NewNop(), history)
	policy := types.DefaultGenerationPolicy()

	dupe, reason, err := svc.ImageIsDuplicate(context.Background(), "0000000000000000", &policy)
	if err != nil {
		t.Fatalf("ImageIsDuplicate failed: %v", err)
	}
	if !dupe {
		t.Fatalf("close pHash must flag a duplicate")
	}
	if !strings.Contains(reason, "pHash distance") {
		t.Fatalf("unexpected reason: %q", reason)
	}
}

func TestImageNotDuplicateWhenOnlyDHashIsClose(t *testing.T) {
	history := newFakeHistoryRepo()
	// Stored dHash matches the candidate's render exactly, but the
	// decision reads pHash only.
	err := history.InsertAssetRecord(context.Background(), &types.AssetRecord{
		PHash: "ffffffffffffffff",
		DHash: "0000000000000000",
	})
	if err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	svc := NewNoveltyService(logger.NewNop(), history)
	policy := types.DefaultGenerationPolicy()

	dupe, _, err := svc.ImageIsDuplicate(context.Background(), "0000000000000000", &policy)
	if err != nil {
		t.Fatalf("ImageIsDuplicate failed: %v", err)
	}
	if dupe {
		t.Fatalf("dHash proximity alone must not reject when pHash is far")
	}
}

func TestImageNotDuplicateWhenPHashFar(t *testing.T) {
	history := newFakeHistoryRepo()
	err := history.InsertAssetRecord(context.Background(), &types.AssetRecord{
		PHash: "ffffffffffffffff",
		DHash: "ffffffffffffffff",
	})
	if err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	svc := NewNoveltyService(logger.NewNop(), history)
	policy := types.DefaultGenerationPolicy()

	dupe, _, err := svc.ImageIsDuplicate(context.Background(), "0000000000000000", &policy)
	if err != nil {
		t.Fatalf("ImageIsDuplicate failed: %v", err)
	}
	if dupe {
		t.Fatalf("distant pHash flagged as duplicate")
	}
}
