package services

import (
	"context"
	"fmt"

	"github.com/yungbote/designmill-backend/internal/hashing"
	"github.com/yungbote/designmill-backend/internal/logger"
	"github.com/yungbote/designmill-backend/internal/repos"
	"github.com/yungbote/designmill-backend/internal/types"
)

// historyWindow caps how many recent records each check compares against.
const historyWindow = 200

// NoveltyService decides whether a candidate prompt or a rendered image
// is too close to recent history to ship.
type NoveltyService interface {
	PromptIsNovel(ctx context.Context, cand *Candidate, policy *types.GenerationPolicy) (bool, string, error)
	ImageIsDuplicate(ctx context.Context, pHash string, policy *types.GenerationPolicy) (bool, string, error)
}

type noveltyService struct {
	log     *logger.Logger
	history repos.HistoryRepo
}

func NewNoveltyService(log *logger.Logger, history repos.HistoryRepo) NoveltyService {
	return &noveltyService{
		log:     log.With("service", "NoveltyService"),
		history: history,
	}
}

// PromptIsNovel rejects a candidate only when a historical record is
// close on SimHash distance AND confirmed (or unverifiable) on MinHash
// similarity. A record without a stored MinHash cannot exonerate the
// candidate, so a close SimHash alone rejects against such records.
func (s *noveltyService) PromptIsNovel(ctx context.Context, cand *Candidate, policy *types.GenerationPolicy) (bool, string, error) {
	records, err := s.history.RecentPromptHashes(ctx, historyWindow)
	if err != nil {
		return false, "", err
	}
	for _, rec := range records {
		dist := hashing.HammingDistanceHex(cand.SimHash, rec.SimHash)
		if dist > policy.PromptDupeThreshold {
			continue
		}
		if rec.MinHash == "" {
			return false, fmt.Sprintf("SimHash distance %d <= %d", dist, policy.PromptDupeThreshold), nil
		}
		sim := hashing.MinHashSimilarityHex(cand.MinHash, rec.MinHash)
		if sim >= policy.MaxSimilarityPct {
			return false, fmt.Sprintf("MinHash similarity %.2f >= %.2f and SimHash distance %d <= %d",
				sim, policy.MaxSimilarityPct, dist, policy.PromptDupeThreshold), nil
		}
	}
	return true, "", nil
}

// ImageIsDuplicate flags a render whose pHash lands within the image
// threshold of any recent asset. dHash is stored alongside for forensics
// but does not participate in the decision.
func (s *noveltyService) ImageIsDuplicate(ctx context.Context, pHash string, policy *types.GenerationPolicy) (bool, string, error) {
	records, err := s.history.RecentAssetHashes(ctx, historyWindow)
	if err != nil {
		return false, "", err
	}
	for _, rec := range records {
		if rec.PHash == "" {
			continue
		}
		if d := hashing.HammingDistanceHex(pHash, rec.PHash); d <= policy.ImageDupeThreshold {
			return true, fmt.Sprintf("pHash distance %d <= %d", d, policy.ImageDupeThreshold), nil
		}
	}
	return false, "", nil
}
