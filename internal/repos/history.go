package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/designmill-backend/internal/logger"
	"github.com/yungbote/designmill-backend/internal/types"
)

// HistoryRepo is the history-store collaborator: append-only prompt and
// asset records plus design-run bookkeeping. Prompt and asset rows are
// never updated after insertion.
type HistoryRepo interface {
	RecentPromptHashes(ctx context.Context, limit int) ([]types.PromptHashPair, error)
	RecentAssetHashes(ctx context.Context, limit int) ([]types.AssetHashPair, error)
	InsertPromptRecord(ctx context.Context, rec *types.PromptRecord) error
	InsertAssetRecord(ctx context.Context, rec *types.AssetRecord) error
	CreateDesignRun(ctx context.Context, run *types.DesignRun) error
	UpdateDesignRunStatus(ctx context.Context, runID uuid.UUID, status, reason string) error
	GetDesignRun(ctx context.Context, runID uuid.UUID) (*types.DesignRun, error)
	ListDesignRuns(ctx context.Context, limit int) ([]types.DesignRun, error)
}

type historyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHistoryRepo(db *gorm.DB, baseLog *logger.Logger) HistoryRepo {
	return &historyRepo{db: db, log: baseLog.With("repo", "HistoryRepo")}
}

func (r *historyRepo) RecentPromptHashes(ctx context.Context, limit int) ([]types.PromptHashPair, error) {
	var rows []types.PromptRecord
	err := r.db.WithContext(ctx).
		Select("prompt_hash_simhash, prompt_hash_minhash").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent prompt hashes: %w", err)
	}
	out := make([]types.PromptHashPair, len(rows))
	for i, row := range rows {
		out[i] = types.PromptHashPair{SimHash: row.SimHash, MinHash: row.MinHash}
	}
	return out, nil
}

func (r *historyRepo) RecentAssetHashes(ctx context.Context, limit int) ([]types.AssetHashPair, error) {
	var rows []types.AssetRecord
	err := r.db.WithContext(ctx).
		Select("image_hash_phash, image_hash_dhash").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent asset hashes: %w", err)
	}
	out := make([]types.AssetHashPair, len(rows))
	for i, row := range rows {
		out[i] = types.AssetHashPair{PHash: row.PHash, DHash: row.DHash}
	}
	return out, nil
}

func (r *historyRepo) InsertPromptRecord(ctx context.Context, rec *types.PromptRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to insert prompt record: %w", err)
	}
	return nil
}

func (r *historyRepo) InsertAssetRecord(ctx context.Context, rec *types.AssetRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to insert asset record: %w", err)
	}
	return nil
}

func (r *historyRepo) CreateDesignRun(ctx context.Context, run *types.DesignRun) error {
	if run.Status == "" {
		run.Status = types.RunPending
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create design run: %w", err)
	}
	return nil
}

func (r *historyRepo) UpdateDesignRunStatus(ctx context.Context, runID uuid.UUID, status, reason string) error {
	err := r.db.WithContext(ctx).
		Model(&types.DesignRun{}).
		Where("id = ?", runID).
		Updates(map[string]interface{}{
			"status":     status,
			"reason":     reason,
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update design run %s: %w", runID, err)
	}
	return nil
}

func (r *historyRepo) GetDesignRun(ctx context.Context, runID uuid.UUID) (*types.DesignRun, error) {
	var run types.DesignRun
	if err := r.db.WithContext(ctx).First(&run, "id = ?", runID).Error; err != nil {
		return nil, fmt.Errorf("failed to load design run %s: %w", runID, err)
	}
	return &run, nil
}

func (r *historyRepo) ListDesignRuns(ctx context.Context, limit int) ([]types.DesignRun, error) {
	var runs []types.DesignRun
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list design runs: %w", err)
	}
	return runs, nil
}
