package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"gorm.io/datatypes"

	"github.com/yungbote/designmill-backend/internal/hashing"
	"github.com/yungbote/designmill-backend/internal/logger"
	"github.com/yungbote/designmill-backend/internal/repos"
	"github.com/yungbote/designmill-backend/internal/types"
)

// RunOptions parameterize one pipeline execution.
type RunOptions struct {
	JobKey     string
	Title      string
	RandomSeed int64
	// ForceNew mutates even the first candidate, pushing the run away
	// from whatever the pools would deterministically resolve to.
	ForceNew bool
}

// RunResult summarizes a finished run for callers that trigger it
// synchronously.
type RunResult struct {
	RunID    uuid.UUID `json:"run_id"`
	Status   string    `json:"status"`
	Reason   string    `json:"reason,omitempty"`
	FilePath string    `json:"file_path,omitempty"`
	Attempts int       `json:"attempts"`
}

// PipelineService executes the full prompt-to-asset run. At most one run
// may be in flight at a time.
type PipelineService interface {
	RunOnce(ctx context.Context, opts RunOptions) (*RunResult, error)
}

type pipelineService struct {
	log        *logger.Logger
	vars       repos.VariableRepo
	history    repos.HistoryRepo
	engine     PromptEngine
	novelty    NoveltyService
	provider   ImageProvider
	sem        *semaphore.Weighted
	maxRetries int
	dataDir    string
}

func NewPipelineService(log *logger.Logger, vars repos.VariableRepo, history repos.HistoryRepo, engine PromptEngine, novelty NoveltyService, provider ImageProvider, maxRetries int, dataDir string) PipelineService {
	return &pipelineService{
		log:        log.With("service", "PipelineService"),
		vars:       vars,
		history:    history,
		engine:     engine,
		novelty:    novelty,
		provider:   provider,
		sem:        semaphore.NewWeighted(1),
		maxRetries: maxRetries,
		dataDir:    dataDir,
	}
}

// RunOnce drives a single run through its lifecycle. A SKIPPED or
// GENERATED outcome is not an error; only infrastructure failures return
// one, after the run is marked FAILED.
func (s *pipelineService) RunOnce(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if !s.sem.TryAcquire(1) {
		return nil, ErrRunInProgress
	}
	defer s.sem.Release(1)

	run := &types.DesignRun{JobKey: opts.JobKey}
	if err := s.history.CreateDesignRun(ctx, run); err != nil {
		return nil, err
	}
	log := s.log.With("run_id", run.ID, "job_key", opts.JobKey)
	log.Info("Design run started")

	result, err := s.execute(ctx, log, run, opts)
	if err != nil {
		log.Error("Design run failed", "error", err)
		if uerr := s.history.UpdateDesignRunStatus(ctx, run.ID, types.RunFailed, err.Error()); uerr != nil {
			log.Error("Failed to mark run FAILED", "error", uerr)
		}
		return &RunResult{RunID: run.ID, Status: types.RunFailed, Reason: err.Error()}, err
	}
	return result, nil
}

func (s *pipelineService) execute(ctx context.Context, log *logger.Logger, run *types.DesignRun, opts RunOptions) (*RunResult, error) {
	policy, err := s.vars.Policy(ctx)
	if err != nil {
		return nil, err
	}

	cand, attempts, reason, err := s.buildNovelPrompt(ctx, log, policy, opts)
	if err != nil {
		return nil, err
	}
	if cand == nil {
		full := "novelty failure: " + reason
		if err := s.history.UpdateDesignRunStatus(ctx, run.ID, types.RunSkipped, full); err != nil {
			return nil, err
		}
		log.Info("Design run skipped", "reason", full)
		return &RunResult{RunID: run.ID, Status: types.RunSkipped, Reason: full, Attempts: attempts}, nil
	}

	promptRec, err := s.acceptPrompt(ctx, run.ID, cand)
	if err != nil {
		return nil, err
	}
	if err := s.history.UpdateDesignRunStatus(ctx, run.ID, types.RunPrompted, ""); err != nil {
		return nil, err
	}
	log.Info("Prompt accepted", "simhash", cand.SimHash, "attempts", attempts+1)

	asset, genAttempts, dupeReason, err := s.generateUniqueImage(ctx, log, run.ID, promptRec, cand, policy)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		full := "image duplicate threshold reached: " + dupeReason
		if err := s.history.UpdateDesignRunStatus(ctx, run.ID, types.RunSkipped, full); err != nil {
			return nil, err
		}
		log.Info("Design run skipped", "reason", full)
		return &RunResult{RunID: run.ID, Status: types.RunSkipped, Reason: full, Attempts: genAttempts}, nil
	}

	if err := s.history.UpdateDesignRunStatus(ctx, run.ID, types.RunGenerated, ""); err != nil {
		return nil, err
	}
	log.Info("Design run generated", "file_path", asset.FilePath, "phash", asset.PHash, "dhash", asset.DHash)
	return &RunResult{
		RunID:    run.ID,
		Status:   types.RunGenerated,
		FilePath: asset.FilePath,
		Attempts: genAttempts,
	}, nil
}

// buildNovelPrompt resolves a fresh document and retries with mutation
// until the novelty gate passes or the retry budget is spent. A nil
// candidate with a reason means the budget ran out.
func (s *pipelineService) buildNovelPrompt(ctx context.Context, log *logger.Logger, policy *types.GenerationPolicy, opts RunOptions) (*Candidate, int, string, error) {
	var lastReason string
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		cand, err := s.engine.Build(ctx, policy, opts.Title)
		if err != nil {
			return nil, attempt, "", err
		}
		if opts.RandomSeed != 0 {
			cand.Document.Output.Seed = int(opts.RandomSeed)
		}
		mutated := attempt > 0 || opts.ForceNew
		if mutated {
			s.engine.Mutate(ctx, cand.Document)
		}
		if mutated || opts.RandomSeed != 0 {
			if err := s.engine.Fingerprint(cand); err != nil {
				return nil, attempt, "", err
			}
		}
		novel, reason, err := s.novelty.PromptIsNovel(ctx, cand, policy)
		if err != nil {
			return nil, attempt, "", err
		}
		if novel {
			return cand, attempt, "", nil
		}
		lastReason = reason
		log.Info("Prompt rejected as near-duplicate", "attempt", attempt, "reason", reason)
	}
	return nil, s.maxRetries + 1, lastReason, nil
}

// acceptPrompt persists the accepted candidate, charges cooldowns for
// every drawn item and writes the prompt JSON next to the future asset.
func (s *pipelineService) acceptPrompt(ctx context.Context, runID uuid.UUID, cand *Candidate) (*types.PromptRecord, error) {
	rec := &types.PromptRecord{
		DesignRunID:  runID,
		JSONPayload:  datatypes.JSON(cand.Canonical),
		CanonicalStr: cand.SlimCanonical,
		SimHash:      cand.SimHash,
		MinHash:      cand.MinHash,
		NoveltyScore: 0.6,
	}
	if err := s.history.InsertPromptRecord(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.vars.LogCooldown(ctx, cand.UsedItemIDs); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	promptPath := filepath.Join(s.dataDir, fmt.Sprintf("run_%s_prompt.json", runID))
	if err := os.WriteFile(promptPath, []byte(cand.Canonical), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write prompt file: %w", err)
	}
	return rec, nil
}

// generateUniqueImage renders the document, hashes the result and
// retries with prompt mutation while the render collides with recent
// assets. A nil record with a reason means every attempt collided.
func (s *pipelineService) generateUniqueImage(ctx context.Context, log *logger.Logger, runID uuid.UUID, promptRec *types.PromptRecord, cand *Candidate, policy *types.GenerationPolicy) (*types.AssetRecord, int, string, error) {
	var lastReason string
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		res, err := s.provider.Generate(ctx, cand.Document)
		if err != nil {
			return nil, attempt, "", fmt.Errorf("image provider %q: %w", s.provider.Name(), err)
		}

		dHash := hashing.DHashGray(res.Gray)
		pHash := hashing.PHashGray(res.Gray)
		dupe, reason, err := s.novelty.ImageIsDuplicate(ctx, pHash, policy)
		if err != nil {
			return nil, attempt, "", err
		}
		if dupe {
			lastReason = reason
			log.Info("Image rejected as duplicate", "attempt", attempt, "reason", reason)
			if err := os.Remove(res.FilePath); err != nil && !os.IsNotExist(err) {
				log.Warn("Failed to remove duplicate render", "file_path", res.FilePath, "error", err)
			}
			s.engine.Mutate(ctx, cand.Document)
			if err := s.engine.Fingerprint(cand); err != nil {
				return nil, attempt, "", err
			}
			continue
		}

		finalPath, err := s.placeArtifact(runID, res.FilePath)
		if err != nil {
			return nil, attempt, "", err
		}

		payload, err := jsonPayload(res.ResponsePayload)
		if err != nil {
			return nil, attempt, "", err
		}
		rec := &types.AssetRecord{
			DesignRunID:     runID,
			PromptRecordID:  promptRec.ID,
			Provider:        s.provider.Name(),
			RequestPayload:  datatypes.JSON(cand.Canonical),
			ResponsePayload: datatypes.JSON(payload),
			FilePath:        finalPath,
			PHash:           pHash,
			DHash:           dHash,
			Width:           res.Width,
			Height:          res.Height,
			DPI:             cand.Document.PrintSpec.DPITarget,
		}
		if err := s.history.InsertAssetRecord(ctx, rec); err != nil {
			return nil, attempt, "", err
		}
		return rec, attempt + 1, "", nil
	}
	return nil, s.maxRetries + 1, lastReason, nil
}

func jsonPayload(m map[string]interface{}) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode provider payload: %w", err)
	}
	return b, nil
}

// placeArtifact moves the provider's temp render to its durable name
// under the data dir, copying across filesystems when rename fails.
func (s *pipelineService) placeArtifact(runID uuid.UUID, src string) (string, error) {
	name := fmt.Sprintf("run_%s_%s.png", runID, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	dst := filepath.Join(s.dataDir, name)
	if err := os.Rename(src, dst); err == nil {
		return dst, nil
	}
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open rendered artifact: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create artifact file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return "", fmt.Errorf("failed to copy artifact: %w", err)
	}
	_ = os.Remove(src)
	return dst, nil
}
