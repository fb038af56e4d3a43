package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/designmill-backend/internal/types"
)

// fakeVariableRepo serves in-memory pools keyed by list name. Cooldown
// filtering is not simulated; tests that care about eligibility provide
// the filtered pool directly.
type fakeVariableRepo struct {
	mu       sync.Mutex
	items    map[string][]types.VariableItem
	defaults map[string]types.VariableDefault
	policy   types.GenerationPolicy
	cooled   []uuid.UUID
	pointers map[string]int
}

func newFakeVariableRepo() *fakeVariableRepo {
	return &fakeVariableRepo{
		items:    map[string][]types.VariableItem{},
		defaults: map[string]types.VariableDefault{},
		policy:   types.DefaultGenerationPolicy(),
		pointers: map[string]int{},
	}
}

func (f *fakeVariableRepo) addItems(keyPath string, values ...string) {
	for _, v := range values {
		f.items[keyPath] = append(f.items[keyPath], types.VariableItem{
			ID:      uuid.New(),
			Value:   v,
			Weight:  1.0,
			Enabled: true,
		})
	}
}

func (f *fakeVariableRepo) EligibleItems(_ context.Context, keyPath string, _ float64) ([]types.VariableItem, error) {
	return f.items[keyPath], nil
}

func (f *fakeVariableRepo) LogCooldown(_ context.Context, itemIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cooled = append(f.cooled, itemIDs...)
	return nil
}

func (f *fakeVariableRepo) DefaultsMap(_ context.Context) (map[string]types.VariableDefault, error) {
	return f.defaults, nil
}

func (f *fakeVariableRepo) AdvanceSequencePointer(_ context.Context, keyPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pointers[keyPath]++
	return nil
}

func (f *fakeVariableRepo) Policy(_ context.Context) (*types.GenerationPolicy, error) {
	p := f.policy
	return &p, nil
}

func (f *fakeVariableRepo) UpdatePolicy(_ context.Context, _ map[string]interface{}) (*types.GenerationPolicy, error) {
	p := f.policy
	return &p, nil
}

func (f *fakeVariableRepo) ListLists(_ context.Context) ([]types.VariableList, error) {
	return nil, nil
}

func (f *fakeVariableRepo) CreateList(_ context.Context, _ *types.VariableList) error { return nil }

func (f *fakeVariableRepo) ListItems(_ context.Context, listName string) ([]types.VariableItem, error) {
	return f.items[listName], nil
}

func (f *fakeVariableRepo) CreateItem(_ context.Context, listName string, item *types.VariableItem) error {
	f.items[listName] = append(f.items[listName], *item)
	return nil
}

func (f *fakeVariableRepo) UpdateItem(_ context.Context, _ uuid.UUID, _ map[string]interface{}) error {
	return nil
}

func (f *fakeVariableRepo) DeleteItem(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeVariableRepo) UpsertDefault(_ context.Context, def *types.VariableDefault) error {
	f.defaults[def.KeyPath] = *def
	return nil
}

// fakeHistoryRepo records everything in memory and serves recent hashes
// newest first.
type fakeHistoryRepo struct {
	mu      sync.Mutex
	prompts []types.PromptRecord
	assets  []types.AssetRecord
	runs    map[uuid.UUID]*types.DesignRun
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{runs: map[uuid.UUID]*types.DesignRun{}}
}

func (f *fakeHistoryRepo) RecentPromptHashes(_ context.Context, limit int) ([]types.PromptHashPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.PromptHashPair
	for i := len(f.prompts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, types.PromptHashPair{SimHash: f.prompts[i].SimHash, MinHash: f.prompts[i].MinHash})
	}
	return out, nil
}

func (f *fakeHistoryRepo) RecentAssetHashes(_ context.Context, limit int) ([]types.AssetHashPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.AssetHashPair
	for i := len(f.assets) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, types.AssetHashPair{PHash: f.assets[i].PHash, DHash: f.assets[i].DHash})
	}
	return out, nil
}

func (f *fakeHistoryRepo) InsertPromptRecord(_ context.Context, rec *types.PromptRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	f.prompts = append(f.prompts, *rec)
	return nil
}

func (f *fakeHistoryRepo) InsertAssetRecord(_ context.Context, rec *types.AssetRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	f.assets = append(f.assets, *rec)
	return nil
}

func (f *fakeHistoryRepo) CreateDesignRun(_ context.Context, run *types.DesignRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.Status == "" {
		run.Status = types.RunPending
	}
	f.runs[run.ID] = run
	return nil
}

func (f *fakeHistoryRepo) UpdateDesignRunStatus(_ context.Context, runID uuid.UUID, status, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if run, ok := f.runs[runID]; ok {
		run.Status = status
		run.Reason = reason
	}
	return nil
}

func (f *fakeHistoryRepo) GetDesignRun(_ context.Context, runID uuid.UUID) (*types.DesignRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs[runID], nil
}

func (f *fakeHistoryRepo) ListDesignRuns(_ context.Context, _ int) ([]types.DesignRun, error) {
	return nil, nil
}
