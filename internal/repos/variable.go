package repos

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/designmill-backend/internal/logger"
	"github.com/yungbote/designmill-backend/internal/types"
)

// VariableRepo is the variable-store collaborator: weighted item pools,
// cooldown accounting, per-key resolution defaults and the generation
// policy singleton.
type VariableRepo interface {
	EligibleItems(ctx context.Context, keyPath string, cooldownMultiplier float64) ([]types.VariableItem, error)
	LogCooldown(ctx context.Context, itemIDs []uuid.UUID) error
	DefaultsMap(ctx context.Context) (map[string]types.VariableDefault, error)
	AdvanceSequencePointer(ctx context.Context, keyPath string) error
	Policy(ctx context.Context) (*types.GenerationPolicy, error)
	UpdatePolicy(ctx context.Context, updates map[string]interface{}) (*types.GenerationPolicy, error)

	ListLists(ctx context.Context) ([]types.VariableList, error)
	CreateList(ctx context.Context, list *types.VariableList) error
	ListItems(ctx context.Context, listName string) ([]types.VariableItem, error)
	CreateItem(ctx context.Context, listName string, item *types.VariableItem) error
	UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	UpsertDefault(ctx context.Context, def *types.VariableDefault) error
}

type variableRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVariableRepo(db *gorm.DB, baseLog *logger.Logger) VariableRepo {
	return &variableRepo{db: db, log: baseLog.With("repo", "VariableRepo")}
}

// InCooldown reports whether an item used at usedAt is still inside its
// cooldown window at now. The window is cooldownDays * multiplier, rounded
// to whole days. Eligibility depends on nothing but these inputs.
func InCooldown(now, usedAt time.Time, cooldownDays int, multiplier float64) bool {
	if cooldownDays <= 0 {
		return false
	}
	windowDays := int(math.Round(float64(cooldownDays) * multiplier))
	if windowDays <= 0 {
		return false
	}
	cutoff := now.Add(-time.Duration(windowDays) * 24 * time.Hour)
	return usedAt.After(cutoff) || usedAt.Equal(cutoff)
}

func (r *variableRepo) EligibleItems(ctx context.Context, keyPath string, cooldownMultiplier float64) ([]types.VariableItem, error) {
	var items []types.VariableItem
	err := r.db.WithContext(ctx).
		Joins("JOIN variable_list ON variable_list.id = variable_item.variable_list_id").
		Where("variable_list.name = ? AND variable_item.enabled = ?", keyPath, true).
		Order("variable_item.id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load items for %q: %w", keyPath, err)
	}
	if len(items) == 0 {
		return items, nil
	}

	lastUsed, err := r.lastUsedAt(ctx, items)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out := items[:0]
	for _, it := range items {
		used, ok := lastUsed[it.ID]
		if ok && InCooldown(now, used, it.CooldownDays, cooldownMultiplier) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// lastUsedAt returns the most recent cooldown-log timestamp per item.
func (r *variableRepo) lastUsedAt(ctx context.Context, items []types.VariableItem) (map[uuid.UUID]time.Time, error) {
	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	type row struct {
		VariableItemID uuid.UUID
		LastUsed       time.Time
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&types.CooldownLogEntry{}).
		Select("variable_item_id, MAX(used_at) AS last_used").
		Where("variable_item_id IN ?", ids).
		Group("variable_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cooldown log: %w", err)
	}
	out := make(map[uuid.UUID]time.Time, len(rows))
	for _, rr := range rows {
		out[rr.VariableItemID] = rr.LastUsed
	}
	return out, nil
}

func (r *variableRepo) LogCooldown(ctx context.Context, itemIDs []uuid.UUID) error {
	if len(itemIDs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	entries := make([]types.CooldownLogEntry, len(itemIDs))
	for i, id := range itemIDs {
		entries[i] = types.CooldownLogEntry{VariableItemID: id, UsedAt: now}
	}
	if err := r.db.WithContext(ctx).Create(&entries).Error; err != nil {
		return fmt.Errorf("failed to log cooldown: %w", err)
	}
	return nil
}

func (r *variableRepo) DefaultsMap(ctx context.Context) (map[string]types.VariableDefault, error) {
	var defs []types.VariableDefault
	if err := r.db.WithContext(ctx).Find(&defs).Error; err != nil {
		return nil, fmt.Errorf("failed to load variable defaults: %w", err)
	}
	out := make(map[string]types.VariableDefault, len(defs))
	for _, d := range defs {
		out[d.KeyPath] = d
	}
	return out, nil
}

func (r *variableRepo) AdvanceSequencePointer(ctx context.Context, keyPath string) error {
	err := r.db.WithContext(ctx).
		Model(&types.VariableDefault{}).
		Where("key_path = ?", keyPath).
		UpdateColumn("sequence_pointer", gorm.Expr("sequence_pointer + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to advance sequence pointer for %q: %w", keyPath, err)
	}
	return nil
}

func (r *variableRepo) Policy(ctx context.Context) (*types.GenerationPolicy, error) {
	var policy types.GenerationPolicy
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&policy).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load generation policy: %w", err)
	}
	return &policy, nil
}

func (r *variableRepo) UpdatePolicy(ctx context.Context, updates map[string]interface{}) (*types.GenerationPolicy, error) {
	policy, err := r.Policy(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(policy).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update generation policy: %w", err)
	}
	return r.Policy(ctx)
}

func (r *variableRepo) ListLists(ctx context.Context) ([]types.VariableList, error) {
	var lists []types.VariableList
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("failed to list variable lists: %w", err)
	}
	return lists, nil
}

func (r *variableRepo) CreateList(ctx context.Context, list *types.VariableList) error {
	if err := r.db.WithContext(ctx).Create(list).Error; err != nil {
		return fmt.Errorf("failed to create variable list %q: %w", list.Name, err)
	}
	return nil
}

func (r *variableRepo) ListItems(ctx context.Context, listName string) ([]types.VariableItem, error) {
	var items []types.VariableItem
	err := r.db.WithContext(ctx).
		Joins("JOIN variable_list ON variable_list.id = variable_item.variable_list_id").
		Where("variable_list.name = ?", listName).
		Order("variable_item.created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items for %q: %w", listName, err)
	}
	return items, nil
}

// CreateItem creates the owning list on first use so every key path can be
// populated without a separate list-creation step.
func (r *variableRepo) CreateItem(ctx context.Context, listName string, item *types.VariableItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var list types.VariableList
		err := tx.Where("name = ?", listName).First(&list).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			list = types.VariableList{Name: listName}
			if err := tx.Create(&list).Error; err != nil {
				return fmt.Errorf("failed to create variable list %q: %w", listName, err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to look up variable list %q: %w", listName, err)
		}
		item.VariableListID = list.ID
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to create variable item: %w", err)
		}
		return nil
	})
}

func (r *variableRepo) UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	err := r.db.WithContext(ctx).
		Model(&types.VariableItem{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to update variable item %s: %w", id, err)
	}
	return nil
}

func (r *variableRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&types.VariableItem{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete variable item %s: %w", id, err)
	}
	return nil
}

func (r *variableRepo) UpsertDefault(ctx context.Context, def *types.VariableDefault) error {
	var existing types.VariableDefault
	err := r.db.WithContext(ctx).Where("key_path = ?", def.KeyPath).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.db.WithContext(ctx).Create(def).Error; err != nil {
			return fmt.Errorf("failed to create default for %q: %w", def.KeyPath, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up default for %q: %w", def.KeyPath, err)
	}
	updates := map[string]interface{}{
		"mode":          def.Mode,
		"default_value": def.DefaultValue,
		"llm_template":  def.LLMTemplate,
	}
	if err := r.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update default for %q: %w", def.KeyPath, err)
	}
	return nil
}
