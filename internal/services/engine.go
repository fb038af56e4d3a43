package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/yungbote/designmill-backend/internal/hashing"
	"github.com/yungbote/designmill-backend/internal/logger"
	"github.com/yungbote/designmill-backend/internal/prompt"
	"github.com/yungbote/designmill-backend/internal/repos"
	"github.com/yungbote/designmill-backend/internal/types"
)

// weightFloor keeps every eligible item drawable: an explicit zero weight
// must never lock an item out of the pool entirely.
const weightFloor = 0.0001

// Candidate is a fully resolved design brief plus the fingerprints the
// novelty check consumes. UsedItemIDs lists every item drawn while
// resolving, charged to the cooldown log once the prompt is accepted.
type Candidate struct {
	Document      *prompt.Document
	Canonical     string
	SlimCanonical string
	SimHash       string
	MinHash       string
	UsedItemIDs   []uuid.UUID
}

// PromptEngine resolves variable choices into a document, fingerprints
// it, and mutates it under retry pressure.
type PromptEngine interface {
	Build(ctx context.Context, policy *types.GenerationPolicy, title string) (*Candidate, error)
	Fingerprint(cand *Candidate) error
	Mutate(ctx context.Context, doc *prompt.Document)
}

type promptEngine struct {
	log   *logger.Logger
	vars  repos.VariableRepo
	synth TextSynthesizer
	rng   *rand.Rand
}

func NewPromptEngine(log *logger.Logger, vars repos.VariableRepo, synth TextSynthesizer, rng *rand.Rand) PromptEngine {
	return &promptEngine{
		log:   log.With("service", "PromptEngine"),
		vars:  vars,
		synth: synth,
		rng:   rng,
	}
}

func (e *promptEngine) Build(ctx context.Context, policy *types.GenerationPolicy, title string) (*Candidate, error) {
	defaults, err := e.vars.DefaultsMap(ctx)
	if err != nil {
		return nil, err
	}

	doc := prompt.DefaultFrame()
	if title == "" {
		title = "Design Mill Auto"
	}
	doc.DesignTitle = title

	keyPaths := make([]string, 0, len(defaults))
	for kp := range defaults {
		keyPaths = append(keyPaths, kp)
	}
	sort.Strings(keyPaths)

	var used []uuid.UUID
	for _, kp := range keyPaths {
		def := defaults[kp]
		val, ids, err := e.resolveValue(ctx, def.Mode, kp, def, policy)
		if err != nil {
			return nil, err
		}
		used = append(used, ids...)
		if val == nil {
			continue
		}
		if err := prompt.SetPath(doc, kp, val); err != nil {
			e.log.Warn("Skipping unassignable resolved value", "key_path", kp, "error", err)
		}
	}

	prompt.ApplyMutualExclusions(doc)

	if violations := prompt.Validate(doc); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	cand := &Candidate{Document: doc, UsedItemIDs: used}
	if err := e.Fingerprint(cand); err != nil {
		return nil, err
	}
	return cand, nil
}

// Fingerprint recomputes both canonical forms and the similarity hashes
// from the candidate's current document. Called after every mutation.
func (e *promptEngine) Fingerprint(cand *Candidate) error {
	full, err := prompt.Canonical(cand.Document)
	if err != nil {
		return err
	}
	slim, err := prompt.SlimCanonical(cand.Document)
	if err != nil {
		return err
	}
	cand.Canonical = full
	cand.SlimCanonical = slim
	cand.SimHash = hashing.SimHash64(slim)
	cand.MinHash = hashing.MinHashHex(slim)
	return nil
}

// resolveValue resolves one key path under its configured mode. Returned
// ids are charged to cooldown by the caller regardless of what happens to
// the value afterwards.
func (e *promptEngine) resolveValue(ctx context.Context, mode, keyPath string, def types.VariableDefault, policy *types.GenerationPolicy) (interface{}, []uuid.UUID, error) {
	switch mode {
	case types.ModeLocked:
		return parseStoredValue(keyPath, def.DefaultValue), nil, nil
	case types.ModeLLM:
		val, err := e.synth.GenerateValue(ctx, keyPath, nil, def.LLMTemplate)
		if err == nil && val != nil {
			return val, nil, nil
		}
		if err != nil && !errors.Is(err, ErrUnavailable) {
			e.log.Warn("Text synthesis failed, falling back to random", "key_path", keyPath, "error", err)
		}
		return e.resolveRandom(ctx, keyPath, def, policy)
	case types.ModeRandom, types.ModeWeighted:
		return e.resolveRandom(ctx, keyPath, def, policy)
	case types.ModeSequence:
		return e.resolveSequence(ctx, keyPath, def, policy)
	default:
		return parseStoredValue(keyPath, def.DefaultValue), nil, nil
	}
}

// fetchPool loads eligible items, retrying without the cooldown filter
// when every item is cooling down.
func (e *promptEngine) fetchPool(ctx context.Context, keyPath string, policy *types.GenerationPolicy) ([]types.VariableItem, error) {
	items, err := e.vars.EligibleItems(ctx, keyPath, policy.CooldownMultiplier)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		items, err = e.vars.EligibleItems(ctx, keyPath, 0)
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (e *promptEngine) resolveRandom(ctx context.Context, keyPath string, def types.VariableDefault, policy *types.GenerationPolicy) (interface{}, []uuid.UUID, error) {
	items, err := e.fetchPool(ctx, keyPath, policy)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return parseStoredValue(keyPath, def.DefaultValue), nil, nil
	}

	choice := e.weightedChoice(items)
	used := []uuid.UUID{choice.ID}

	// Genre tag clusters are stored as JSON arrays in the item value.
	if keyPath == "visual_style.genre_tags" {
		return parseTagCluster(choice.Value), used, nil
	}

	if k := prompt.MultiValueCardinality(keyPath); k > 1 {
		vals := []interface{}{prompt.CoerceValue(keyPath, choice.Value)}
		pool := make([]types.VariableItem, 0, len(items)-1)
		for _, it := range items {
			if it.ID != choice.ID {
				pool = append(pool, it)
			}
		}
		// Extra draws are uniform, not weight-proportional.
		for _, idx := range e.rng.Perm(len(pool)) {
			if len(vals) >= k {
				break
			}
			vals = append(vals, prompt.CoerceValue(keyPath, pool[idx].Value))
			used = append(used, pool[idx].ID)
		}
		return vals, used, nil
	}

	return prompt.CoerceValue(keyPath, choice.Value), used, nil
}

func (e *promptEngine) resolveSequence(ctx context.Context, keyPath string, def types.VariableDefault, policy *types.GenerationPolicy) (interface{}, []uuid.UUID, error) {
	items, err := e.fetchPool(ctx, keyPath, policy)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return parseStoredValue(keyPath, def.DefaultValue), nil, nil
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID.String() < items[j].ID.String()
	})
	choice := items[def.SequencePointer%len(items)]
	if err := e.vars.AdvanceSequencePointer(ctx, keyPath); err != nil {
		e.log.Warn("Failed to advance sequence pointer", "key_path", keyPath, "error", err)
	}
	return prompt.CoerceValue(keyPath, choice.Value), []uuid.UUID{choice.ID}, nil
}

// weightedChoice draws one item proportionally to weight, with weights
// floored so zero-weight items keep a nonzero probability.
func (e *promptEngine) weightedChoice(items []types.VariableItem) types.VariableItem {
	total := 0.0
	for _, it := range items {
		total += flooredWeight(it.Weight)
	}
	r := e.rng.Float64() * total
	for _, it := range items {
		r -= flooredWeight(it.Weight)
		if r < 0 {
			return it
		}
	}
	return items[len(items)-1]
}

func flooredWeight(w float64) float64 {
	if w < weightFloor {
		return weightFloor
	}
	return w
}

// Mutate applies the shared retry strategy: rotate list-valued creative
// fields by one, then redraw a curated set of high-impact fields while
// ignoring cooldowns entirely, to maximize the chance of escaping a
// near-duplicate.
func (e *promptEngine) Mutate(ctx context.Context, doc *prompt.Document) {
	doc.Subject = rotate(doc.Subject)
	doc.IconsSymbols = rotate(doc.IconsSymbols)

	if vals := e.redraw(ctx, "subject", 3); vals != nil {
		doc.Subject = vals
	}
	if vals := e.redraw(ctx, "icons_symbols", 2); vals != nil {
		doc.IconsSymbols = vals
	}
	if vals := e.redraw(ctx, "composition.style", 2); vals != nil {
		doc.Composition.Style = vals
	}
	if items, err := e.vars.EligibleItems(ctx, "visual_style.genre_tags", 0); err == nil && len(items) > 0 {
		choice := items[e.rng.Intn(len(items))]
		doc.VisualStyle.GenreTags = parseTagCluster(choice.Value)
	}
	if vals := e.redraw(ctx, "color.gradient_map.scheme", 1); vals != nil {
		doc.Color.GradientMap.Scheme = vals[0]
	}
	if vals := e.redraw(ctx, "text.secondary", 1); vals != nil {
		doc.Text.Secondary = vals[0]
	}
}

// redraw samples up to k distinct item values for keyPath with cooldowns
// disabled. Returns nil when the list is empty.
func (e *promptEngine) redraw(ctx context.Context, keyPath string, k int) []string {
	items, err := e.vars.EligibleItems(ctx, keyPath, 0)
	if err != nil || len(items) == 0 {
		return nil
	}
	if k > len(items) {
		k = len(items)
	}
	out := make([]string, 0, k)
	for _, idx := range e.rng.Perm(len(items))[:k] {
		out = append(out, items[idx].Value)
	}
	return out
}

func rotate(vals []string) []string {
	if len(vals) < 2 {
		return vals
	}
	return append(vals[1:], vals[0])
}

// parseStoredValue decodes a stored default: JSON when it parses (covers
// arrays, numbers, booleans), otherwise the declared-type coercion of the
// raw text. Empty defaults resolve to nil so the frame value survives.
func parseStoredValue(keyPath, raw string) interface{} {
	if raw == "" {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		if f, ok := v.(float64); ok {
			// Normalize JSON numbers onto int leaves where declared.
			switch coerced := prompt.CoerceValue(keyPath, fmt.Sprintf("%v", f)).(type) {
			case int, float64, bool:
				return coerced
			}
		}
		return v
	}
	return prompt.CoerceValue(keyPath, raw)
}

// parseTagCluster decodes a stored JSON array of genre tags, wrapping a
// bare string as a single-tag cluster.
func parseTagCluster(raw string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err == nil {
		return tags
	}
	return []string{raw}
}
