package types

import (
	"time"

	"github.com/google/uuid"
)

// GenerationPolicy is the singleton threshold record consulted by the
// novelty and duplicate checks. One row; updated in place via the API.
type GenerationPolicy struct {
	ID                          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	MinDaysBetweenSimilarPrompt int       `gorm:"column:min_days_between_similar_prompt;not null;default:7" json:"min_days_between_similar_prompt"`
	MinNoveltyScore             float64   `gorm:"column:min_novelty_score;not null;default:0.55" json:"min_novelty_score"`
	MaxSimilarityPct            float64   `gorm:"column:max_similarity_pct;not null;default:0.92" json:"max_similarity_pct"`
	ImageDupeThreshold          int       `gorm:"column:image_dupe_threshold;not null;default:5" json:"image_dupe_threshold"`
	PromptDupeThreshold         int       `gorm:"column:prompt_dupe_threshold;not null;default:3" json:"prompt_dupe_threshold"`
	CooldownMultiplier          float64   `gorm:"column:cooldown_multiplier;not null;default:1" json:"cooldown_multiplier"`
	TopicDriftRate              float64   `gorm:"column:topic_drift_rate;not null;default:0.2" json:"topic_drift_rate"`
	Provider                    string    `gorm:"column:provider;not null;default:'synthetic'" json:"provider"`
	CreatedAt                   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt                   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (GenerationPolicy) TableName() string { return "generation_policy" }

// DefaultGenerationPolicy returns the thresholds seeded when the table is
// empty.
func DefaultGenerationPolicy() GenerationPolicy {
	return GenerationPolicy{
		MinDaysBetweenSimilarPrompt: 7,
		MinNoveltyScore:             0.55,
		MaxSimilarityPct:            0.92,
		ImageDupeThreshold:          5,
		PromptDupeThreshold:         3,
		CooldownMultiplier:          1.0,
		TopicDriftRate:              0.2,
		Provider:                    "synthetic",
	}
}
