package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// VariableList groups the candidate values for one document key path.
// The list name is the key path it feeds (e.g. "visual_style.shading").
type VariableList struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (VariableList) TableName() string { return "variable_list" }

// VariableItem is one weighted, cooldown-gated choice inside a list.
// Value is opaque text; list-typed keys store JSON arrays in it.
type VariableItem struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VariableListID uuid.UUID      `gorm:"type:uuid;column:variable_list_id;not null;index" json:"variable_list_id"`
	Value          string         `gorm:"column:value;type:text;not null" json:"value"`
	Weight         float64        `gorm:"column:weight;not null;default:1" json:"weight"`
	Enabled        bool           `gorm:"column:enabled;not null;default:true" json:"enabled"`
	CooldownDays   int            `gorm:"column:cooldown_days;not null;default:0" json:"cooldown_days"`
	Tags           datatypes.JSON `gorm:"column:tags;type:jsonb" json:"tags,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (VariableItem) TableName() string { return "variable_item" }

// Resolution modes for VariableDefault.
const (
	ModeLocked   = "LOCKED"
	ModeWeighted = "WEIGHTED"
	ModeRandom   = "RANDOM"
	ModeSequence = "SEQUENCE"
	ModeLLM      = "LLM"
)

// VariableDefault pins how a single key path resolves and what it falls
// back to when no item is eligible.
type VariableDefault struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	KeyPath         string    `gorm:"column:key_path;not null;uniqueIndex" json:"key_path"`
	Mode            string    `gorm:"column:mode;not null;default:'LOCKED'" json:"mode"`
	DefaultValue    string    `gorm:"column:default_value;type:text" json:"default_value"`
	SequencePointer int       `gorm:"column:sequence_pointer;not null;default:0" json:"sequence_pointer"`
	LLMTemplate     *string   `gorm:"column:llm_template;type:text" json:"llm_template,omitempty"`
	CreatedAt       time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (VariableDefault) TableName() string { return "variable_default" }

// CooldownLogEntry marks one use of a variable item. Append-only; the
// eligibility window is derived from these rows, never from item state.
type CooldownLogEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VariableItemID uuid.UUID `gorm:"type:uuid;column:variable_item_id;not null;index" json:"variable_item_id"`
	UsedAt         time.Time `gorm:"column:used_at;not null;index" json:"used_at"`
}

func (CooldownLogEntry) TableName() string { return "cooldown_log" }
