package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PromptRecord is the append-only novelty history. Rows are never updated
// after insertion.
type PromptRecord struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DesignRunID  uuid.UUID      `gorm:"type:uuid;column:design_run_id;not null;index" json:"design_run_id"`
	JSONPayload  datatypes.JSON `gorm:"column:json_payload;type:jsonb" json:"json_payload"`
	CanonicalStr string         `gorm:"column:canonical_str;type:text;not null" json:"canonical_str"`
	SimHash      string         `gorm:"column:prompt_hash_simhash;type:varchar(16)" json:"simhash"`
	MinHash      string         `gorm:"column:prompt_hash_minhash;type:text" json:"minhash"`
	NoveltyScore float64        `gorm:"column:novelty_score;not null;default:0" json:"novelty_score"`
	CreatedAt    time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (PromptRecord) TableName() string { return "prompt_record" }

// AssetRecord is the append-only image-dedup history.
type AssetRecord struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DesignRunID     uuid.UUID      `gorm:"type:uuid;column:design_run_id;not null;index" json:"design_run_id"`
	PromptRecordID  uuid.UUID      `gorm:"type:uuid;column:prompt_record_id;not null;index" json:"prompt_record_id"`
	Provider        string         `gorm:"column:provider;not null" json:"provider"`
	RequestPayload  datatypes.JSON `gorm:"column:request_payload;type:jsonb" json:"request_payload,omitempty"`
	ResponsePayload datatypes.JSON `gorm:"column:response_payload;type:jsonb" json:"response_payload,omitempty"`
	FilePath        string         `gorm:"column:file_path;not null" json:"file_path"`
	PHash           string         `gorm:"column:image_hash_phash;type:varchar(16)" json:"phash"`
	DHash           string         `gorm:"column:image_hash_dhash;type:varchar(16)" json:"dhash"`
	Width           int            `gorm:"column:width;not null" json:"width"`
	Height          int            `gorm:"column:height;not null" json:"height"`
	DPI             int            `gorm:"column:dpi;not null;default:300" json:"dpi"`
	CreatedAt       time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (AssetRecord) TableName() string { return "asset_record" }

// PromptHashPair is the slim projection the novelty scan reads, newest
// first.
type PromptHashPair struct {
	SimHash string
	MinHash string
}

// AssetHashPair is the slim projection the image duplicate scan reads,
// newest first.
type AssetHashPair struct {
	PHash string
	DHash string
}
