package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportRule maps a raw label from an imported ledger file to a category.
//
// The match is a glob pattern checked against the raw category or note of
// the record. Rules are applied in ascending priority order, the first
// match wins.
type ImportRule struct {
	DefaultModel
	Priority   uint
	Match      string `gorm:"index"`
	CategoryID uuid.UUID
	Category   Category `json:"-"`
}

// BeforeCreate verifies that the referenced category exists.
func (r *ImportRule) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	return tx.First(&Category{}, r.CategoryID).Error
}
