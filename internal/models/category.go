package models

import (
	"strings"

	"gorm.io/gorm"
)

// Category labels transactions, e.g. "Sales" or "Rent".
type Category struct {
	DefaultModel
	Name string
	Note string
}

// BeforeSave trims whitespace from all strings.
func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)

	return nil
}
