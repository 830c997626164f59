package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Scenario is a named what-if parameter set used to stress-test projections.
//
// The deltas are applied on top of the rolling average when projecting, e.g.
// "we hire someone for 300000 per month" is a DeltaExpense of 300000.
type Scenario struct {
	DefaultModel
	Name          string `gorm:"uniqueIndex"`
	Note          string
	DeltaIncome   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	DeltaExpense  decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	HorizonMonths int
}

// BeforeSave validates the scenario.
func (s *Scenario) BeforeSave(_ *gorm.DB) error {
	s.Name = strings.TrimSpace(s.Name)
	s.Note = strings.TrimSpace(s.Note)

	if s.HorizonMonths < 1 {
		return ErrScenarioHorizonNotPositive
	}

	return nil
}
