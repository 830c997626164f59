package models

import (
	"github.com/flowcast/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// MonthlyFlow is a materialized monthly aggregate for one account.
//
// It is never the source of truth. Every row is a pure function of the
// ledger and can be recomputed at any time. Concurrent recomputation for the
// same (account, month) key converges to the same value, so the upsert uses
// last write wins.
type MonthlyFlow struct {
	DefaultModel
	AccountID uuid.UUID       `gorm:"uniqueIndex:monthly_flow_account_month"`
	Account   Account         `json:"-"`
	Month     types.Month     `gorm:"uniqueIndex:monthly_flow_account_month"`
	Income    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Expense   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Net       decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Balance   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

// upsertClause is the conflict handling for idempotent recomputation.
var upsertClause = clause.OnConflict{
	Columns:   []clause.Column{{Name: "account_id"}, {Name: "month"}},
	DoUpdates: clause.AssignmentColumns([]string{"income", "expense", "net", "balance", "updated_at"}),
}

// ReplaceMonthlyFlows upserts the flows for an account in one transaction.
func ReplaceMonthlyFlows(flows []MonthlyFlow) error {
	if len(flows) == 0 {
		return nil
	}

	tx := DB.Begin()
	for i := range flows {
		if err := tx.Clauses(upsertClause).Create(&flows[i]).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}
