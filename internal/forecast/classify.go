package forecast

import (
	"fmt"

	"github.com/flowcast/backend/internal/types"
	"github.com/shopspring/decimal"
)

// RiskLevel is the overall cash-flow risk classification.
type RiskLevel string

const (
	RiskSafe   RiskLevel = "SAFE"
	RiskWarn   RiskLevel = "WARN"
	RiskDanger RiskLevel = "DANGER"
)

// Thresholds configures the risk classification.
//
// The defaults mirror the dashboard's historical policy: a shortfall within
// three months is acute, and a cash reserve below three months of average
// expenses is thin.
type Thresholds struct {
	DangerWithinMonths int             // Shortfall within this many months is DANGER
	ReserveMonths      decimal.Decimal // Balance below ReserveMonths * average expense is WARN
}

// DefaultThresholds returns the canonical threshold set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DangerWithinMonths: 3,
		ReserveMonths:      decimal.NewFromInt(3),
	}
}

// Assessment is the user-facing risk classification.
type Assessment struct {
	Level   RiskLevel `json:"level" example:"WARN"`
	Message string    `json:"message" example:"projected to run out of cash in 2025-03"`
}

// Classify maps a balance, average model and projection to a risk level.
//
// The rules are checked in priority order, the first match wins:
//  1. DANGER: a shortfall within the first DangerWithinMonths projected months.
//  2. WARN: a shortfall later in the horizon, a negative average net, or a
//     balance below ReserveMonths times the average monthly expense.
//  3. SAFE: none of the above.
//
// Classify never defaults to SAFE on bad input: callers must only invoke it
// with a projection obtained from Project, errors propagate there.
func Classify(balance decimal.Decimal, model AverageModel, projection Projection, thresholds Thresholds) Assessment {
	if projection.ShortfallMonth != nil {
		index := monthIndex(projection, *projection.ShortfallMonth)

		if index <= thresholds.DangerWithinMonths {
			return Assessment{
				Level:   RiskDanger,
				Message: fmt.Sprintf("projected to run out of cash in %s", projection.ShortfallMonth),
			}
		}

		return Assessment{
			Level:   RiskWarn,
			Message: fmt.Sprintf("projected to run out of cash in %s", projection.ShortfallMonth),
		}
	}

	if model.AvgNet.IsNegative() {
		return Assessment{
			Level:   RiskWarn,
			Message: "spending more than earning on average",
		}
	}

	reserve := model.AvgExpense.Mul(thresholds.ReserveMonths)
	if model.AvgExpense.IsPositive() && balance.LessThan(reserve) {
		return Assessment{
			Level:   RiskWarn,
			Message: fmt.Sprintf("cash reserve below %s months of average expenses", thresholds.ReserveMonths),
		}
	}

	return Assessment{
		Level:   RiskSafe,
		Message: "cash position is stable",
	}
}

// monthIndex returns the 1-based projection index of a month.
func monthIndex(projection Projection, month types.Month) int {
	for i, row := range projection.Rows {
		if row.Month.Equal(month) {
			return i + 1
		}
	}

	return len(projection.Rows) + 1
}
