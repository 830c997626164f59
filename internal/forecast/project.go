package forecast

import (
	"github.com/flowcast/backend/internal/types"
	"github.com/shopspring/decimal"
)

// WhatIf is a hypothetical monthly adjustment applied to a projection.
type WhatIf struct {
	DeltaIncome  decimal.Decimal `json:"deltaIncome" example:"100000"`
	DeltaExpense decimal.Decimal `json:"deltaExpense" example:"300000"`
}

// ProjectionRow is the expected cash position for one future month.
type ProjectionRow struct {
	Month            types.Month     `json:"month" example:"2024-06-01T00:00:00Z"`
	AssumedNet       decimal.Decimal `json:"assumedNet" example:"-50000"`
	ProjectedBalance decimal.Decimal `json:"projectedBalance" example:"450000"`
}

// Projection is the result of extrapolating an account's cash position.
type Projection struct {
	CurrentBalance decimal.Decimal `json:"currentBalance" example:"500000"`
	AssumedNet     decimal.Decimal `json:"assumedNet" example:"-50000"` // Constant monthly net over the horizon
	ShortfallMonth *types.Month    `json:"shortfallMonth"`              // First month with a negative balance, if any
	Rows           []ProjectionRow `json:"rows"`
}

// Project extrapolates the balance over the coming horizon months.
//
// The model is a flat extrapolation: the assumed net is the average net
// plus the what-if deltas and stays constant over the whole horizon, so
// projected balance for month i is exactly balance + assumedNet * i. The
// multiplication keeps full decimal precision, rounding happens only at
// presentation.
//
// The shortfall month is the first month with a balance strictly below
// zero. A month that lands exactly on zero is not a shortfall.
func Project(balance decimal.Decimal, model AverageModel, horizon int, start types.Month, whatIf *WhatIf) (Projection, error) {
	if horizon < 1 {
		return Projection{}, ErrHorizonInvalid
	}

	assumed := model.AvgNet
	if whatIf != nil {
		assumed = assumed.Add(whatIf.DeltaIncome).Sub(whatIf.DeltaExpense)
	}

	projection := Projection{
		CurrentBalance: balance,
		AssumedNet:     assumed,
		Rows:           make([]ProjectionRow, 0, horizon),
	}

	for i := 1; i <= horizon; i++ {
		month := start.AddDate(0, i)
		projected := balance.Add(assumed.Mul(decimal.NewFromInt(int64(i))))

		if projection.ShortfallMonth == nil && projected.IsNegative() {
			m := month
			projection.ShortfallMonth = &m
		}

		projection.Rows = append(projection.Rows, ProjectionRow{
			Month:            month,
			AssumedNet:       assumed,
			ProjectedBalance: projected,
		})
	}

	return projection, nil
}
