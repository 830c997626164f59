package forecast

import (
	"github.com/flowcast/backend/internal/types"
	"github.com/shopspring/decimal"
)

// AverageModel is the trailing-window average income, expense and net over
// complete months.
type AverageModel struct {
	WindowMonths int             `json:"windowMonths" example:"6"`   // Requested window size
	SampleMonths int             `json:"sampleMonths" example:"6"`   // Months that actually contributed
	AvgIncome    decimal.Decimal `json:"avgIncome" example:"200000"` // Average monthly income
	AvgExpense   decimal.Decimal `json:"avgExpense" example:"250000"`
	AvgNet       decimal.Decimal `json:"avgNet" example:"-50000"` // AvgIncome minus AvgExpense
}

// Estimate computes the trailing-window average over the buckets strictly
// before asOf.
//
// The month asOf itself never contributes, it is usually the current,
// incomplete month and would drag the average down. When fewer than window
// months exist the average is taken over what is there; with no history at
// all the result is zero. The divisor never reaches zero.
func Estimate(buckets []MonthBucket, window int, asOf types.Month) (AverageModel, error) {
	if window < 1 {
		return AverageModel{}, ErrWindowInvalid
	}

	var sample []MonthBucket
	for _, bucket := range buckets {
		if bucket.Month.Before(asOf) {
			sample = append(sample, bucket)
		}
	}

	if len(sample) > window {
		sample = sample[len(sample)-window:]
	}

	income := decimal.Zero
	expense := decimal.Zero
	for _, bucket := range sample {
		income = income.Add(bucket.Income)
		expense = expense.Add(bucket.Expense)
	}

	divisor := decimal.NewFromInt(int64(max(len(sample), 1)))

	avgIncome := income.Div(divisor)
	avgExpense := expense.Div(divisor)

	return AverageModel{
		WindowMonths: window,
		SampleMonths: len(sample),
		AvgIncome:    avgIncome,
		AvgExpense:   avgExpense,
		AvgNet:       avgIncome.Sub(avgExpense),
	}, nil
}
