package forecast

import (
	"sort"
	"time"

	"github.com/flowcast/backend/internal/models"
	"github.com/flowcast/backend/internal/types"
	"github.com/shopspring/decimal"
)

// MonthBucket is the income, expense and net of one calendar month.
type MonthBucket struct {
	Month   types.Month     `json:"month" example:"2024-05-01T00:00:00Z"` // First of the month, UTC
	Income  decimal.Decimal `json:"income" example:"200000"`              // Sum of incoming amounts
	Expense decimal.Decimal `json:"expense" example:"150000"`             // Sum of outgoing amounts
	Net     decimal.Decimal `json:"net" example:"50000"`                  // Income minus expense
}

// monthKey extracts the UTC month a transaction belongs to.
//
// The timestamp is reduced to its date before the month is taken so that
// a transaction recorded late at night never slips into the neighboring
// month through time zone conversion.
func monthKey(date time.Time) types.Month {
	return types.MonthOf(date.In(time.UTC))
}

// Aggregate buckets transactions into calendar months.
//
// Transactions outside [from, until) are ignored. Opening balance
// transactions never contribute to income or expense, they only seed the
// running balance. With fillGaps, every month of the range appears in the
// output even if no transaction falls into it.
//
// The result is sorted ascending by month. For every range the sum of the
// bucket nets equals the sum of the signed amounts of the non-opening
// transactions in that range.
func Aggregate(transactions []models.Transaction, from, until types.Month, fillGaps bool) ([]MonthBucket, error) {
	if fillGaps && !from.Before(until) {
		return nil, ErrRangeInvalid
	}

	buckets := make(map[types.Month]*MonthBucket)
	for _, t := range transactions {
		if t.Source == models.TransactionSourceOpening {
			continue
		}

		month := monthKey(t.Date)
		if month.Before(from) || !month.Before(until) {
			continue
		}

		bucket, ok := buckets[month]
		if !ok {
			bucket = &MonthBucket{Month: month, Income: decimal.Zero, Expense: decimal.Zero, Net: decimal.Zero}
			buckets[month] = bucket
		}

		if t.Direction == models.DirectionIn {
			bucket.Income = bucket.Income.Add(t.Amount)
		} else {
			bucket.Expense = bucket.Expense.Add(t.Amount)
		}
		bucket.Net = bucket.Income.Sub(bucket.Expense)
	}

	var result []MonthBucket
	if fillGaps {
		for month := from; month.Before(until); month = month.Next() {
			if bucket, ok := buckets[month]; ok {
				result = append(result, *bucket)
				continue
			}

			result = append(result, MonthBucket{Month: month, Income: decimal.Zero, Expense: decimal.Zero, Net: decimal.Zero})
		}

		return result, nil
	}

	for _, bucket := range buckets {
		result = append(result, *bucket)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Month.Before(result[j].Month)
	})

	return result, nil
}
