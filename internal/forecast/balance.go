package forecast

import (
	"github.com/flowcast/backend/internal/types"
	"github.com/shopspring/decimal"
)

// BalancePoint is the account balance at the end of one month.
type BalancePoint struct {
	Month   types.Month     `json:"month" example:"2024-05-01T00:00:00Z"`
	Balance decimal.Decimal `json:"balance" example:"120000"`
}

// BuildBalances folds monthly nets into running end-of-month balances.
//
// The first balance is the opening balance plus the first bucket's net,
// every further balance adds that month's net. The result has exactly one
// point per input bucket, in order.
func BuildBalances(buckets []MonthBucket, opening decimal.Decimal) []BalancePoint {
	points := make([]BalancePoint, 0, len(buckets))

	balance := opening
	for _, bucket := range buckets {
		balance = balance.Add(bucket.Net)
		points = append(points, BalancePoint{Month: bucket.Month, Balance: balance})
	}

	return points
}
