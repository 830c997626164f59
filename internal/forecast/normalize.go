// Package forecast implements the cash-flow projection engine.
//
// Every function in this package is a pure function of its inputs: the
// engine never reaches into the database or other ambient state, so an
// evaluation can be re-run or cached freely. Money is handled as
// shopspring decimals end to end, rounding is left to the presentation
// layer.
package forecast

import (
	"strings"
	"time"

	"github.com/flowcast/backend/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/width"
)

// RawRecord is a ledger record as it appears in an export file, before any
// cleanup. Field values are inconsistent between sources: directions appear
// as "in"/"income"/"収入" and friends, amounts carry grouping commas,
// currency signs or full-width digits.
type RawRecord struct {
	Date      string
	Direction string
	Amount    string
	Category  string
	Note      string
}

// directions is the explicit mapping table from raw direction labels to
// canonical directions. Lookups are case insensitive.
//
// Unknown labels are a validation error. Earlier implementations of this
// dashboard treated every unknown label as an expense, which silently
// miscategorized records.
var directions = map[string]models.TransactionDirection{
	"in":         models.DirectionIn,
	"income":     models.DirectionIn,
	"inflow":     models.DirectionIn,
	"deposit":    models.DirectionIn,
	"収入":         models.DirectionIn,
	"入金":         models.DirectionIn,
	"out":        models.DirectionOut,
	"expense":    models.DirectionOut,
	"outflow":    models.DirectionOut,
	"withdrawal": models.DirectionOut,
	"支出":         models.DirectionOut,
	"出金":         models.DirectionOut,
}

// dateFormats are the date layouts accepted for raw records, checked in order.
var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
	time.RFC3339,
}

// amountReplacer strips grouping and currency decoration from raw amounts.
var amountReplacer = strings.NewReplacer(",", "", " ", "", "¥", "", "$", "", "€", "")

// Normalize turns a raw ledger record into a canonical transaction.
//
// The returned transaction has a non-negative amount and a direction that
// is exactly IN or OUT. Any field that cannot be interpreted results in a
// ValidationError naming the field, the record is never silently mangled.
func Normalize(raw RawRecord) (models.Transaction, error) {
	date, err := ParseDate(raw.Date)
	if err != nil {
		return models.Transaction{}, err
	}

	direction, err := ParseDirection(raw.Direction)
	if err != nil {
		return models.Transaction{}, err
	}

	amount, err := ParseAmount(raw.Amount)
	if err != nil {
		return models.Transaction{}, err
	}

	return models.Transaction{
		Date:      date,
		Direction: direction,
		Amount:    amount,
		Source:    models.TransactionSourceImported,
		Note:      strings.TrimSpace(raw.Note),
	}, nil
}

// ParseDate parses the date of a raw record.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ValidationError{Field: "date", Reason: "is missing"}
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			// Keep the date only, anchored to UTC
			year, month, day := t.Date()
			return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, ValidationError{Field: "date", Reason: "cannot be parsed"}
}

// ParseDirection coerces a raw direction label to IN or OUT via the
// explicit mapping table.
func ParseDirection(s string) (models.TransactionDirection, error) {
	direction, ok := directions[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", ValidationError{Field: "direction", Reason: "is not a known direction label"}
	}

	return direction, nil
}

// ParseAmount coerces a raw amount to a finite non-negative decimal.
//
// Full-width digits and punctuation are folded to their ASCII forms first,
// Japanese accounting exports commonly use them.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = width.Narrow.String(strings.TrimSpace(s))
	s = amountReplacer.Replace(s)
	if s == "" {
		return decimal.Zero, ValidationError{Field: "amount", Reason: "is missing"}
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ValidationError{Field: "amount", Reason: "cannot be parsed"}
	}

	if amount.IsNegative() {
		return decimal.Zero, ValidationError{Field: "amount", Reason: "must not be negative, use the direction instead"}
	}

	return amount, nil
}
