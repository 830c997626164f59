package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"gorm.io/gorm"
)

// Account represents a cash account, e.g. a bank account or a cash box.
type Account struct {
	DefaultModel
	Name     string `gorm:"uniqueIndex"`
	Note     string
	Currency string // ISO 4217 code for the ledger currency, e.g. "JPY"
	Archived bool
}

// BeforeSave ensures consistency for the account.
//
// It trims whitespace from all strings and verifies
// that the currency is a valid ISO 4217 code.
func (a *Account) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Note = strings.TrimSpace(a.Note)
	a.Currency = strings.ToUpper(strings.TrimSpace(a.Currency))

	if a.Currency == "" {
		a.Currency = "JPY"
	}

	if _, err := currency.ParseISO(a.Currency); err != nil {
		return ErrAccountCurrencyNotISO
	}

	return nil
}

// Transactions returns all transactions for this account, ordered by date.
func (a Account) Transactions(db *gorm.DB) ([]Transaction, error) {
	var transactions []Transaction

	err := db.
		Where(&Transaction{AccountID: a.ID}).
		Order("datetime(transactions.date) ASC, datetime(transactions.created_at) ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

// OpeningBalance returns the signed sum of all transactions that seed the
// account's starting value.
func (a Account) OpeningBalance(db *gorm.DB) (decimal.Decimal, error) {
	return a.signedSum(db.Where(&Transaction{AccountID: a.ID, Source: TransactionSourceOpening}))
}

// Balance calculates the balance of the account at a specific point in
// time, including the opening balance and all transactions before it.
func (a Account) Balance(db *gorm.DB, until time.Time) (decimal.Decimal, error) {
	return a.signedSum(db.
		Where(&Transaction{AccountID: a.ID}).
		Where("datetime(transactions.date) < datetime(?)", until.In(time.UTC)))
}

// RangeOpening returns the balance that seeds a month range: all opening
// transactions regardless of their date plus everything else strictly
// before from.
//
// Opening transactions are excluded from the monthly aggregates, so they
// must always count towards the seed, even when they are dated inside the
// range.
func (a Account) RangeOpening(db *gorm.DB, from time.Time) (decimal.Decimal, error) {
	opening, err := a.OpeningBalance(db)
	if err != nil {
		return decimal.Zero, err
	}

	rest, err := a.signedSum(db.
		Where(&Transaction{AccountID: a.ID}).
		Where("source != ?", TransactionSourceOpening).
		Where("datetime(transactions.date) < datetime(?)", from.In(time.UTC)))
	if err != nil {
		return decimal.Zero, err
	}

	return opening.Add(rest), nil
}

func (Account) signedSum(query *gorm.DB) (decimal.Decimal, error) {
	var transactions []Transaction

	err := query.Find(&transactions).Error
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, t := range transactions {
		balance = balance.Add(t.SignedAmount())
	}

	return balance, nil
}
