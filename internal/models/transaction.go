package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// TransactionDirection reports whether money flows into or out of the account.
type TransactionDirection string

const (
	DirectionIn  TransactionDirection = "IN"
	DirectionOut TransactionDirection = "OUT"
)

// TransactionSource reports how the transaction entered the ledger.
type TransactionSource string

const (
	TransactionSourceManual   TransactionSource = "MANUAL"
	TransactionSourceImported TransactionSource = "IMPORTED"
	TransactionSourceOpening  TransactionSource = "OPENING"
)

// Transaction represents a single dated cash movement on an account.
//
// The amount is always stored non-negative, the sign is derived from the
// direction. Transactions with the OPENING source seed the running balance
// and are excluded from monthly income and expense.
type Transaction struct {
	DefaultModel
	Date       time.Time
	Direction  TransactionDirection
	Amount     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	AccountID  uuid.UUID
	Account    Account `json:"-"`
	CategoryID *uuid.UUID
	Category   Category `json:"-"`
	Source     TransactionSource
	Note       string
	ImportHash string // A SHA256 hash of the raw import record for duplicate detection
}

// SignedAmount returns the amount with the sign derived from the direction.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Direction == DirectionOut {
		return t.Amount.Neg()
	}

	return t.Amount
}

// BeforeSave validates the transaction and normalizes the date to UTC.
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	if t.Amount.IsNegative() {
		return ErrTransactionAmountNegative
	}

	if !slices.Contains([]TransactionDirection{DirectionIn, DirectionOut}, t.Direction) {
		return ErrTransactionDirectionInvalid
	}

	if t.Source == "" {
		t.Source = TransactionSourceManual
	}

	if !slices.Contains([]TransactionSource{TransactionSourceManual, TransactionSourceImported, TransactionSourceOpening}, t.Source) {
		return ErrTransactionSourceInvalid
	}

	t.Note = strings.TrimSpace(t.Note)
	t.ImportHash = strings.TrimSpace(t.ImportHash)

	return nil
}

// BeforeCreate verifies references to other resources.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	_ = t.DefaultModel.BeforeCreate(tx)

	err := tx.First(&Account{}, t.AccountID).Error
	if err != nil {
		return err
	}

	if t.CategoryID != nil {
		return tx.First(&Category{}, *t.CategoryID).Error
	}

	return nil
}

// AfterFind updates the date to use UTC as timezone, not +0000.
func (t *Transaction) AfterFind(_ *gorm.DB) (err error) {
	t.Date = t.Date.In(time.UTC)
	return nil
}
