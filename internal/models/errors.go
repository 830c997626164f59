package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Account errors
var (
	ErrAccountNameNotUnique  = errors.New("the account name must be unique")
	ErrAccountCurrencyNotISO = errors.New("the account currency must be a valid ISO 4217 code")
)

// Transaction errors
var (
	ErrTransactionAmountNegative   = errors.New("the transaction amount must not be negative")
	ErrTransactionDirectionInvalid = errors.New("the transaction direction must be IN or OUT")
	ErrTransactionSourceInvalid    = errors.New("the transaction source must be MANUAL, IMPORTED or OPENING")
)

// Scenario errors
var (
	ErrScenarioNameNotUnique      = errors.New("the scenario name must be unique")
	ErrScenarioHorizonNotPositive = errors.New("the scenario horizon must be at least 1 month")
)

// MonthlyFlow errors
var (
	ErrMonthlyFlowMonthNotUnique = errors.New("there is already a monthly flow for this account and month")
)
