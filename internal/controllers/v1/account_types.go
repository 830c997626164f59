package v1

import (
	"fmt"
	"time"

	"github.com/flowcast/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccountEditable struct {
	Name     string `json:"name" example:"Business checking" default:""`
	Note     string `json:"note" example:"Main operating account" default:""`
	Currency string `json:"currency" example:"JPY" default:"JPY"` // ISO 4217 code for the ledger currency
	Archived bool   `json:"archived" example:"true" default:"false"`
}

// model returns the database resource for the API representation of the editable fields
func (editable AccountEditable) model() models.Account {
	return models.Account{
		Name:     editable.Name,
		Note:     editable.Note,
		Currency: editable.Currency,
		Archived: editable.Archived,
	}
}

type AccountLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`              // The account itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // Transactions for this account
	Months       string `json:"months" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2/months"`      // Monthly aggregates for this account
	Forecast     string `json:"forecast" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2/forecast"`  // Cash flow forecast for this account
}

type AccountComputedData struct {
	Balance decimal.Decimal `json:"balance" example:"1471212.12"` // Balance of the account, including all transactions up to now
}

// Account is the representation of an Account in API v1.
type Account struct {
	models.DefaultModel
	AccountEditable
	AccountComputedData
	Links AccountLinks `json:"links"`
}

// newAccount returns the API v1 representation of the resource
func newAccount(c *gin.Context, db *gorm.DB, model models.Account) (Account, error) {
	url := c.GetString(string(models.DBContextURL))

	balance, err := model.Balance(db, time.Now())
	if err != nil {
		return Account{}, err
	}

	return Account{
		DefaultModel: model.DefaultModel,
		AccountEditable: AccountEditable{
			Name:     model.Name,
			Note:     model.Note,
			Currency: model.Currency,
			Archived: model.Archived,
		},
		AccountComputedData: AccountComputedData{
			Balance: balance,
		},
		Links: AccountLinks{
			Self:         fmt.Sprintf("%s/v1/accounts/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?account=%s", url, model.ID),
			Months:       fmt.Sprintf("%s/v1/accounts/%s/months", url, model.ID),
			Forecast:     fmt.Sprintf("%s/v1/accounts/%s/forecast", url, model.ID),
		},
	}, nil
}

type AccountListResponse struct {
	Data       []Account   `json:"data"`                                                          // List of accounts
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type AccountCreateResponse struct {
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []AccountResponse `json:"data"`                                                          // List of created Accounts
}

func (a *AccountCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	a.Data = append(a.Data, AccountResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type AccountResponse struct {
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this account
	Data  *Account `json:"data"`                                                          // The Account data, if creation was successful
}

type AccountQueryFilter struct {
	Name     string `form:"name" filterField:"false"`   // Filter by name
	Note     string `form:"note" filterField:"false"`   // Filter by note
	Currency string `form:"currency"`                   // Filter by currency
	Archived bool   `form:"archived"`                   // Is the account archived?
	Search   string `form:"search" filterField:"false"` // Search for this text in name and note
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first Account returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of Accounts to return. Defaults to 50.
}

func (f AccountQueryFilter) model() (models.Account, error) {
	// This does not set the string fields since they are
	// handled in the controller function
	return models.Account{
		Currency: f.Currency,
		Archived: f.Archived,
	}, nil
}
