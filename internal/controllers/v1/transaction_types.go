package v1

import (
	"fmt"
	"time"

	"github.com/flowcast/backend/internal/models"
	fc_uuid "github.com/flowcast/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionEditable struct {
	Date time.Time `json:"date" example:"2024-03-17T00:00:00Z"` // Date of the transaction. Only the calendar day is relevant for aggregation

	// The maximum value is "999999999999.99999999", swagger unfortunately rounds this.
	Amount decimal.Decimal `json:"amount" example:"140300" minimum:"0.00000001" maximum:"999999999999.99999999" multipleOf:"0.00000001"` // The non-negative amount of the transaction

	Direction  models.TransactionDirection `json:"direction" example:"OUT"`                                                                                    // Whether money flows into or out of the account
	Source     models.TransactionSource    `json:"source" example:"MANUAL" default:"MANUAL"`                                                                   // How the transaction entered the ledger
	Note       string                      `json:"note" example:"Office rent" default:""`                                                                      // A note
	AccountID  uuid.UUID                   `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                                                   // ID of the account
	CategoryID *uuid.UUID                  `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91f71defe"`                                                  // ID of the category
	ImportHash string                      `json:"importHash" example:"867e3a26dc0baf73f4bff506f31a97f6c32088917e9e5cf1a5ed6f3f84a6fa70" default:""` // The SHA256 hash of the raw import record, for duplicate detection
}

// model returns the database resource for the API representation of the editable fields
func (editable TransactionEditable) model() models.Transaction {
	return models.Transaction{
		Date:       editable.Date,
		Amount:     editable.Amount,
		Direction:  editable.Direction,
		Source:     editable.Source,
		Note:       editable.Note,
		AccountID:  editable.AccountID,
		CategoryID: editable.CategoryID,
		ImportHash: editable.ImportHash,
	}
}

type TransactionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"` // The transaction itself
}

// Transaction is the representation of a Transaction in API v1.
type Transaction struct {
	models.DefaultModel
	TransactionEditable
	Links TransactionLinks `json:"links"`
}

// newTransaction returns the API v1 representation of the resource
func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			Date:       model.Date,
			Amount:     model.Amount,
			Direction:  model.Direction,
			Source:     model.Source,
			Note:       model.Note,
			AccountID:  model.AccountID,
			CategoryID: model.CategoryID,
			ImportHash: model.ImportHash,
		},
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
	}
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of transactions
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type TransactionCreateResponse struct {
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []TransactionResponse `json:"data"`                                                          // List of created Transactions
}

func (t *TransactionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TransactionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TransactionResponse struct {
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this transaction
	Data  *Transaction `json:"data"`                                                          // The Transaction data, if creation was successful
}

type TransactionQueryFilter struct {
	Date              time.Time                   `form:"date" filterField:"false"`              // Exact date. Time is ignored.
	FromDate          time.Time                   `form:"fromDate" filterField:"false"`          // From this date. Time is ignored.
	UntilDate         time.Time                   `form:"untilDate" filterField:"false"`         // Until this date. Time is ignored.
	Amount            decimal.Decimal             `form:"amount"`                                // Exact amount
	AmountLessOrEqual decimal.Decimal             `form:"amountLessOrEqual" filterField:"false"` // Amount less than or equal to this
	AmountMoreOrEqual decimal.Decimal             `form:"amountMoreOrEqual" filterField:"false"` // Amount more than or equal to this
	Note              string                      `form:"note" filterField:"false"`              // Note contains this string
	AccountID         fc_uuid.UUID                `form:"account"`                               // ID of the account
	CategoryID        fc_uuid.UUID                `form:"category"`                              // ID of the category
	Direction         models.TransactionDirection `form:"direction"`                             // Direction of the transaction
	Source            models.TransactionSource    `form:"source"`                                // Source of the transaction
	ImportHash        string                      `form:"importHash"`                            // Import hash of the transaction
	Offset            uint                        `form:"offset" filterField:"false"`            // The offset of the first Transaction returned. Defaults to 0.
	Limit             int                         `form:"limit" filterField:"false"`             // Maximum number of Transactions to return. Defaults to 50.
}

func (f TransactionQueryFilter) model() (models.Transaction, error) {
	// If the categoryID is nil, use an actual nil, not uuid.Nil
	var cID *uuid.UUID
	if f.CategoryID != fc_uuid.Nil {
		cID = &f.CategoryID.UUID
	}

	// This does not set the string or date fields since they are
	// handled in the controller function
	return models.Transaction{
		Amount:     f.Amount,
		AccountID:  f.AccountID.UUID,
		CategoryID: cID,
		Direction:  f.Direction,
		Source:     f.Source,
		ImportHash: f.ImportHash,
	}, nil
}
