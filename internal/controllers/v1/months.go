package v1

import (
	"net/http"
	"time"

	"github.com/flowcast/backend/internal/forecast"
	"github.com/flowcast/backend/internal/httputil"
	"github.com/flowcast/backend/internal/models"
	"github.com/flowcast/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthData is the aggregate and running balance for one calendar month.
type MonthData struct {
	forecast.MonthBucket
	Balance decimal.Decimal `json:"balance" example:"1321212.12"` // Balance of the account at the end of the month
}

type AccountMonths struct {
	AccountID uuid.UUID   `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // ID of the account
	From      types.Month `json:"from" example:"2024-01-01T00:00:00Z"`                      // First month of the range
	Until     types.Month `json:"until" example:"2024-12-01T00:00:00Z"`                     // Last month of the range
	Months    []MonthData `json:"months"`                                                   // Monthly aggregates, ascending
}

type AccountMonthsResponse struct {
	Data  *AccountMonths `json:"data"`                                                          // The monthly aggregates
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// monthRange resolves the requested month range for an account.
//
// Both ends default from the ledger: the range starts with the month of the
// oldest transaction and ends with the current month.
func monthRange(query QueryMonthRange, transactions []models.Transaction) (from, until types.Month) {
	until = types.MonthOf(time.Now().In(time.UTC))
	if !query.Until.IsZero() {
		until = types.MonthOf(query.Until)
	}

	from = until
	if len(transactions) > 0 {
		from = types.MonthOf(transactions[0].Date)
	}
	if !query.From.IsZero() {
		from = types.MonthOf(query.From)
	}

	return from, until
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/accounts/{id}/months [options]
func OptionsAccountMonths(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Account{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Get monthly aggregates
// @Description	Returns the monthly income, expense, net and running balance for an account
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	AccountMonthsResponse
// @Failure		400	{object}	AccountMonthsResponse
// @Failure		404	{object}	AccountMonthsResponse
// @Failure		500	{object}	AccountMonthsResponse
// @Param			id		path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			from	query	string	false	"First month of the range, in YYYY-MM format. Defaults to the month of the oldest transaction."
// @Param			until	query	string	false	"Last month of the range, in YYYY-MM format. Defaults to the current month."
// @Router			/v1/accounts/{id}/months [get]
func GetAccountMonths(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AccountMonthsResponse{
			Error: &s,
		})
		return
	}

	var query QueryMonthRange
	if err = c.Bind(&query); err != nil {
		s := httputil.ErrInvalidMonth.Error()
		c.JSON(http.StatusBadRequest, AccountMonthsResponse{
			Error: &s,
		})
		return
	}

	var account models.Account
	err = models.DB.First(&account, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AccountMonthsResponse{
			Error: &s,
		})
		return
	}

	transactions, err := account.Transactions(models.DB)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AccountMonthsResponse{
			Error: &s,
		})
		return
	}

	from, until := monthRange(query, transactions)
	if until.Before(from) {
		s := errMonthRangeInvalid.Error()
		c.JSON(http.StatusBadRequest, AccountMonthsResponse{
			Error: &s,
		})
		return
	}

	// The range is inclusive on both ends for the API
	buckets, err := forecast.Aggregate(transactions, from, until.Next(), true)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AccountMonthsResponse{
			Error: &s,
		})
		return
	}

	// Everything before the range seeds the running balance, including the
	// opening balance
	opening, err := account.RangeOpening(models.DB, time.Time(from))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AccountMonthsResponse{
			Error: &s,
		})
		return
	}

	points := forecast.BuildBalances(buckets, opening)

	months := make([]MonthData, 0, len(buckets))
	for i, bucket := range buckets {
		months = append(months, MonthData{
			MonthBucket: bucket,
			Balance:     points[i].Balance,
		})
	}

	c.JSON(http.StatusOK, AccountMonthsResponse{
		Data: &AccountMonths{
			AccountID: account.ID,
			From:      from,
			Until:     until,
			Months:    months,
		},
	})
}
