package v1

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/flowcast/backend/internal/forecast"
	"github.com/flowcast/backend/internal/httputil"
	"github.com/flowcast/backend/internal/models"
	"github.com/flowcast/backend/internal/types"
	fc_uuid "github.com/flowcast/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Defaults for the forecast evaluation. Callers override them per request,
// a scenario overrides the horizon.
const (
	defaultWindowMonths  = 6
	defaultHorizonMonths = 12
)

type ForecastQuery struct {
	Window       int             `form:"window"`       // Months of history for the rolling average. Defaults to 6.
	Horizon      int             `form:"horizon"`      // Months to project. Defaults to 12, or the scenario's horizon.
	ScenarioID   fc_uuid.UUID    `form:"scenario"`     // ID of a stored scenario to apply
	DeltaIncome  decimal.Decimal `form:"deltaIncome"`  // Ad-hoc additional monthly income
	DeltaExpense decimal.Decimal `form:"deltaExpense"` // Ad-hoc additional monthly expense
}

// Forecast is the result of one full forecast evaluation for an account.
type Forecast struct {
	AccountID  uuid.UUID             `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // ID of the account
	AsOf       types.Month           `json:"asOf" example:"2024-06-01T00:00:00Z"`                      // Month the evaluation is anchored on
	Model      forecast.AverageModel `json:"model"`                                                    // The rolling average the projection assumes
	Projection forecast.Projection   `json:"projection"`                                               // Projected balances per month
	Risk       forecast.Assessment   `json:"risk"`                                                     // Risk classification
}

type ForecastResponse struct {
	Data  *Forecast `json:"data"`                                                          // The forecast
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// riskThresholds returns the classification thresholds, allowing overrides
// from the environment.
func riskThresholds() forecast.Thresholds {
	thresholds := forecast.DefaultThresholds()

	if raw, ok := os.LookupEnv("RISK_DANGER_MONTHS"); ok {
		months, err := strconv.Atoi(raw)
		if err != nil || months < 1 {
			log.Warn().Str("RISK_DANGER_MONTHS", raw).Msg("ignoring invalid threshold configuration")
		} else {
			thresholds.DangerWithinMonths = months
		}
	}

	if raw, ok := os.LookupEnv("RISK_RESERVE_MONTHS"); ok {
		months, err := decimal.NewFromString(raw)
		if err != nil || !months.IsPositive() {
			log.Warn().Str("RISK_RESERVE_MONTHS", raw).Msg("ignoring invalid threshold configuration")
		} else {
			thresholds.ReserveMonths = months
		}
	}

	return thresholds
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/accounts/{id}/forecast [options]
func OptionsAccountForecast(c *gin.Context) {
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

// @Summary		Get forecast
// @Description	Estimates the rolling average, projects the balance over the horizon and classifies the cash flow risk
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	ForecastResponse
// @Failure		400	{object}	ForecastResponse
// @Failure		404	{object}	ForecastResponse
// @Failure		500	{object}	ForecastResponse
// @Param			id				path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			window			query	int		false	"Months of history for the rolling average. Defaults to 6."
// @Param			horizon			query	int		false	"Months to project into the future. Defaults to 12, or to the scenario's horizon."
// @Param			scenario		query	string	false	"ID of a stored scenario to apply. Cannot be combined with deltaIncome or deltaExpense."
// @Param			deltaIncome		query	string	false	"Ad-hoc additional monthly income"
// @Param			deltaExpense	query	string	false	"Ad-hoc additional monthly expense"
// @Router			/v1/accounts/{id}/forecast [get]
func GetAccountForecast(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ForecastResponse{
			Error: &s,
		})
		return
	}

	var query ForecastQuery
	if err = c.Bind(&query); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ForecastResponse{
			Error: &s,
		})
		return
	}

	var account models.Account
	err = models.DB.First(&account, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ForecastResponse{
			Error: &s,
		})
		return
	}

	window := defaultWindowMonths
	if c.Request.URL.Query().Has("window") {
		window = query.Window
	}

	horizon := defaultHorizonMonths
	whatIf := forecast.WhatIf{
		DeltaIncome:  query.DeltaIncome,
		DeltaExpense: query.DeltaExpense,
	}

	// A stored scenario and ad-hoc deltas cannot be mixed, the combined
	// meaning would be ambiguous
	if query.ScenarioID != fc_uuid.Nil {
		if !query.DeltaIncome.IsZero() || !query.DeltaExpense.IsZero() {
			s := errScenarioAndDeltas.Error()
			c.JSON(http.StatusBadRequest, ForecastResponse{
				Error: &s,
			})
			return
		}

		var scenario models.Scenario
		err = models.DB.First(&scenario, query.ScenarioID.UUID).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), ForecastResponse{
				Error: &s,
			})
			return
		}

		whatIf = forecast.WhatIf{
			DeltaIncome:  scenario.DeltaIncome,
			DeltaExpense: scenario.DeltaExpense,
		}
		horizon = scenario.HorizonMonths
	}

	if c.Request.URL.Query().Has("horizon") {
		horizon = query.Horizon
	}

	transactions, err := account.Transactions(models.DB)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ForecastResponse{
			Error: &s,
		})
		return
	}

	asOf := types.MonthOf(time.Now().In(time.UTC))

	from := asOf
	if len(transactions) > 0 {
		first := types.MonthOf(transactions[0].Date)
		if first.Before(from) {
			from = first
		}
	}

	// Aggregate the complete history up to and including the current month.
	// Gaps are filled so that quiet months pull the average down.
	buckets, err := forecast.Aggregate(transactions, from, asOf.Next(), true)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ForecastResponse{
			Error: &s,
		})
		return
	}

	model, err := forecast.Estimate(buckets, window, asOf)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ForecastResponse{
			Error: &s,
		})
		return
	}

	balance, err := account.Balance(models.DB, time.Now())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ForecastResponse{
			Error: &s,
		})
		return
	}

	projection, err := forecast.Project(balance, model, horizon, asOf, &whatIf)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ForecastResponse{
			Error: &s,
		})
		return
	}

	risk := forecast.Classify(balance, model, projection, riskThresholds())

	c.JSON(http.StatusOK, ForecastResponse{
		Data: &Forecast{
			AccountID:  account.ID,
			AsOf:       asOf,
			Model:      model,
			Projection: projection,
			Risk:       risk,
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/accounts/{id}/flows/recompute [options]
func OptionsAccountRecompute(c *gin.Context) {
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

	httputil.OptionsPost(c)
}

// @Summary		Recompute monthly flows
// @Description	Rebuilds the materialized monthly aggregates for an account from the ledger. Safe to call repeatedly, the result only depends on the current ledger.
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	AccountMonthsResponse
// @Failure		400	{object}	AccountMonthsResponse
// @Failure		404	{object}	AccountMonthsResponse
// @Failure		500	{object}	AccountMonthsResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/accounts/{id}/flows/recompute [post]
func RecomputeAccountFlows(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AccountMonthsResponse{
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

	from, until := monthRange(QueryMonthRange{}, transactions)

	buckets, err := forecast.Aggregate(transactions, from, until.Next(), true)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AccountMonthsResponse{
			Error: &s,
		})
		return
	}

	opening, err := account.RangeOpening(models.DB, time.Time(from))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AccountMonthsResponse{
			Error: &s,
		})
		return
	}

	points := forecast.BuildBalances(buckets, opening)

	flows := make([]models.MonthlyFlow, 0, len(buckets))
	months := make([]MonthData, 0, len(buckets))
	for i, bucket := range buckets {
		flows = append(flows, models.MonthlyFlow{
			AccountID: account.ID,
			Month:     bucket.Month,
			Income:    bucket.Income,
			Expense:   bucket.Expense,
			Net:       bucket.Net,
			Balance:   points[i].Balance,
		})
		months = append(months, MonthData{
			MonthBucket: bucket,
			Balance:     points[i].Balance,
		})
	}

	err = models.ReplaceMonthlyFlows(flows)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AccountMonthsResponse{
			Error: &s,
		})
		return
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
