package v1

import (
	"errors"
	"net/http"

	"github.com/flowcast/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

// Forecast errors
var (
	errScenarioAndDeltas = errors.New("the scenario parameter cannot be combined with deltaIncome or deltaExpense")
)

// Month range errors
var (
	errMonthRangeInvalid = errors.New("the from month must be before the until month")
)

// Cleanup errors
var (
	errCleanupConfirmation = errors.New("the confirmation for the cleanup API call was incorrect")
)

// Import errors
var (
	errNoFilePost         = errors.New("you must send a file to this endpoint")
	errWrongFileSuffix    = errors.New("this endpoint only supports files of the following types")
	errAccountIDParameter = errors.New("the accountId parameter must be set")
	errOnErrorInvalid     = errors.New("the onError parameter must be either 'skip' or 'abort'")
	errRecordInvalid      = errors.New("the file contains records that could not be parsed")
)
