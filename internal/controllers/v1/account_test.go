package v1_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	v1 "github.com/flowcast/backend/internal/controllers/v1"
	"github.com/flowcast/backend/internal/models"
	"github.com/flowcast/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func createTestAccount(t *testing.T, a v1.AccountEditable, expectedStatus ...int) v1.AccountResponse {
	if a.Name == "" {
		a.Name = uuid.NewString()
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.AccountEditable{a}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/accounts", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var account v1.AccountCreateResponse
	test.DecodeResponse(t, &r, &account)

	if r.Code == http.StatusCreated {
		return account.Data[0]
	}

	return v1.AccountResponse{}
}

// TestAccountsDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestAccountsDBClosed() {
	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestAccount(t, v1.AccountEditable{}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/accounts", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.AccountListResponse
				test.DecodeResponse(t, &recorder, &response)
				assert.Contains(t, *response.Error, models.ErrGeneral.Error())
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			tt.test(t)
		})
	}
}

// TestAccountsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestAccountsOptions() {
	tests := []struct {
		name   string
		id     string // path at the Accounts endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No Account with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Account exists", createTestAccount(suite.T(), v1.AccountEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/accounts", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

// TestAccountsGetSingle verifies that requests for the resource endpoints are
// handled correctly.
func (suite *TestSuiteStandard) TestAccountsGetSingle() {
	a := createTestAccount(suite.T(), v1.AccountEditable{})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing Account", a.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET ID nil", uuid.Nil.String(), http.StatusNotFound, http.MethodGet},
		{"GET No Account with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (negative number)", "-56", http.StatusBadRequest, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (negative number)", "-56", http.StatusBadRequest, http.MethodPatch},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID (negative number)", "-56", http.StatusBadRequest, http.MethodDelete},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/accounts/%s", tt.id), "")

			var account v1.AccountResponse
			test.DecodeResponse(t, &r, &account)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestAccountsGetFilter() {
	_ = createTestAccount(suite.T(), v1.AccountEditable{
		Name:     "Business checking",
		Note:     "The main operating account",
		Currency: "JPY",
		Archived: true,
	})

	_ = createTestAccount(suite.T(), v1.AccountEditable{
		Name:     "Petty cash",
		Note:     "Cash box in the office",
		Currency: "JPY",
	})

	_ = createTestAccount(suite.T(), v1.AccountEditable{
		Name:     "EUR settlement",
		Note:     "Payouts from the EU web shop",
		Currency: "EUR",
	})

	tests := []struct {
		name      string
		query     string
		len       int
		checkFunc func(t *testing.T, accounts []v1.Account)
	}{
		{"Currency JPY", "currency=JPY", 2, nil},
		{"Currency EUR", "currency=EUR", 1, nil},
		{"Empty Note", "note=", 0, nil},
		{"Empty Name", "name=", 0, nil},
		{"Name & Note", "name=Business checking&note=The main operating account", 1, nil},
		{"Fuzzy name", "name=cash", 1, nil},
		{"Fuzzy note", "note=office", 1, nil},
		{"Not archived", "archived=false", 2, func(t *testing.T, accounts []v1.Account) {
			for _, a := range accounts {
				assert.False(t, a.Archived)
			}
		}},
		{"Archived", "archived=true", 1, func(t *testing.T, accounts []v1.Account) {
			for _, a := range accounts {
				assert.True(t, a.Archived)
			}
		}},
		{"Search for 'cash'", "search=cash", 2, nil},
		{"Search for 'SHOP'", "search=SHOP", 1, nil},
		{"Offset 2", "offset=2", 1, nil},
		{"Offset 0, limit 2", "offset=0&limit=2", 2, nil},
		{"Limit 4", "limit=4", 3, nil},
		{"Limit 0", "limit=0", 0, nil},
		{"Limit -1", "limit=-1", 3, nil},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.AccountListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/accounts?%s", tt.query), "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))

			if tt.checkFunc != nil {
				tt.checkFunc(t, re.Data)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestAccountsCreateFails() {
	// Test account for uniqueness
	a := createTestAccount(suite.T(), v1.AccountEditable{
		Name: "Unique Account Name",
	})

	tests := []struct {
		name     string
		body     any
		status   int                                            // expected HTTP status
		testFunc func(t *testing.T, a v1.AccountCreateResponse) // tests to perform against the response
	}{
		{
			"Broken Body", `[{ "note": 2 }]`, http.StatusBadRequest,
			func(t *testing.T, a v1.AccountCreateResponse) {
				assert.Equal(t, "json: cannot unmarshal number into Go struct field AccountEditable.note of type string", *a.Error)
			},
		},
		{
			"No body", "", http.StatusBadRequest,
			func(t *testing.T, a v1.AccountCreateResponse) {
				assert.Equal(t, "the request body must not be empty", *a.Error)
			},
		},
		{
			"Invalid currency",
			[]v1.AccountEditable{
				{
					Name:     "Account with invalid currency",
					Currency: "MOONCOIN",
				},
			},
			http.StatusBadRequest,
			func(t *testing.T, a v1.AccountCreateResponse) {
				assert.Equal(t, models.ErrAccountCurrencyNotISO.Error(), *a.Data[0].Error)
			},
		},
		{
			"Duplicate name",
			[]v1.AccountEditable{
				{
					Name: a.Data.Name,
				},
			},
			http.StatusBadRequest,
			func(t *testing.T, a v1.AccountCreateResponse) {
				assert.Equal(t, models.ErrAccountNameNotUnique.Error(), *a.Data[0].Error)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/accounts", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var a v1.AccountCreateResponse
			test.DecodeResponse(t, &r, &a)

			if tt.testFunc != nil {
				tt.testFunc(t, a)
			}
		})
	}
}

// TestAccountsBalance verifies that the computed balance reflects the
// signed transactions of the account.
func (suite *TestSuiteStandard) TestAccountsBalance() {
	account := createTestAccount(suite.T(), v1.AccountEditable{Name: "Balance testing"})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID: account.Data.ID,
		Amount:    decimal.NewFromInt(100000),
		Direction: models.DirectionIn,
		Source:    models.TransactionSourceOpening,
	})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID: account.Data.ID,
		Amount:    decimal.NewFromInt(20000),
		Direction: models.DirectionIn,
	})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID: account.Data.ID,
		Amount:    decimal.NewFromInt(50000),
		Direction: models.DirectionOut,
	})

	r := test.Request(suite.T(), http.MethodGet, account.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AccountResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.True(suite.T(), response.Data.Balance.Equal(decimal.NewFromInt(70000)), "Balance is %s, expected 70000", response.Data.Balance)
}

// Verify that updating accounts works as desired
func (suite *TestSuiteStandard) TestAccountsUpdate() {
	account := createTestAccount(suite.T(), v1.AccountEditable{Name: "Name of the account"})

	tests := []struct {
		name     string                                   // name of the test
		account  map[string]any                           // the updates to perform. This is not a struct because that would set all fields on the request
		testFunc func(t *testing.T, a v1.AccountResponse) // tests to perform against the updated account resource
	}{
		{
			"Name, Note",
			map[string]any{
				"name": "Another name",
				"note": "New note!",
			},
			func(t *testing.T, a v1.AccountResponse) {
				assert.Equal(t, "New note!", a.Data.Note)
				assert.Equal(t, "Another name", a.Data.Name)
			},
		},
		{
			"Archived",
			map[string]any{
				"archived": true,
			},
			func(t *testing.T, a v1.AccountResponse) {
				assert.True(t, a.Data.Archived)
			},
		},
		{
			"Currency",
			map[string]any{
				"currency": "USD",
			},
			func(t *testing.T, a v1.AccountResponse) {
				assert.Equal(t, "USD", a.Data.Currency)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, account.Data.Links.Self, tt.account)
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var a v1.AccountResponse
			test.DecodeResponse(t, &r, &a)

			if tt.testFunc != nil {
				tt.testFunc(t, a)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestAccountsUpdateFails() {
	tests := []struct {
		name   string
		id     string
		body   any
		status int // expected response status
	}{
		{"Invalid type", "", `{"name": 2}`, http.StatusBadRequest},
		{"Broken JSON", "", `{ "name": 2" }`, http.StatusBadRequest},
		{"Non-existing Account", uuid.New().String(), `{"name": "Does not matter"}`, http.StatusNotFound},
		{"Invalid currency", "", `{"currency": "NOTISO"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var recorder httptest.ResponseRecorder

			if tt.id == "" {
				account := createTestAccount(suite.T(), v1.AccountEditable{
					Note: "Auto-created for test",
				})

				tt.id = account.Data.ID.String()
			}

			recorder = test.Request(t, http.MethodPatch, fmt.Sprintf("http://example.com/v1/accounts/%s", tt.id), tt.body)
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

// TestAccountsDelete verifies all cases for Account deletions.
func (suite *TestSuiteStandard) TestAccountsDelete() {
	tests := []struct {
		name   string
		id     string
		status int // expected response status
	}{
		{"Success", "", http.StatusNoContent},
		{"Non-existing Account", uuid.New().String(), http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var recorder httptest.ResponseRecorder

			if tt.id == "" {
				a := createTestAccount(t, v1.AccountEditable{})
				tt.id = a.Data.ID.String()
			}

			recorder = test.Request(t, http.MethodDelete, fmt.Sprintf("http://example.com/v1/accounts/%s", tt.id), "")
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

// TestAccountsDeleteCascades verifies that deleting an account deletes its
// transactions with it.
func (suite *TestSuiteStandard) TestAccountsDeleteCascades() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID: account.Data.ID,
		Amount:    decimal.NewFromInt(1400),
		Direction: models.DirectionOut,
	})

	recorder := test.Request(suite.T(), http.MethodDelete, account.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, transaction.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

// TestAccountsGetSorted verifies that Accounts are sorted by name.
func (suite *TestSuiteStandard) TestAccountsGetSorted() {
	a1 := createTestAccount(suite.T(), v1.AccountEditable{
		Name: "Alphabetically first",
	})

	a2 := createTestAccount(suite.T(), v1.AccountEditable{
		Name: "Second in creation, third in list",
	})

	a3 := createTestAccount(suite.T(), v1.AccountEditable{
		Name: "Before the second of the accounts",
	})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/accounts", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var accounts v1.AccountListResponse
	test.DecodeResponse(suite.T(), &r, &accounts)

	if !assert.Len(suite.T(), accounts.Data, 3) {
		assert.FailNow(suite.T(), "Account list has wrong length")
	}

	assert.Equal(suite.T(), a1.Data.Name, accounts.Data[0].Name)
	assert.Equal(suite.T(), a3.Data.Name, accounts.Data[1].Name)
	assert.Equal(suite.T(), a2.Data.Name, accounts.Data[2].Name)
}

func (suite *TestSuiteStandard) TestAccountsPagination() {
	for i := 0; i < 10; i++ {
		createTestAccount(suite.T(), v1.AccountEditable{Name: fmt.Sprint(i)})
	}

	tests := []struct {
		name          string
		offset        uint
		limit         int
		expectedCount int
		expectedTotal int64
	}{
		{"All accounts", 0, -1, 10, 10},
		{"First 5", 0, 5, 5, 10},
		{"Last 3", 7, -1, 3, 10},
		{"Offset past the end", 10, -1, 0, 10},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/accounts?offset=%d&limit=%d", tt.offset, tt.limit), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var accounts v1.AccountListResponse
			test.DecodeResponse(t, &r, &accounts)

			assert.Equal(t, tt.offset, accounts.Pagination.Offset)
			assert.Equal(t, tt.expectedCount, len(accounts.Data))
			assert.Equal(t, tt.expectedTotal, accounts.Pagination.Total)
		})
	}
}
