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

func createTestScenario(t *testing.T, s v1.ScenarioEditable, expectedStatus ...int) v1.ScenarioResponse {
	if s.Name == "" {
		s.Name = uuid.NewString()
	}

	if s.HorizonMonths == 0 {
		s.HorizonMonths = 12
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.ScenarioEditable{s}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/scenarios", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var scenario v1.ScenarioCreateResponse
	test.DecodeResponse(t, &r, &scenario)

	if r.Code == http.StatusCreated {
		return scenario.Data[0]
	}

	return v1.ScenarioResponse{}
}

// TestScenariosDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestScenariosDBClosed() {
	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestScenario(t, v1.ScenarioEditable{}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/scenarios", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.ScenarioListResponse
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

// TestScenariosOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestScenariosOptions() {
	tests := []struct {
		name   string
		id     string // path at the Scenarios endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No Scenario with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Scenario exists", createTestScenario(suite.T(), v1.ScenarioEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/scenarios", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

// TestScenariosGetSingle verifies that requests for the resource endpoints
// are handled correctly.
func (suite *TestSuiteStandard) TestScenariosGetSingle() {
	s := createTestScenario(suite.T(), v1.ScenarioEditable{})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing Scenario", s.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET ID nil", uuid.Nil.String(), http.StatusNotFound, http.MethodGet},
		{"GET No Scenario with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/scenarios/%s", tt.id), "")

			var scenario v1.ScenarioResponse
			test.DecodeResponse(t, &r, &scenario)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestScenariosGetFilter() {
	_ = createTestScenario(suite.T(), v1.ScenarioEditable{
		Name:          "Hire a second engineer",
		Note:          "Salary plus payroll taxes",
		DeltaExpense:  decimal.NewFromInt(450000),
		HorizonMonths: 12,
	})

	_ = createTestScenario(suite.T(), v1.ScenarioEditable{
		Name:          "Lose the biggest client",
		DeltaIncome:   decimal.NewFromInt(-800000),
		HorizonMonths: 6,
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Empty Note", "note=", 1},
		{"Empty Name", "name=", 0},
		{"Fuzzy name", "name=client", 1},
		{"Fuzzy note", "note=payroll", 1},
		{"Search for 'salary'", "search=salary", 1},
		{"Search for 'THE'", "search=THE", 1},
		{"Offset 1", "offset=1", 1},
		{"Limit 1", "limit=1", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.ScenarioListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/scenarios?%s", tt.query), "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestScenariosCreateFails() {
	// Test scenario for uniqueness
	s := createTestScenario(suite.T(), v1.ScenarioEditable{
		Name: "Unique Scenario Name",
	})

	tests := []struct {
		name     string
		body     any
		status   int                                             // expected HTTP status
		testFunc func(t *testing.T, s v1.ScenarioCreateResponse) // tests to perform against the response
	}{
		{
			"Broken Body", `[{ "note": 2 }]`, http.StatusBadRequest,
			func(t *testing.T, s v1.ScenarioCreateResponse) {
				assert.Equal(t, "json: cannot unmarshal number into Go struct field ScenarioEditable.note of type string", *s.Error)
			},
		},
		{
			"No body", "", http.StatusBadRequest,
			func(t *testing.T, s v1.ScenarioCreateResponse) {
				assert.Equal(t, "the request body must not be empty", *s.Error)
			},
		},
		{
			"Horizon zero",
			`[{ "name": "No horizon" }]`,
			http.StatusBadRequest,
			func(t *testing.T, s v1.ScenarioCreateResponse) {
				assert.Equal(t, models.ErrScenarioHorizonNotPositive.Error(), *s.Data[0].Error)
			},
		},
		{
			"Negative horizon",
			`[{ "name": "Negative horizon", "horizonMonths": -3 }]`,
			http.StatusBadRequest,
			func(t *testing.T, s v1.ScenarioCreateResponse) {
				assert.Equal(t, models.ErrScenarioHorizonNotPositive.Error(), *s.Data[0].Error)
			},
		},
		{
			"Duplicate name",
			[]v1.ScenarioEditable{
				{
					Name:          s.Data.Name,
					HorizonMonths: 12,
				},
			},
			http.StatusBadRequest,
			func(t *testing.T, s v1.ScenarioCreateResponse) {
				assert.Equal(t, models.ErrScenarioNameNotUnique.Error(), *s.Data[0].Error)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/scenarios", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var s v1.ScenarioCreateResponse
			test.DecodeResponse(t, &r, &s)

			if tt.testFunc != nil {
				tt.testFunc(t, s)
			}
		})
	}
}

// Verify that updating scenarios works as desired
func (suite *TestSuiteStandard) TestScenariosUpdate() {
	scenario := createTestScenario(suite.T(), v1.ScenarioEditable{Name: "Name of the scenario"})

	tests := []struct {
		name     string                                    // name of the test
		scenario map[string]any                            // the updates to perform. This is not a struct because that would set all fields on the request
		testFunc func(t *testing.T, s v1.ScenarioResponse) // tests to perform against the updated scenario resource
	}{
		{
			"Name, Note",
			map[string]any{
				"name": "Another name",
				"note": "New note!",
			},
			func(t *testing.T, s v1.ScenarioResponse) {
				assert.Equal(t, "New note!", s.Data.Note)
				assert.Equal(t, "Another name", s.Data.Name)
			},
		},
		{
			"Deltas",
			map[string]any{
				"deltaIncome":  "100000",
				"deltaExpense": "300000",
			},
			func(t *testing.T, s v1.ScenarioResponse) {
				assert.True(t, s.Data.DeltaIncome.Equal(decimal.NewFromInt(100000)))
				assert.True(t, s.Data.DeltaExpense.Equal(decimal.NewFromInt(300000)))
			},
		},
		{
			"Horizon",
			map[string]any{
				"horizonMonths": 24,
			},
			func(t *testing.T, s v1.ScenarioResponse) {
				assert.Equal(t, 24, s.Data.HorizonMonths)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, scenario.Data.Links.Self, tt.scenario)
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var s v1.ScenarioResponse
			test.DecodeResponse(t, &r, &s)

			if tt.testFunc != nil {
				tt.testFunc(t, s)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestScenariosUpdateFails() {
	tests := []struct {
		name   string
		id     string
		body   any
		status int // expected response status
	}{
		{"Invalid type", "", `{"name": 2}`, http.StatusBadRequest},
		{"Broken JSON", "", `{ "name": 2" }`, http.StatusBadRequest},
		{"Non-existing Scenario", uuid.New().String(), `{"name": "Does not matter"}`, http.StatusNotFound},
		{"Horizon zero", "", `{"horizonMonths": 0}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var recorder httptest.ResponseRecorder

			if tt.id == "" {
				scenario := createTestScenario(suite.T(), v1.ScenarioEditable{
					Note: "Auto-created for test",
				})

				tt.id = scenario.Data.ID.String()
			}

			recorder = test.Request(t, http.MethodPatch, fmt.Sprintf("http://example.com/v1/scenarios/%s", tt.id), tt.body)
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

// TestScenariosDelete verifies all cases for Scenario deletions.
func (suite *TestSuiteStandard) TestScenariosDelete() {
	tests := []struct {
		name   string
		id     string
		status int // expected response status
	}{
		{"Success", "", http.StatusNoContent},
		{"Non-existing Scenario", uuid.New().String(), http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var recorder httptest.ResponseRecorder

			if tt.id == "" {
				s := createTestScenario(t, v1.ScenarioEditable{})
				tt.id = s.Data.ID.String()
			}

			recorder = test.Request(t, http.MethodDelete, fmt.Sprintf("http://example.com/v1/scenarios/%s", tt.id), "")
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}
