package v1

import (
	"fmt"

	"github.com/flowcast/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ScenarioEditable struct {
	Name          string          `json:"name" example:"Hire a second engineer" default:""`
	Note          string          `json:"note" example:"Salary plus payroll taxes" default:""`
	DeltaIncome   decimal.Decimal `json:"deltaIncome" example:"0"`           // Additional monthly income assumed by this scenario
	DeltaExpense  decimal.Decimal `json:"deltaExpense" example:"450000"`     // Additional monthly expense assumed by this scenario
	HorizonMonths int             `json:"horizonMonths" example:"12" minimum:"1"` // Months to project into the future
}

// model returns the database resource for the API representation of the editable fields
func (editable ScenarioEditable) model() models.Scenario {
	return models.Scenario{
		Name:          editable.Name,
		Note:          editable.Note,
		DeltaIncome:   editable.DeltaIncome,
		DeltaExpense:  editable.DeltaExpense,
		HorizonMonths: editable.HorizonMonths,
	}
}

type ScenarioLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/scenarios/7e25e1a1-5b3b-4ac1-a5fd-54b1dc7ea021"` // The scenario itself
}

// Scenario is the representation of a Scenario in API v1.
type Scenario struct {
	models.DefaultModel
	ScenarioEditable
	Links ScenarioLinks `json:"links"`
}

// newScenario returns the API v1 representation of the resource
func newScenario(c *gin.Context, model models.Scenario) Scenario {
	url := c.GetString(string(models.DBContextURL))

	return Scenario{
		DefaultModel: model.DefaultModel,
		ScenarioEditable: ScenarioEditable{
			Name:          model.Name,
			Note:          model.Note,
			DeltaIncome:   model.DeltaIncome,
			DeltaExpense:  model.DeltaExpense,
			HorizonMonths: model.HorizonMonths,
		},
		Links: ScenarioLinks{
			Self: fmt.Sprintf("%s/v1/scenarios/%s", url, model.ID),
		},
	}
}

type ScenarioListResponse struct {
	Data       []Scenario  `json:"data"`                                                          // List of scenarios
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type ScenarioCreateResponse struct {
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []ScenarioResponse `json:"data"`                                                          // List of created Scenarios
}

func (s *ScenarioCreateResponse) appendError(err error, currentStatus int) int {
	e := err.Error()
	s.Data = append(s.Data, ScenarioResponse{Error: &e})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ScenarioResponse struct {
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this scenario
	Data  *Scenario `json:"data"`                                                          // The Scenario data, if creation was successful
}

type ScenarioQueryFilter struct {
	Name   string `form:"name" filterField:"false"`   // Filter by name
	Note   string `form:"note" filterField:"false"`   // Filter by note
	Search string `form:"search" filterField:"false"` // Search for this text in name and note
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first Scenario returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of Scenarios to return. Defaults to 50.
}

func (f ScenarioQueryFilter) model() (models.Scenario, error) {
	// The string fields are handled in the controller function
	return models.Scenario{}, nil
}
