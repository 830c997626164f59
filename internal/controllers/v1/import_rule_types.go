package v1

import (
	"fmt"

	"github.com/flowcast/backend/internal/models"
	fc_uuid "github.com/flowcast/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ImportRuleEditable struct {
	Priority   uint      `json:"priority" example:"1"`                                      // The priority of the rule, a lower number means higher priority
	Match      string    `json:"match" example:"Transfer*" default:""`                      // The glob pattern to match raw category labels and notes against
	CategoryID uuid.UUID `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91f71defe"` // The category records matching this rule are assigned to
}

// model returns the database resource for the API representation of the editable fields
func (editable ImportRuleEditable) model() models.ImportRule {
	return models.ImportRule{
		Priority:   editable.Priority,
		Match:      editable.Match,
		CategoryID: editable.CategoryID,
	}
}

type ImportRuleLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/import-rules/95685c82-53c6-455d-b235-f49960b73b21"` // The import rule itself
}

// ImportRule is the representation of an ImportRule in API v1.
type ImportRule struct {
	models.DefaultModel
	ImportRuleEditable
	Links ImportRuleLinks `json:"links"`
}

// newImportRule returns the API v1 representation of the resource
func newImportRule(c *gin.Context, model models.ImportRule) ImportRule {
	url := c.GetString(string(models.DBContextURL))

	return ImportRule{
		DefaultModel: model.DefaultModel,
		ImportRuleEditable: ImportRuleEditable{
			Priority:   model.Priority,
			Match:      model.Match,
			CategoryID: model.CategoryID,
		},
		Links: ImportRuleLinks{
			Self: fmt.Sprintf("%s/v1/import-rules/%s", url, model.ID),
		},
	}
}

type ImportRuleListResponse struct {
	Data       []ImportRule `json:"data"`                                                          // List of import rules
	Error      *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination  `json:"pagination"`                                                    // Pagination information
}

type ImportRuleCreateResponse struct {
	Error *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []ImportRuleResponse `json:"data"`                                                          // List of created ImportRules
}

func (i *ImportRuleCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	i.Data = append(i.Data, ImportRuleResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ImportRuleResponse struct {
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this import rule
	Data  *ImportRule `json:"data"`                                                          // The ImportRule data, if creation was successful
}

type ImportRuleQueryFilter struct {
	Priority   uint         `form:"priority"`                   // Filter by priority
	Match      string       `form:"match" filterField:"false"`  // Filter by match
	CategoryID fc_uuid.UUID `form:"category"`                   // Filter by category ID
	Offset     uint         `form:"offset" filterField:"false"` // The offset of the first ImportRule returned. Defaults to 0.
	Limit      int          `form:"limit" filterField:"false"`  // Maximum number of ImportRules to return. Defaults to 50.
}

func (f ImportRuleQueryFilter) model() (models.ImportRule, error) {
	return models.ImportRule{
		Priority:   f.Priority,
		CategoryID: f.CategoryID.UUID,
	}, nil
}
