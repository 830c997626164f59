package v1

import (
	"fmt"
	"net/http"

	"github.com/flowcast/backend/internal/httputil"
	"github.com/flowcast/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterImportRuleRoutes registers the routes for import rules with
// the RouterGroup that is passed.
func RegisterImportRuleRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsImportRuleList)
		r.GET("", GetImportRules)
		r.POST("", CreateImportRules)
	}

	// ImportRule with ID
	{
		r.OPTIONS("/:id", OptionsImportRuleDetail)
		r.GET("/:id", GetImportRule)
		r.PATCH("/:id", UpdateImportRule)
		r.DELETE("/:id", DeleteImportRule)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ImportRules
// @Success		204
// @Router			/v1/import-rules [options]
func OptionsImportRuleList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ImportRules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/import-rules/{id} [options]
func OptionsImportRuleDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.ImportRule{})
}

// @Summary		Create import rules
// @Description	Creates new import rules
// @Tags			ImportRules
// @Produce		json
// @Success		201				{object}	ImportRuleCreateResponse
// @Failure		400				{object}	ImportRuleCreateResponse
// @Failure		404				{object}	ImportRuleCreateResponse
// @Failure		500				{object}	ImportRuleCreateResponse
// @Param			importRules	body		[]ImportRuleEditable	true	"ImportRules"
// @Router			/v1/import-rules [post]
func CreateImportRules(c *gin.Context) {
	var editables []ImportRuleEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ImportRuleCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ImportRuleCreateResponse{}

	for _, editable := range editables {
		rule := editable.model()

		err = models.DB.Create(&rule).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newImportRule(c, rule)
		r.Data = append(r.Data, ImportRuleResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get import rules
// @Description	Returns a list of import rules
// @Tags			ImportRules
// @Produce		json
// @Success		200	{object}	ImportRuleListResponse
// @Failure		400	{object}	ImportRuleListResponse
// @Failure		500	{object}	ImportRuleListResponse
// @Router			/v1/import-rules [get]
// @Param			priority	query	uint	false	"Filter by priority"
// @Param			match		query	string	false	"Filter by match"
// @Param			category	query	string	false	"Filter by category ID"
// @Param			offset		query	uint	false	"The offset of the first ImportRule returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of ImportRules to return. Defaults to 50."
func GetImportRules(c *gin.Context) {
	var filter ImportRuleQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportRuleListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("priority ASC, match ASC").
		Where(&filterModel, queryFields...)

	if filter.Match != "" {
		q = q.Where("match LIKE ?", fmt.Sprintf("%%%s%%", filter.Match))
	} else if slices.Contains(setFields, "Match") {
		q = q.Where("match = ''")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 ImportRules and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var rules []models.ImportRule
	err = q.Find(&rules).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportRuleListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ImportRuleListResponse{
			Error: &e,
		})
		return
	}

	data := make([]ImportRule, 0)
	for _, rule := range rules {
		data = append(data, newImportRule(c, rule))
	}

	c.JSON(http.StatusOK, ImportRuleListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get import rule
// @Description	Returns a specific import rule
// @Tags			ImportRules
// @Produce		json
// @Success		200	{object}	ImportRuleResponse
// @Failure		400	{object}	ImportRuleResponse
// @Failure		404	{object}	ImportRuleResponse
// @Failure		500	{object}	ImportRuleResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/import-rules/{id} [get]
func GetImportRule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportRuleResponse{
			Error: &s,
		})
		return
	}

	var rule models.ImportRule
	err = models.DB.First(&rule, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportRuleResponse{
			Error: &s,
		})
		return
	}

	data := newImportRule(c, rule)
	c.JSON(http.StatusOK, ImportRuleResponse{Data: &data})
}

// @Summary		Update import rule
// @Description	Updates an existing import rule. Only values to be updated need to be specified.
// @Tags			ImportRules
// @Accept			json
// @Produce		json
// @Success		200			{object}	ImportRuleResponse
// @Failure		400			{object}	ImportRuleResponse
// @Failure		404			{object}	ImportRuleResponse
// @Failure		500			{object}	ImportRuleResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			importRule	body		ImportRuleEditable	true	"ImportRule"
// @Router			/v1/import-rules/{id} [patch]
func UpdateImportRule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportRuleResponse{
			Error: &s,
		})
		return
	}

	var rule models.ImportRule
	err = models.DB.First(&rule, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportRuleResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ImportRuleEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportRuleResponse{
			Error: &s,
		})
		return
	}

	// Defaults are the current values so that partial updates keep the
	// category reference intact
	data := ImportRuleEditable{
		CategoryID: rule.CategoryID,
	}

	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportRuleResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&rule).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportRuleResponse{
			Error: &s,
		})
		return
	}

	r := newImportRule(c, rule)
	c.JSON(http.StatusOK, ImportRuleResponse{Data: &r})
}

// @Summary		Delete import rule
// @Description	Deletes an import rule
// @Tags			ImportRules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/import-rules/{id} [delete]
func DeleteImportRule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var rule models.ImportRule
	err = models.DB.First(&rule, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&rule).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
