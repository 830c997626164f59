package v1

import (
	"net/http"

	"github.com/flowcast/backend/internal/httputil"
	"github.com/flowcast/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterScenarioRoutes registers the routes for scenarios with
// the RouterGroup that is passed.
func RegisterScenarioRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsScenarioList)
		r.GET("", GetScenarios)
		r.POST("", CreateScenarios)
	}

	// Scenario with ID
	{
		r.OPTIONS("/:id", OptionsScenarioDetail)
		r.GET("/:id", GetScenario)
		r.PATCH("/:id", UpdateScenario)
		r.DELETE("/:id", DeleteScenario)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Scenarios
// @Success		204
// @Router			/v1/scenarios [options]
func OptionsScenarioList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Scenarios
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/scenarios/{id} [options]
func OptionsScenarioDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Scenario{})
}

// @Summary		Create scenarios
// @Description	Creates new scenarios
// @Tags			Scenarios
// @Produce		json
// @Success		201			{object}	ScenarioCreateResponse
// @Failure		400			{object}	ScenarioCreateResponse
// @Failure		500			{object}	ScenarioCreateResponse
// @Param			scenarios	body		[]ScenarioEditable	true	"Scenarios"
// @Router			/v1/scenarios [post]
func CreateScenarios(c *gin.Context) {
	var editables []ScenarioEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ScenarioCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ScenarioCreateResponse{}

	for _, editable := range editables {
		scenario := editable.model()

		err = models.DB.Create(&scenario).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newScenario(c, scenario)
		r.Data = append(r.Data, ScenarioResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get scenarios
// @Description	Returns a list of scenarios
// @Tags			Scenarios
// @Produce		json
// @Success		200	{object}	ScenarioListResponse
// @Failure		400	{object}	ScenarioListResponse
// @Failure		500	{object}	ScenarioListResponse
// @Router			/v1/scenarios [get]
// @Param			name	query	string	false	"Filter by name"
// @Param			note	query	string	false	"Filter by note"
// @Param			search	query	string	false	"Search for this text in name and note"
// @Param			offset	query	uint	false	"The offset of the first Scenario returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Scenarios to return. Defaults to 50."
func GetScenarios(c *gin.Context) {
	var filter ScenarioQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScenarioListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("name ASC").
		Where(&filterModel, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Scenarios and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var scenarios []models.Scenario
	err = q.Find(&scenarios).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScenarioListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ScenarioListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Scenario, 0)
	for _, scenario := range scenarios {
		data = append(data, newScenario(c, scenario))
	}

	c.JSON(http.StatusOK, ScenarioListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get scenario
// @Description	Returns a specific scenario
// @Tags			Scenarios
// @Produce		json
// @Success		200	{object}	ScenarioResponse
// @Failure		400	{object}	ScenarioResponse
// @Failure		404	{object}	ScenarioResponse
// @Failure		500	{object}	ScenarioResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/scenarios/{id} [get]
func GetScenario(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScenarioResponse{
			Error: &s,
		})
		return
	}

	var scenario models.Scenario
	err = models.DB.First(&scenario, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScenarioResponse{
			Error: &s,
		})
		return
	}

	data := newScenario(c, scenario)
	c.JSON(http.StatusOK, ScenarioResponse{Data: &data})
}

// @Summary		Update scenario
// @Description	Updates an existing scenario. Only values to be updated need to be specified.
// @Tags			Scenarios
// @Accept			json
// @Produce		json
// @Success		200			{object}	ScenarioResponse
// @Failure		400			{object}	ScenarioResponse
// @Failure		404			{object}	ScenarioResponse
// @Failure		500			{object}	ScenarioResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			scenario	body		ScenarioEditable	true	"Scenario"
// @Router			/v1/scenarios/{id} [patch]
func UpdateScenario(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScenarioResponse{
			Error: &s,
		})
		return
	}

	var scenario models.Scenario
	err = models.DB.First(&scenario, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScenarioResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ScenarioEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScenarioResponse{
			Error: &s,
		})
		return
	}

	// Defaults are the current values so that partial updates pass validation
	data := ScenarioEditable{
		HorizonMonths: scenario.HorizonMonths,
	}

	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScenarioResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&scenario).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScenarioResponse{
			Error: &s,
		})
		return
	}

	r := newScenario(c, scenario)
	c.JSON(http.StatusOK, ScenarioResponse{Data: &r})
}

// @Summary		Delete scenario
// @Description	Deletes a scenario
// @Tags			Scenarios
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/scenarios/{id} [delete]
func DeleteScenario(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var scenario models.Scenario
	err = models.DB.First(&scenario, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&scenario).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
