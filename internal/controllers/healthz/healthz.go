// Package healthz implements the health check endpoint.
package healthz

import (
	"net/http"

	"github.com/flowcast/backend/internal/httperror"
	"github.com/flowcast/backend/internal/httputil"
	"github.com/flowcast/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the routes for the health check endpoint.
func RegisterRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", Options)
	r.GET("", Get)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/healthz [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get health
// @Description	Returns the health of the backend, verifying database connectivity
// @Tags			General
// @Success		204
// @Failure		500	{object}	httperror.Error
// @Router			/healthz [get]
func Get(c *gin.Context) {
	sqlDB, err := models.DB.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, httperror.New(err))
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, httperror.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
