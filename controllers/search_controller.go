package controllers

import (
	"net/http"
	"strconv"

	"storefront/middleware"
	"storefront/models"

	"github.com/gin-gonic/gin"
)

type SearchController struct{}

// @Summary Search remote catalog
// @Description Trigger a remote catalog fetch. Returns 202 while loading, or waits with wait=true.
// @Tags Search
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.SearchRequest false "Query"
// @Param wait query bool false "Wait for the fetch to complete"
// @Success 202 {object} models.Response{data=models.FetchStatus}
// @Success 200 {object} models.Response{data=models.FetchStatus}
// @Router /session/search [post]
func (ctrl *SearchController) Search(c *gin.Context) {
	var req models.SearchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid request", Error: err.Error()})
			return
		}
	}
	if req.Query == "" {
		req.Query = c.Query("query")
	}

	sess := middleware.CurrentSession(c)
	wait, _ := strconv.ParseBool(c.DefaultQuery("wait", "false"))
	if wait {
		status := sess.Fetcher.Fetch(c.Request.Context(), req.Query)
		c.JSON(http.StatusOK, models.Response{Success: true, Message: "Search completed", Data: status})
		return
	}

	sess.Fetcher.Trigger(req.Query)
	c.JSON(http.StatusAccepted, models.Response{Success: true, Message: "Search started", Data: sess.Fetcher.Status()})
}

// @Summary Get search status
// @Description Fetch state and current remote results
// @Tags Search
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=models.FetchStatus}
// @Router /session/search [get]
func (ctrl *SearchController) GetSearch(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Search status", Data: sess.Fetcher.Status()})
}
