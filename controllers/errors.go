package controllers

import (
	"errors"
	"net/http"

	"storefront/logging"
	"storefront/models"
	"storefront/repositories"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrItemNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "Product not found"})
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "Session not found"})
	case errors.Is(err, services.ErrUnknownSource):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Unknown item source", Error: err.Error()})
	default:
		logging.From(c).Error("request failed", zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Success: false, Message: "Internal server error"})
	}
}
