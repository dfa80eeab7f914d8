package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/hotel-housekeeping/services"
	"github.com/yeremiapane/hotel-housekeeping/utils"
)

// respondServiceError maps service error kinds to HTTP status codes. Anything
// unclassified is logged and reported as 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrConflict):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.Error().WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		}).WithError(err).Error("request failed")
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

// pathID reads a numeric path parameter. A non-numeric id cannot name anything, so it
// is reported as not found.
func pathID(c *gin.Context, name, entity string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("%s %s not found", entity, raw))
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional numeric query parameter; absent means 0.
func queryID(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: must be a positive integer", services.ErrValidation, name)
	}
	return uint(id), nil
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}
