package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smart-home-repair/repair-api/logger"
	"github.com/smart-home-repair/repair-api/middleware"
	"github.com/smart-home-repair/repair-api/models"
	"github.com/smart-home-repair/repair-api/services"
)

// statusClientClosedRequest is the nginx convention for a request the client abandoned
const statusClientClosedRequest = 499

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondValidationError(c *gin.Context, details string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": details,
		},
	})
}

// respondServiceError maps a service error onto the JSON error envelope.
// notFoundCode names the missing resource, e.g. FAULT_REPORT_NOT_FOUND.
func respondServiceError(c *gin.Context, err error, notFoundCode string) {
	var validationErr *services.ValidationError
	var unavailableErr *services.ClassificationUnavailableError
	var partialErr *services.PartialLifecycleWriteError
	var writeErr *services.StorageWriteError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": validationErr.Message,
				"details": gin.H{"field": validationErr.Field},
			},
		})
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, notFoundCode, "The requested resource was not found")
	case errors.Is(err, services.ErrInvalidTransition):
		respondError(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.As(err, &unavailableErr):
		if unavailableErr.Reason == services.ReasonNoFaultDetected {
			respondError(c, http.StatusUnprocessableEntity, "NO_FAULT_DETECTED", "No fault was detected in the image")
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CLASSIFICATION_UNAVAILABLE",
				"message": "The fault classifier could not process the image",
				"details": gin.H{"reason": unavailableErr.Reason},
			},
		})
	case errors.As(err, &partialErr):
		logger.Get().Error("Partial lifecycle write", "report_id", partialErr.ReportID, "error", err)
		respondError(c, http.StatusInternalServerError, "PARTIAL_LIFECYCLE_WRITE", "The repair was verified but its history record could not be saved")
	case errors.As(err, &writeErr):
		logger.Get().Error("Storage write failed", "key", writeErr.Key, "error", err)
		respondError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to save data")
	case errors.Is(err, context.Canceled):
		logger.Get().Debug("Request cancelled by client", "path", c.Request.URL.Path)
		respondError(c, statusClientClosedRequest, "REQUEST_CANCELLED", "The request was cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Get().Debug("Request deadline exceeded", "path", c.Request.URL.Path)
		respondError(c, http.StatusRequestTimeout, "REQUEST_TIMEOUT", "The request took too long")
	default:
		logger.Get().Error("Unhandled service error", "path", c.Request.URL.Path, "error", err)
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}

// currentUser returns the signed-in user or writes a 401 and returns false
func currentUser(c *gin.Context) (*models.User, bool) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not identify the signed-in user")
		return nil, false
	}
	return user, true
}
