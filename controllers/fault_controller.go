package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smart-home-repair/repair-api/services"
	"github.com/smart-home-repair/repair-api/utils"
)

const faultReportNotFound = "FAULT_REPORT_NOT_FOUND"

// CreateScan handles POST /api/v1/scans - classifies an uploaded image and records the fault
// Accepts multipart/form-data with a required "file" (JPEG or PNG) and an optional "image_uri"
func CreateScan(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondValidationError(c, "An image file is required in the \"file\" field")
		return
	}

	if err := utils.ValidateImageFile(fileHeader); err != nil {
		var fileErr *utils.FileUploadError
		if errors.As(err, &fileErr) {
			respondError(c, http.StatusBadRequest, fileErr.Code, fileErr.Message)
			return
		}
		respondValidationError(c, err.Error())
		return
	}

	content, err := utils.ReadUploadedFile(fileHeader)
	if err != nil {
		var fileErr *utils.FileUploadError
		if errors.As(err, &fileErr) {
			respondError(c, http.StatusBadRequest, fileErr.Code, fileErr.Message)
			return
		}
		respondError(c, http.StatusBadRequest, "UPLOAD_FAILED", "Failed to read uploaded image")
		return
	}

	report, err := services.GetFaultReportService().Scan(c.Request.Context(), *user, services.ScanInput{
		Filename:    fileHeader.Filename,
		ContentType: utils.ContentTypeFor(fileHeader.Filename),
		Content:     content,
		ImageURI:    c.PostForm("image_uri"),
	})
	if err != nil {
		respondServiceError(c, err, faultReportNotFound)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    report,
	})
}

// ListFaultReports handles GET /api/v1/fault-reports - most recent first
func ListFaultReports(c *gin.Context) {
	reports := services.GetFaultReportService().List(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reports,
		"count":   len(reports),
	})
}

// GetFaultReport handles GET /api/v1/fault-reports/:id
func GetFaultReport(c *gin.Context) {
	report, err := services.GetFaultReportService().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, faultReportNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"report":     report,
			"fault_type": services.DescribeFaultType(report.FaultType),
		},
	})
}

// OpenGuidance handles POST /api/v1/fault-reports/:id/guidance
// Generates repair steps on first access and moves the report to repairing
func OpenGuidance(c *gin.Context) {
	report, err := services.GetFaultReportService().OpenGuidance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, faultReportNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}

// ToggleRepairStep handles POST /api/v1/fault-reports/:id/steps/:stepId/toggle
func ToggleRepairStep(c *gin.Context) {
	report, err := services.GetFaultReportService().ToggleStep(c.Request.Context(), c.Param("id"), c.Param("stepId"))
	if err != nil {
		respondServiceError(c, err, "REPAIR_STEP_NOT_FOUND")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}

// CompleteRepair handles POST /api/v1/fault-reports/:id/complete
func CompleteRepair(c *gin.Context) {
	report, history, err := services.GetFaultReportService().MarkComplete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, faultReportNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"report":  report,
			"history": history,
		},
	})
}

// FailRepair handles POST /api/v1/fault-reports/:id/fail
func FailRepair(c *gin.Context) {
	report, err := services.GetFaultReportService().MarkFailed(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, faultReportNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}

// ListFaultTypes handles GET /api/v1/fault-types
func ListFaultTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services.FaultTypeCatalog(),
	})
}
