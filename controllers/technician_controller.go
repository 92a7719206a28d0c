package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smart-home-repair/repair-api/services"
)

const technicianNotFound = "TECHNICIAN_NOT_FOUND"

// ListTechnicians handles GET /api/v1/technicians?q=&specialty=
func ListTechnicians(c *gin.Context) {
	technicians := services.ListTechnicians(c.Query("q"), c.Query("specialty"))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    technicians,
		"count":   len(technicians),
	})
}

// GetTechnician handles GET /api/v1/technicians/:id
func GetTechnician(c *gin.Context) {
	technician, err := services.FindTechnician(c.Param("id"))
	if err != nil {
		respondServiceError(c, err, technicianNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    technician,
	})
}

// GetTechnicianEstimate handles GET /api/v1/technicians/:id/estimate
func GetTechnicianEstimate(c *gin.Context) {
	technicianID := c.Param("id")
	cost, err := services.GetBookingService().EstimateCost(technicianID)
	if err != nil {
		respondServiceError(c, err, technicianNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"technician_id":  technicianID,
			"estimated_cost": cost,
		},
	})
}
