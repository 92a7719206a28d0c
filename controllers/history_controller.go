package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smart-home-repair/repair-api/services"
)

// homeRecentLimit is how many recent reports and bookings the home summary shows
const homeRecentLimit = 3

// GetRepairHistory handles GET /api/v1/history - completed repairs, most recent first
func GetRepairHistory(c *gin.Context) {
	history := services.GetFaultReportService().History(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    history,
		"count":   len(history),
	})
}

// GetHome handles GET /api/v1/home - greeting data plus recent activity
func GetHome(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":            user,
			"recent_reports":  services.GetFaultReportService().Recent(ctx, homeRecentLimit),
			"recent_bookings": services.GetBookingService().Recent(ctx, homeRecentLimit),
		},
	})
}
