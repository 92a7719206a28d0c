package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smart-home-repair/repair-api/models"
	"github.com/smart-home-repair/repair-api/services"
)

const bookingNotFound = "BOOKING_NOT_FOUND"

// CreateBookingRequest represents the request body for booking a technician
type CreateBookingRequest struct {
	TechnicianID       string  `json:"technician_id" binding:"required"`
	FaultReportID      *string `json:"fault_report_id"`
	ScheduledDate      string  `json:"scheduled_date" binding:"required"`
	ScheduledTime      string  `json:"scheduled_time" binding:"required"`
	Address            string  `json:"address"`
	ServiceDescription string  `json:"service_description"`
}

// UpdateBookingStatusRequest represents the request body for changing a booking's status
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateBooking handles POST /api/v1/bookings - books and confirms a technician visit
func CreateBooking(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	date, err := services.ParseScheduledDate(req.ScheduledDate)
	if err != nil {
		respondServiceError(c, err, bookingNotFound)
		return
	}

	if req.FaultReportID != nil && strings.TrimSpace(*req.FaultReportID) == "" {
		req.FaultReportID = nil
	}

	booking, err := services.GetBookingService().ConfirmBooking(c.Request.Context(), services.BookingRequest{
		UserID:             user.ID,
		TechnicianID:       req.TechnicianID,
		FaultReportID:      req.FaultReportID,
		ScheduledDate:      date,
		ScheduledTime:      models.TimeSlot(req.ScheduledTime),
		Address:            req.Address,
		ServiceDescription: req.ServiceDescription,
	})
	if err != nil {
		respondServiceError(c, err, "TECHNICIAN_NOT_FOUND")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    booking,
	})
}

// ListBookings handles GET /api/v1/bookings - most recent first
func ListBookings(c *gin.Context) {
	bookings := services.GetBookingService().List(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bookings,
		"count":   len(bookings),
	})
}

// GetBooking handles GET /api/v1/bookings/:id
func GetBooking(c *gin.Context) {
	booking, err := services.GetBookingService().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, bookingNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    booking,
	})
}

// UpdateBookingStatus handles PATCH /api/v1/bookings/:id/status
func UpdateBookingStatus(c *gin.Context) {
	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	booking, err := services.GetBookingService().UpdateStatus(c.Request.Context(), c.Param("id"), models.BookingStatus(req.Status))
	if err != nil {
		respondServiceError(c, err, bookingNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    booking,
	})
}
