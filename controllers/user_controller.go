package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smart-home-repair/repair-api/models"
	"github.com/smart-home-repair/repair-api/services"
)

// UpdateUserRequest represents the request body for updating a user profile
type UpdateUserRequest struct {
	Name    *string `json:"name" binding:"omitempty"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty"`
	Address *string `json:"address" binding:"omitempty"`
}

// GetCurrentUser handles GET /api/v1/users/me - returns the signed-in user
func GetCurrentUser(c *gin.Context) {
	user := services.GetSessionService().Current(c.Request.Context())
	if user == nil {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "No user is signed in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// UpdateCurrentUser handles PUT /api/v1/users/me - merges the provided profile fields
func UpdateCurrentUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	update := models.UserUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if update.IsEmpty() {
		respondValidationError(c, "At least one field (name, email, phone or address) must be provided")
		return
	}

	user, err := services.GetSessionService().UpdateUser(c.Request.Context(), update)
	if err != nil {
		respondServiceError(c, err, "USER_NOT_FOUND")
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "No user is signed in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// DeleteCurrentUser handles DELETE /api/v1/users/me - removes the account and all app data
func DeleteCurrentUser(c *gin.Context) {
	if err := services.GetSessionService().DeleteAccount(c.Request.Context()); err != nil {
		respondServiceError(c, err, "USER_NOT_FOUND")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account deleted",
	})
}

// ClearAppData handles DELETE /api/v1/data - removes reports, bookings and history
func ClearAppData(c *gin.Context) {
	if err := services.GetSessionService().ClearAppData(c.Request.Context()); err != nil {
		respondServiceError(c, err, "DATA_NOT_FOUND")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "App data cleared",
	})
}
