package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smart-home-repair/repair-api/models"
	"github.com/smart-home-repair/repair-api/services"
)

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest represents the request body for creating an account
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse is returned by login and signup
type SessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login handles POST /api/v1/auth/login
// Any non-empty password is accepted; it is never stored.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	user, token, err := services.GetSessionService().Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "USER_NOT_FOUND")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    SessionResponse{Token: token, User: user},
	})
}

// Signup handles POST /api/v1/auth/signup - replaces any stored user
func Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	user, token, err := services.GetSessionService().Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "USER_NOT_FOUND")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    SessionResponse{Token: token, User: user},
	})
}

// Logout handles POST /api/v1/auth/logout - ends the session, keeps app data
func Logout(c *gin.Context) {
	if err := services.GetSessionService().Logout(c.Request.Context()); err != nil {
		respondServiceError(c, err, "USER_NOT_FOUND")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}
