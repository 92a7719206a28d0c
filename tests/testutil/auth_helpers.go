package testutil

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smart-home-repair/repair-api/middleware"
	"github.com/smart-home-repair/repair-api/models"
	"github.com/smart-home-repair/repair-api/services"
	"github.com/stretchr/testify/require"
)

// SetMockAuthContext sets up a mock authenticated context for testing
func SetMockAuthContext(c *gin.Context, user *models.User) {
	c.Set(middleware.ContextUserID, user.ID)
	c.Set(middleware.ContextCurrentUser, user)
}

// Login signs email in through the session service and returns the bearer token
func Login(t *testing.T, sessions *services.SessionService, email string) (*models.User, string) {
	t.Helper()

	user, token, err := sessions.Login(t.Context(), email, "password")
	require.NoError(t, err)
	return user, token
}

// BearerHeader formats token as an Authorization header value
func BearerHeader(token string) string {
	return "Bearer " + token
}

// CreateTestContext creates a test Gin context
func CreateTestContext() (*gin.Context, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	c, engine := gin.CreateTestContext(nil)
	return c, engine
}
