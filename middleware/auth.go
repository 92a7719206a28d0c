package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/gin-gonic/gin"
	"github.com/smart-home-repair/repair-api/logger"
	"github.com/smart-home-repair/repair-api/models"
	"github.com/smart-home-repair/repair-api/services"
)

// Context keys set by RequireSession
const (
	ContextUserID      = "user_id"
	ContextCurrentUser = "current_user"
)

// TokenValidator resolves a bearer token to the signed-in user
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

// RequireSession checks the Authorization bearer token against the active session.
// Tokens are opaque session ids, not JWTs; only the header parsing and error flow of the
// jwt middleware are used.
func RequireSession(sessions TokenValidator) gin.HandlerFunc {
	log := logger.Get().With("middleware", "auth")

	validate := func(ctx context.Context, token string) (interface{}, error) {
		return sessions.ValidateToken(ctx, token)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		code, message := "INVALID_TOKEN", "Session token is invalid or expired."
		if errors.Is(err, jwtmiddleware.ErrJWTMissing) {
			code, message = "MISSING_TOKEN", "Authorization bearer token is required."
		}
		log.Debug("Rejected request", "path", r.URL.Path, "error", err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"` + code + `","message":"` + message + `"}}`)); writeErr != nil {
			log.Warn("Failed to write error response", "error", writeErr)
		}
	}

	middleware := jwtmiddleware.New(
		validate,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		passed := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			user, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*models.User)
			if !ok || user == nil {
				errorHandler(w, r, services.ErrInvalidSession)
				return
			}

			passed = true
			c.Request = r
			c.Set(ContextUserID, user.ID)
			c.Set(ContextCurrentUser, user)
			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
		}
	}
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// GetCurrentUser extracts the signed-in user from the Gin context
func GetCurrentUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(ContextCurrentUser)
	if !exists {
		return nil, &AuthError{Code: "MISSING_USER", Message: "User not found in context"}
	}

	user, ok := value.(*models.User)
	if !ok || user == nil {
		return nil, &AuthError{Code: "INVALID_USER", Message: "User is not in the expected format"}
	}

	return user, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
