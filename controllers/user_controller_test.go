package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smart-home-repair/repair-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserRouter(env *testEnv) *gin.Engine {
	router := gin.New()
	auth := mockAuthMiddleware(env.user)
	router.GET("/users/me", auth, GetCurrentUser)
	router.PUT("/users/me", auth, UpdateCurrentUser)
	router.DELETE("/users/me", auth, DeleteCurrentUser)
	router.DELETE("/data", auth, ClearAppData)
	return router
}

func TestGetCurrentUser(t *testing.T) {
	env := setupTestEnv(t)
	router := setupUserRouter(env)

	w := performJSON(router, http.MethodGet, "/users/me", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, env.user.ID, data["id"])
	assert.Equal(t, "jane@example.com", data["email"])
}

func TestUpdateCurrentUser(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, data map[string]interface{})
	}{
		{
			name:           "Update name and phone",
			requestBody:    map[string]interface{}{"name": "Jane Doe", "phone": "+1 555 0100"},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, "Jane Doe", data["name"])
				assert.Equal(t, "+1 555 0100", data["phone"])
				assert.Equal(t, "jane@example.com", data["email"])
			},
		},
		{
			name:           "Update address only",
			requestBody:    map[string]interface{}{"address": "12 Elm Street"},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, "12 Elm Street", data["address"])
				assert.Equal(t, "jane", data["name"])
			},
		},
		{
			name:           "Fail with empty body",
			requestBody:    map[string]interface{}{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Fail with invalid email",
			requestBody:    map[string]interface{}{"email": "not-an-email"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Fail with blank name",
			requestBody:    map[string]interface{}{"name": "  "},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			router := setupUserRouter(env)

			w := performJSON(router, http.MethodPut, "/users/me", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(t, w))
				return
			}
			tt.checkResponse(t, decodeResponse(t, w)["data"].(map[string]interface{}))
		})
	}
}

func TestUpdateCurrentUser_NoSession(t *testing.T) {
	env := setupTestEnv(t)
	router := setupUserRouter(env)
	require.NoError(t, env.sessions.Logout(t.Context()))

	w := performJSON(router, http.MethodPut, "/users/me", map[string]interface{}{"name": "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "USER_NOT_FOUND", errorCode(t, w))
}

func TestClearAppDataAndDeleteAccount(t *testing.T) {
	env := setupTestEnv(t)
	router := setupUserRouter(env)
	require.NoError(t, env.store.SaveFaultReport(t.Context(), models.FaultReport{ID: "r1", Status: models.FaultStatusDetected}))

	w := performJSON(router, http.MethodDelete, "/data", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.store.GetFaultReports(t.Context()))
	assert.NotNil(t, env.sessions.Current(t.Context()), "clearing app data keeps the session")

	w = performJSON(router, http.MethodDelete, "/users/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, env.sessions.Current(t.Context()))
}

func TestClearAppData_StorageFailure(t *testing.T) {
	env := setupTestEnv(t)
	router := setupUserRouter(env)
	env.kv.FailWritesTo("*")

	w := performJSON(router, http.MethodDelete, "/data", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "STORAGE_ERROR", errorCode(t, w))
}
