package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smart-home-repair/repair-api/middleware"
	"github.com/smart-home-repair/repair-api/models"
	"github.com/smart-home-repair/repair-api/services"
	"github.com/stretchr/testify/require"
)

// testEnv holds the services wired into the package globals for one test
type testEnv struct {
	kv         *services.MockKeyValueStore
	store      *services.RecordStore
	classifier *services.MockClassifier
	images     *services.MockImageService
	sessions   *services.SessionService
	faults     *services.FaultReportService
	bookings   *services.BookingService
	user       *models.User
	token      string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		kv:         services.NewMockKeyValueStore(),
		classifier: services.NewMockClassifier("crack", 0.87),
		images:     services.NewMockImageService(),
	}
	env.store = services.NewRecordStore(env.kv, "", nil)
	env.sessions = services.NewSessionService(env.store, nil)
	env.faults = services.NewFaultReportService(env.store, env.classifier, env.images, nil)
	env.bookings = services.NewBookingService(env.store, 0, nil)

	services.SetRecordStore(env.store)
	services.SetSessionService(env.sessions)
	services.SetFaultReportService(env.faults)
	services.SetBookingService(env.bookings)
	services.SetImageService(env.images)

	user, token, err := env.sessions.Login(t.Context(), "jane@example.com", "pw")
	require.NoError(t, err)
	env.user, env.token = user, token
	return env
}

// mockAuthMiddleware simulates a validated session for user
func mockAuthMiddleware(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, user.ID)
		c.Set(middleware.ContextCurrentUser, user)
		c.Next()
	}
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	response := decodeResponse(t, w)
	errorData, ok := response["error"].(map[string]interface{})
	require.True(t, ok, "response has no error object: %s", w.Body.String())
	return errorData["code"].(string)
}

func multipartImage(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func performUpload(router *gin.Engine, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
