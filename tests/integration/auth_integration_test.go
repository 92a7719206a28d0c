package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smart-home-repair/repair-api/services"
	"github.com/smart-home-repair/repair-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// AuthIntegrationTestSuite covers login, signup and session enforcement
type AuthIntegrationTestSuite struct {
	suite.Suite
	router *gin.Engine
	svc    *testutil.Services
}

// SetupTest runs before each test
func (suite *AuthIntegrationTestSuite) SetupTest() {
	suite.svc = testutil.NewServices(services.NewMockKeyValueStore(), nil)
	suite.router = testutil.NewRouter(suite.svc.Sessions)
}

func (suite *AuthIntegrationTestSuite) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	raw, _ := json.Marshal(body)
	if body == nil {
		raw = nil
	}
	req, _ := http.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", testutil.BearerHeader(token))
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	return w, response
}

func (suite *AuthIntegrationTestSuite) TestProtectedEndpoint_WithoutToken() {
	w, response := suite.do("GET", "/api/v1/users/me", "", nil)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(suite.T(), false, response["success"])
	assert.Equal(suite.T(), "MISSING_TOKEN", response["error"].(map[string]interface{})["code"])
}

func (suite *AuthIntegrationTestSuite) TestProtectedEndpoint_WithInvalidToken() {
	testutil.Login(suite.T(), suite.svc.Sessions, "jane@example.com")

	w, response := suite.do("GET", "/api/v1/users/me", "not-the-token", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(suite.T(), "INVALID_TOKEN", response["error"].(map[string]interface{})["code"])
}

func (suite *AuthIntegrationTestSuite) TestProtectedEndpoint_MalformedHeader() {
	req, _ := http.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *AuthIntegrationTestSuite) TestLogin_ReusesMatchingUser() {
	w, first := suite.do("POST", "/api/v1/auth/login", "", map[string]string{"email": "jane@example.com", "password": "pw"})
	suite.Require().Equal(http.StatusOK, w.Code)
	w, second := suite.do("POST", "/api/v1/auth/login", "", map[string]string{"email": "jane@example.com", "password": "other"})
	suite.Require().Equal(http.StatusOK, w.Code)

	firstData := first["data"].(map[string]interface{})
	secondData := second["data"].(map[string]interface{})
	assert.Equal(suite.T(), firstData["user"].(map[string]interface{})["id"], secondData["user"].(map[string]interface{})["id"])
	assert.NotEqual(suite.T(), firstData["token"], secondData["token"])
	assert.Equal(suite.T(), "jane", secondData["user"].(map[string]interface{})["name"])

	// The earlier token no longer validates
	w, _ = suite.do("GET", "/api/v1/users/me", firstData["token"].(string), nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *AuthIntegrationTestSuite) TestLogin_RequiresFields() {
	w, response := suite.do("POST", "/api/v1/auth/login", "", map[string]string{"email": "jane@example.com"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "VALIDATION_ERROR", response["error"].(map[string]interface{})["code"])
}

func (suite *AuthIntegrationTestSuite) TestSignupAndUpdateProfile() {
	w, response := suite.do("POST", "/api/v1/auth/signup", "", map[string]string{"name": "Alex", "email": "alex@example.com", "password": "pw"})
	suite.Require().Equal(http.StatusCreated, w.Code)
	token := response["data"].(map[string]interface{})["token"].(string)

	w, response = suite.do("PUT", "/api/v1/users/me", token, map[string]string{"phone": "+1 555-0199"})
	suite.Require().Equal(http.StatusOK, w.Code)
	user := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), "Alex", user["name"])
	assert.Equal(suite.T(), "+1 555-0199", user["phone"])

	stored := suite.svc.Store.GetUser(suite.T().Context())
	suite.Require().NotNil(stored)
	suite.Require().NotNil(stored.Phone)
	assert.Equal(suite.T(), "+1 555-0199", *stored.Phone)
}

func (suite *AuthIntegrationTestSuite) TestLogout_KeepsData() {
	user, token := testutil.Login(suite.T(), suite.svc.Sessions, "jane@example.com")
	_, err := suite.svc.Bookings.ConfirmBooking(suite.T().Context(), services.BookingRequest{
		UserID:             user.ID,
		TechnicianID:       "tech1",
		ScheduledDate:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		ScheduledTime:      "9:00 AM",
		Address:            "1 Main St",
		ServiceDescription: "Outlet sparks",
	})
	suite.Require().NoError(err)

	w, _ := suite.do("POST", "/api/v1/auth/logout", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	assert.Nil(suite.T(), suite.svc.Store.GetUser(suite.T().Context()))
	assert.Len(suite.T(), suite.svc.Store.GetBookings(suite.T().Context()), 1)
}

// TestAuthIntegrationTestSuite runs the test suite
func TestAuthIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AuthIntegrationTestSuite))
}
