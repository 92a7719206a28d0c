package integration

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smart-home-repair/repair-api/config"
	"github.com/smart-home-repair/repair-api/models"
	"github.com/smart-home-repair/repair-api/services"
	"github.com/smart-home-repair/repair-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// RepairIntegrationTestSuite drives the scan to repair flow over a sqlite-backed store
type RepairIntegrationTestSuite struct {
	suite.Suite
	router *gin.Engine
	svc    *testutil.Services
	user   *models.User
	token  string
}

// SetupSuite runs once before all tests
func (suite *RepairIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("GO_ENV", "test")
}

// SetupTest runs before each test
func (suite *RepairIntegrationTestSuite) SetupTest() {
	// Create in-memory database for testing
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	config.SetDB(db)

	kv, err := services.NewGormKeyValueStore(db)
	suite.Require().NoError(err)

	suite.svc = testutil.NewServices(kv, nil)
	suite.router = testutil.NewRouter(suite.svc.Sessions)
	suite.user, suite.token = testutil.Login(suite.T(), suite.svc.Sessions, "jane@example.com")
}

func (suite *RepairIntegrationTestSuite) request(method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", testutil.BearerHeader(suite.token))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RepairIntegrationTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func (suite *RepairIntegrationTestSuite) scan(filename string) map[string]interface{} {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte("fake image"))
	writer.Close()

	w := suite.request("POST", "/api/v1/scans", body.Bytes(), writer.FormDataContentType())
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return suite.decode(w)["data"].(map[string]interface{})
}

// Test Cases

func (suite *RepairIntegrationTestSuite) TestScan_CreatesDetectedReport() {
	report := suite.scan("sink.jpg")

	assert.Equal(suite.T(), "leak", report["fault_type"])
	assert.Equal(suite.T(), string(models.FaultStatusDetected), report["status"])
	assert.Equal(suite.T(), "Detected leak with 92% confidence", report["description"])
	assert.Equal(suite.T(), suite.user.ID, report["user_id"])
	assert.Equal(suite.T(), 1, suite.svc.Images.ImageCount())

	stored := suite.svc.Store.GetFaultReports(suite.T().Context())
	suite.Require().Len(stored, 1)
	assert.Equal(suite.T(), report["id"], stored[0].ID)
}

func (suite *RepairIntegrationTestSuite) TestScan_NoFaultDetected() {
	suite.svc.Classifier.SetError(&services.ClassificationUnavailableError{Reason: services.ReasonNoFaultDetected, Err: services.ErrNoFaultDetected})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "wall.png")
	part.Write([]byte("fake image"))
	writer.Close()

	w := suite.request("POST", "/api/v1/scans", body.Bytes(), writer.FormDataContentType())
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
	assert.Empty(suite.T(), suite.svc.Store.GetFaultReports(suite.T().Context()))
	assert.Equal(suite.T(), 0, suite.svc.Images.ImageCount(), "stored image is removed when nothing is detected")
}

func (suite *RepairIntegrationTestSuite) TestScan_RejectsUnsupportedFormat() {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "clip.gif")
	part.Write([]byte("gif"))
	writer.Close()

	w := suite.request("POST", "/api/v1/scans", body.Bytes(), writer.FormDataContentType())
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	errObj := suite.decode(w)["error"].(map[string]interface{})
	assert.Equal(suite.T(), "INVALID_FILE_FORMAT", errObj["code"])
}

func (suite *RepairIntegrationTestSuite) TestGuidanceToggleAndComplete() {
	report := suite.scan("sink.jpg")
	id := report["id"].(string)

	w := suite.request("POST", "/api/v1/fault-reports/"+id+"/guidance", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	guided := suite.decode(w)["data"].(map[string]interface{})
	assert.Equal(suite.T(), string(models.FaultStatusRepairing), guided["status"])
	steps := guided["repair_steps"].([]interface{})
	suite.Require().Len(steps, 4)
	assert.Equal(suite.T(), "Shut Off Water", steps[0].(map[string]interface{})["title"])

	w = suite.request("POST", "/api/v1/fault-reports/"+id+"/steps/l1/toggle", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	toggled := suite.decode(w)["data"].(map[string]interface{})
	assert.Equal(suite.T(), true, toggled["repair_steps"].([]interface{})[0].(map[string]interface{})["is_completed"])

	// Reopening guidance keeps the toggled step
	w = suite.request("POST", "/api/v1/fault-reports/"+id+"/guidance", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	reopened := suite.decode(w)["data"].(map[string]interface{})
	assert.Equal(suite.T(), true, reopened["repair_steps"].([]interface{})[0].(map[string]interface{})["is_completed"])

	w = suite.request("POST", "/api/v1/fault-reports/"+id+"/complete", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	data := suite.decode(w)["data"].(map[string]interface{})
	assert.Equal(suite.T(), string(models.FaultStatusVerified), data["report"].(map[string]interface{})["status"])
	history := data["history"].(map[string]interface{})
	assert.Equal(suite.T(), id, history["fault_report_id"])
	assert.Equal(suite.T(), services.VerificationMessage, history["verification_result"])

	w = suite.request("GET", "/api/v1/history", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), float64(1), suite.decode(w)["count"])

	// A completed repair cannot be completed again
	w = suite.request("POST", "/api/v1/fault-reports/"+id+"/complete", nil, "")
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func (suite *RepairIntegrationTestSuite) TestToggleUnknownStep() {
	report := suite.scan("sink.jpg")
	id := report["id"].(string)
	suite.request("POST", "/api/v1/fault-reports/"+id+"/guidance", nil, "")

	w := suite.request("POST", "/api/v1/fault-reports/"+id+"/steps/zz/toggle", nil, "")
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.Equal(suite.T(), "REPAIR_STEP_NOT_FOUND", suite.decode(w)["error"].(map[string]interface{})["code"])
}

func (suite *RepairIntegrationTestSuite) TestFailRepair() {
	report := suite.scan("sink.jpg")
	id := report["id"].(string)

	w := suite.request("POST", "/api/v1/fault-reports/"+id+"/fail", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), string(models.FaultStatusFailed), suite.decode(w)["data"].(map[string]interface{})["status"])

	w = suite.request("POST", "/api/v1/fault-reports/"+id+"/guidance", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), string(models.FaultStatusFailed), suite.decode(w)["data"].(map[string]interface{})["status"], "guidance never revives a failed report")
}

func (suite *RepairIntegrationTestSuite) TestGetFaultReport() {
	report := suite.scan("sink.jpg")

	w := suite.request("GET", "/api/v1/fault-reports/"+report["id"].(string), nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	data := suite.decode(w)["data"].(map[string]interface{})
	assert.Equal(suite.T(), "Water Leak", data["fault_type"].(map[string]interface{})["name"])

	w = suite.request("GET", "/api/v1/fault-reports/missing", nil, "")
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *RepairIntegrationTestSuite) TestClearAppDataKeepsSession() {
	suite.scan("sink.jpg")

	w := suite.request("DELETE", "/api/v1/data", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.request("GET", "/api/v1/fault-reports", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), float64(0), suite.decode(w)["count"])

	w = suite.request("GET", "/api/v1/users/me", nil, "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *RepairIntegrationTestSuite) TestDeleteAccountEndsSession() {
	suite.scan("sink.jpg")

	w := suite.request("DELETE", "/api/v1/users/me", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.request("GET", "/api/v1/fault-reports", nil, "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.Empty(suite.T(), suite.svc.Store.GetFaultReports(suite.T().Context()))
}

// TestRepairIntegrationTestSuite runs the test suite
func TestRepairIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(RepairIntegrationTestSuite))
}
