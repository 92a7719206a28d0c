package testutil

import (
	"github.com/gin-gonic/gin"
	"github.com/smart-home-repair/repair-api/controllers"
	"github.com/smart-home-repair/repair-api/middleware"
	"github.com/smart-home-repair/repair-api/services"
)

// Services is the service graph used by the integration and acceptance suites
type Services struct {
	Store      *services.RecordStore
	Sessions   *services.SessionService
	Classifier *services.MockClassifier
	Images     *services.MockImageService
	Faults     *services.FaultReportService
	Bookings   *services.BookingService
}

// NewServices builds every service over kv with a canned classifier and in-memory image
// storage, and publishes them through the package globals.
func NewServices(kv services.KeyValueStore, classifier *services.MockClassifier) *Services {
	if classifier == nil {
		classifier = services.NewMockClassifier("leak", 0.92)
	}

	s := &Services{
		Store:      services.InitRecordStore(kv, "", nil),
		Classifier: classifier,
		Images:     services.NewMockImageService(),
	}
	s.Sessions = services.InitSessionService(s.Store, nil)
	s.Images.SetAsMockForTesting()
	s.Faults = services.InitFaultReportService(s.Store, classifier, s.Images, nil)
	s.Bookings = services.InitBookingService(s.Store, 0, nil)
	services.InitClassifier(classifier)
	return s
}

// NewRouter registers the public and session-protected routes on a fresh engine
func NewRouter(sessions *services.SessionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	v1 := router.Group("/api/v1")
	v1.POST("/auth/login", controllers.Login)
	v1.POST("/auth/signup", controllers.Signup)
	v1.GET("/technicians", controllers.ListTechnicians)
	v1.GET("/technicians/:id", controllers.GetTechnician)
	v1.GET("/fault-types", controllers.ListFaultTypes)

	authed := v1.Group("")
	authed.Use(middleware.RequireSession(sessions))
	authed.POST("/auth/logout", controllers.Logout)
	authed.GET("/users/me", controllers.GetCurrentUser)
	authed.PUT("/users/me", controllers.UpdateCurrentUser)
	authed.DELETE("/users/me", controllers.DeleteCurrentUser)
	authed.DELETE("/data", controllers.ClearAppData)
	authed.POST("/scans", controllers.CreateScan)
	authed.GET("/fault-reports", controllers.ListFaultReports)
	authed.GET("/fault-reports/:id", controllers.GetFaultReport)
	authed.POST("/fault-reports/:id/guidance", controllers.OpenGuidance)
	authed.POST("/fault-reports/:id/steps/:stepId/toggle", controllers.ToggleRepairStep)
	authed.POST("/fault-reports/:id/complete", controllers.CompleteRepair)
	authed.POST("/fault-reports/:id/fail", controllers.FailRepair)
	authed.POST("/bookings", controllers.CreateBooking)
	authed.GET("/bookings", controllers.ListBookings)
	authed.GET("/bookings/:id", controllers.GetBooking)
	authed.PATCH("/bookings/:id/status", controllers.UpdateBookingStatus)
	authed.GET("/technicians/:id/estimate", controllers.GetTechnicianEstimate)
	authed.GET("/history", controllers.GetRepairHistory)
	authed.GET("/home", controllers.GetHome)
	authed.GET("/images/*key", controllers.GetStoredImage)
	return router
}
