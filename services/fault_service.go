package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smart-home-repair/repair-api/logger"
	"github.com/smart-home-repair/repair-api/models"
)

// VerificationMessage is recorded on every history entry written by MarkComplete
const VerificationMessage = "Repair completed successfully"

// ScanInput is one image submitted for fault detection
type ScanInput struct {
	Filename    string
	ContentType string
	Content     []byte
	// ImageURI, when set, is recorded instead of storing the image
	ImageURI string
}

// FaultReportService runs the fault report lifecycle over the record store
type FaultReportService struct {
	store      *RecordStore
	classifier Classifier
	images     ImageService
	log        *logger.Logger

	now   func() time.Time
	newID func() string
}

var faultReportServiceInstance *FaultReportService

// NewFaultReportService creates a fault report service. images may be nil when every scan
// carries its own image URI.
func NewFaultReportService(store *RecordStore, classifier Classifier, images ImageService, log *logger.Logger) *FaultReportService {
	if log == nil {
		log = logger.Nop()
	}
	return &FaultReportService{
		store:      store,
		classifier: classifier,
		images:     images,
		log:        log.With("service", "FaultReportService"),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// InitFaultReportService creates the process fault report service
func InitFaultReportService(store *RecordStore, classifier Classifier, images ImageService, log *logger.Logger) *FaultReportService {
	faultReportServiceInstance = NewFaultReportService(store, classifier, images, log)
	return faultReportServiceInstance
}

// GetFaultReportService returns the initialized fault report service
func GetFaultReportService() *FaultReportService {
	return faultReportServiceInstance
}

// SetFaultReportService sets the fault report service instance (primarily for testing)
func SetFaultReportService(service *FaultReportService) {
	faultReportServiceInstance = service
}

// Scan classifies an image and records the detection. When the classifier has nothing usable
// no report is created and a *ClassificationUnavailableError is returned.
func (s *FaultReportService) Scan(ctx context.Context, user models.User, input ScanInput) (*models.FaultReport, error) {
	if len(input.Content) == 0 {
		return nil, newValidationError("file", "image is required")
	}

	imageURI := strings.TrimSpace(input.ImageURI)
	var stored *StoredImage
	if imageURI == "" {
		if s.images == nil {
			return nil, newValidationError("image_uri", "image_uri is required when image storage is disabled")
		}
		var err error
		stored, err = s.images.StoreImage(ctx, input.Filename, input.ContentType, input.Content)
		if err != nil {
			s.log.Error("Failed to store scan image", "error", err)
			return nil, &StorageWriteError{Key: "image", Err: err}
		}
		imageURI = stored.URI
	}

	detection, err := s.classifier.Detect(ctx, input.Filename, input.ContentType, input.Content)
	if err != nil {
		s.discardImage(stored)
		return nil, err
	}

	report, err := s.CreateFromDetection(ctx, user.ID, imageURI, *detection)
	if err != nil {
		s.discardImage(stored)
		return nil, err
	}
	return report, nil
}

// discardImage removes an image stored for a scan that produced no report
func (s *FaultReportService) discardImage(stored *StoredImage) {
	if stored == nil {
		return
	}
	if err := s.images.DeleteImage(context.Background(), stored.Key); err != nil {
		s.log.Warn("Failed to remove orphaned scan image", "key", stored.Key, "error", err)
	}
}

// CreateFromDetection persists a new report in the detected state
func (s *FaultReportService) CreateFromDetection(ctx context.Context, userID, imageURI string, detection Detection) (*models.FaultReport, error) {
	if strings.TrimSpace(detection.Label) == "" {
		return nil, &ClassificationUnavailableError{Reason: ReasonNoFaultDetected, Err: ErrNoFaultDetected}
	}
	if detection.Confidence < 0 || detection.Confidence > 1 {
		return nil, newValidationError("confidence", "confidence must be between 0 and 1")
	}

	report := models.FaultReport{
		ID:          s.newID(),
		UserID:      userID,
		ImageURI:    imageURI,
		FaultType:   detection.Label,
		Confidence:  detection.Confidence,
		Description: DescribeDetection(detection),
		DetectedAt:  s.now().UTC(),
		Status:      models.FaultStatusDetected,
	}
	if err := s.store.SaveFaultReport(ctx, report); err != nil {
		return nil, err
	}

	s.log.Info("Created fault report", "report_id", report.ID, "fault_type", report.FaultType)
	return &report, nil
}

// DescribeDetection renders the report summary, e.g. "Detected crack with 87% confidence"
func DescribeDetection(d Detection) string {
	return fmt.Sprintf("Detected %s with %d%% confidence", d.Label, int(math.Round(d.Confidence*100)))
}

// Get returns one report or ErrNotFound
func (s *FaultReportService) Get(ctx context.Context, id string) (*models.FaultReport, error) {
	return s.store.GetFaultReport(ctx, id)
}

// List returns every report, most recent first
func (s *FaultReportService) List(ctx context.Context) []models.FaultReport {
	return s.store.GetFaultReports(ctx)
}

// Recent returns at most n of the most recent reports
func (s *FaultReportService) Recent(ctx context.Context, n int) []models.FaultReport {
	return firstN(s.store.GetFaultReports(ctx), n)
}

// OpenGuidance returns the report with its repair steps, generating them on first access.
// Once steps exist they are returned untouched.
func (s *FaultReportService) OpenGuidance(ctx context.Context, id string) (*models.FaultReport, error) {
	report, err := s.store.GetFaultReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.HasRepairSteps() {
		return report, nil
	}

	report.RepairSteps = GenerateRepairSteps(report.FaultType)
	if report.Status == models.FaultStatusDetected {
		report.Status = models.FaultStatusRepairing
	}
	if err := s.store.SaveFaultReport(ctx, *report); err != nil {
		return nil, err
	}

	s.log.Info("Generated repair steps", "report_id", report.ID, "steps", len(report.RepairSteps))
	return report, nil
}

// ToggleStep flips one step's completion. Steps may be completed in any order.
func (s *FaultReportService) ToggleStep(ctx context.Context, id, stepID string) (*models.FaultReport, error) {
	report, err := s.store.GetFaultReport(ctx, id)
	if err != nil {
		return nil, err
	}

	completed := report.CompletedStepIDs()
	known := false
	for _, step := range report.RepairSteps {
		if step.ID == stepID {
			known = true
			break
		}
	}
	if !known {
		return nil, ErrNotFound
	}

	if completed[stepID] {
		delete(completed, stepID)
	} else {
		completed[stepID] = true
	}
	for i := range report.RepairSteps {
		report.RepairSteps[i].IsCompleted = completed[report.RepairSteps[i].ID]
	}

	if err := s.store.SaveFaultReport(ctx, *report); err != nil {
		return nil, err
	}
	return report, nil
}

// MarkComplete verifies a repairing report and appends its history record. If the history
// write fails the report is restored; if that fails too a *PartialLifecycleWriteError is returned.
func (s *FaultReportService) MarkComplete(ctx context.Context, id string) (*models.FaultReport, *models.RepairHistory, error) {
	report, err := s.store.GetFaultReport(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if report.Status != models.FaultStatusRepairing {
		return nil, nil, fmt.Errorf("%w: cannot verify a report in status %s", ErrInvalidTransition, report.Status)
	}

	// Both writes run to completion once started
	ctx = context.WithoutCancel(ctx)

	previous := *report
	report.Status = models.FaultStatusVerified
	if err := s.store.SaveFaultReport(ctx, *report); err != nil {
		return nil, nil, err
	}

	now := s.now().UTC()
	verification := VerificationMessage
	history := models.RepairHistory{
		ID:                 s.newID(),
		FaultReportID:      report.ID,
		FaultType:          report.FaultType,
		ImageURI:           report.ImageURI,
		RepairedAt:         now,
		Status:             models.RepairOutcomeSuccessful,
		VerificationResult: &verification,
	}
	if err := s.store.SaveRepairHistory(ctx, history); err != nil {
		s.log.Error("History write failed, restoring fault report", "report_id", report.ID, "error", err)
		if rollbackErr := s.store.SaveFaultReport(ctx, previous); rollbackErr != nil {
			s.log.Error("Fault report left verified without history", "report_id", report.ID, "error", rollbackErr)
			return nil, nil, &PartialLifecycleWriteError{ReportID: report.ID, Err: err}
		}
		return nil, nil, err
	}

	s.log.Info("Repair verified", "report_id", report.ID, "history_id", history.ID)
	return report, &history, nil
}

// MarkFailed moves a detected or repairing report to failed
func (s *FaultReportService) MarkFailed(ctx context.Context, id string) (*models.FaultReport, error) {
	report, err := s.store.GetFaultReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.Status != models.FaultStatusDetected && report.Status != models.FaultStatusRepairing {
		return nil, fmt.Errorf("%w: cannot fail a report in status %s", ErrInvalidTransition, report.Status)
	}

	report.Status = models.FaultStatusFailed
	if err := s.store.SaveFaultReport(ctx, *report); err != nil {
		return nil, err
	}
	s.log.Info("Repair marked failed", "report_id", report.ID)
	return report, nil
}

// History returns every repair history record, most recent first
func (s *FaultReportService) History(ctx context.Context) []models.RepairHistory {
	return s.store.GetRepairHistory(ctx)
}

func firstN[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}
