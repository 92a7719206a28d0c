package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/smart-home-repair/repair-api/models"
)

var fixedNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

// sequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTestRecordStore(t *testing.T) (*RecordStore, *MockKeyValueStore) {
	t.Helper()
	kv := NewMockKeyValueStore()
	return NewRecordStore(kv, "", nil), kv
}

func newTestFaultService(t *testing.T, classifier Classifier) (*FaultReportService, *RecordStore, *MockKeyValueStore, *MockImageService) {
	t.Helper()
	store, kv := newTestRecordStore(t)
	images := NewMockImageService()
	svc := NewFaultReportService(store, classifier, images, nil)
	svc.now = func() time.Time { return fixedNow }
	svc.newID = sequentialIDs("id")
	return svc, store, kv, images
}

func seedReport(t *testing.T, store *RecordStore, id, faultType string, status models.FaultStatus) models.FaultReport {
	t.Helper()
	report := models.FaultReport{
		ID:          id,
		UserID:      "user-1",
		ImageURI:    "file:///scan.jpg",
		FaultType:   faultType,
		Confidence:  0.9,
		Description: "Detected " + faultType,
		DetectedAt:  fixedNow,
		Status:      status,
	}
	if err := store.SaveFaultReport(t.Context(), report); err != nil {
		t.Fatalf("Failed to seed report: %v", err)
	}
	return report
}
