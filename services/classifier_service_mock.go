package services

import (
	"context"
	"sync"
)

// MockClassifier is a Classifier for tests that returns a canned detection or error
type MockClassifier struct {
	mu        sync.Mutex
	detection *Detection
	err       error
	calls     int
	lastImage []byte
}

// NewMockClassifier returns a classifier that always detects label with confidence
func NewMockClassifier(label string, confidence float64) *MockClassifier {
	return &MockClassifier{detection: &Detection{Label: label, Confidence: confidence}}
}

// NewMockClassifierNoFault returns a classifier that never detects anything
func NewMockClassifierNoFault() *MockClassifier {
	return &MockClassifier{err: &ClassificationUnavailableError{Reason: ReasonNoFaultDetected, Err: ErrNoFaultDetected}}
}

// SetError makes every Detect call fail with err
func (m *MockClassifier) SetError(err error) {
	m.mu.Lock()
	m.err = err
	m.detection = nil
	m.mu.Unlock()
}

// Detect returns the canned result
func (m *MockClassifier) Detect(ctx context.Context, filename, contentType string, image []byte) (*Detection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.lastImage = append([]byte(nil), image...)
	if err := ctx.Err(); err != nil {
		return nil, &ClassificationUnavailableError{Reason: ReasonTimeout, Err: err}
	}
	if m.err != nil {
		return nil, m.err
	}
	d := *m.detection
	return &d, nil
}

// Calls returns how many times Detect ran
func (m *MockClassifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastImage returns the bytes passed to the last Detect call
func (m *MockClassifier) LastImage() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastImage
}
