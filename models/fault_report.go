package models

import "time"

// FaultStatus is the lifecycle state of a FaultReport
type FaultStatus string

const (
	FaultStatusDetected  FaultStatus = "detected"
	FaultStatusRepairing FaultStatus = "repairing"
	FaultStatusVerified  FaultStatus = "verified"
	FaultStatusFailed    FaultStatus = "failed"
)

// Valid reports whether s is one of the declared fault statuses
func (s FaultStatus) Valid() bool {
	switch s {
	case FaultStatusDetected, FaultStatusRepairing, FaultStatusVerified, FaultStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition leaves s
func (s FaultStatus) IsTerminal() bool {
	return s == FaultStatusVerified || s == FaultStatusFailed
}

// FaultReport is the persisted result of one classification
type FaultReport struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	ImageURI    string       `json:"image_uri"`
	FaultType   string       `json:"fault_type"` // free-form classifier label
	Confidence  float64      `json:"confidence"` // 0..1
	Description string       `json:"description"`
	DetectedAt  time.Time    `json:"detected_at"`
	Status      FaultStatus  `json:"status"`
	RepairSteps []RepairStep `json:"repair_steps,omitempty"` // populated on first guidance access
}

// GetID implements the record store's Record interface
func (r FaultReport) GetID() string {
	return r.ID
}

// HasRepairSteps reports whether guidance steps were already generated
func (r FaultReport) HasRepairSteps() bool {
	return len(r.RepairSteps) > 0
}

// CompletedStepIDs returns the set of steps currently marked complete
func (r FaultReport) CompletedStepIDs() map[string]bool {
	completed := make(map[string]bool)
	for _, step := range r.RepairSteps {
		if step.IsCompleted {
			completed[step.ID] = true
		}
	}
	return completed
}

// RepairStep is one unit of guidance. Only IsCompleted changes after generation.
type RepairStep struct {
	ID          string  `json:"id"`
	StepNumber  int     `json:"step_number"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURI    *string `json:"image_uri,omitempty"`
	IsCompleted bool    `json:"is_completed"`
}
