package models

import "time"

// RepairOutcome is the result recorded for a finished repair
type RepairOutcome string

const (
	RepairOutcomeSuccessful RepairOutcome = "successful"
	RepairOutcomePartial    RepairOutcome = "partial"
	RepairOutcomeFailed     RepairOutcome = "failed"
)

// Valid reports whether o is one of the declared outcomes
func (o RepairOutcome) Valid() bool {
	switch o {
	case RepairOutcomeSuccessful, RepairOutcomePartial, RepairOutcomeFailed:
		return true
	}
	return false
}

// RepairHistory is an append-only completion record
type RepairHistory struct {
	ID                 string        `json:"id"`
	FaultReportID      string        `json:"fault_report_id"`
	FaultType          string        `json:"fault_type"`
	ImageURI           string        `json:"image_uri"`
	RepairedAt         time.Time     `json:"repaired_at"`
	Status             RepairOutcome `json:"status"`
	TechnicianName     *string       `json:"technician_name,omitempty"`
	VerificationResult *string       `json:"verification_result,omitempty"`
	BeforeImageURI     *string       `json:"before_image_uri,omitempty"`
	AfterImageURI      *string       `json:"after_image_uri,omitempty"`
}

// GetID implements the record store's Record interface
func (h RepairHistory) GetID() string {
	return h.ID
}
