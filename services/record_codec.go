package services

import (
	"time"

	"github.com/smart-home-repair/repair-api/models"
)

// Stored shapes. Values under the record-store keys use the mobile app's camelCase field names
// so collections it wrote stay readable and collections written here stay readable by it.
// The models keep snake_case tags for the HTTP API.

type storedUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type storedRepairStep struct {
	ID          string  `json:"id"`
	StepNumber  int     `json:"stepNumber"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURI    *string `json:"imageUri,omitempty"`
	IsCompleted bool    `json:"isCompleted"`
}

type storedFaultReport struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	ImageURI    string             `json:"imageUri"`
	FaultType   string             `json:"faultType"`
	Confidence  float64            `json:"confidence"`
	Description string             `json:"description"`
	DetectedAt  time.Time          `json:"detectedAt"`
	Status      models.FaultStatus `json:"status"`
	RepairSteps []storedRepairStep `json:"repairSteps,omitempty"`
}

type storedBooking struct {
	ID                 string               `json:"id"`
	UserID             string               `json:"userId"`
	TechnicianID       string               `json:"technicianId"`
	TechnicianName     string               `json:"technicianName"`
	FaultReportID      *string              `json:"faultReportId,omitempty"`
	ScheduledDate      time.Time            `json:"scheduledDate"`
	ScheduledTime      models.TimeSlot      `json:"scheduledTime"`
	Address            string               `json:"address"`
	ServiceDescription string               `json:"serviceDescription"`
	EstimatedCost      float64              `json:"estimatedCost"`
	Status             models.BookingStatus `json:"status"`
	CreatedAt          time.Time            `json:"createdAt"`
}

type storedRepairHistory struct {
	ID                 string               `json:"id"`
	FaultReportID      string               `json:"faultReportId"`
	FaultType          string               `json:"faultType"`
	ImageURI           string               `json:"imageUri"`
	RepairedAt         time.Time            `json:"repairedAt"`
	Status             models.RepairOutcome `json:"status"`
	TechnicianName     *string              `json:"technicianName,omitempty"`
	VerificationResult *string              `json:"verificationResult,omitempty"`
	BeforeImageURI     *string              `json:"beforeImageUri,omitempty"`
	AfterImageURI      *string              `json:"afterImageUri,omitempty"`
}

func (r storedFaultReport) GetID() string   { return r.ID }
func (b storedBooking) GetID() string       { return b.ID }
func (h storedRepairHistory) GetID() string { return h.ID }

func toStoredUser(u models.User) storedUser {
	return storedUser(u)
}

func fromStoredUser(u storedUser) models.User {
	return models.User(u)
}

func toStoredFaultReport(r models.FaultReport) storedFaultReport {
	stored := storedFaultReport{
		ID:          r.ID,
		UserID:      r.UserID,
		ImageURI:    r.ImageURI,
		FaultType:   r.FaultType,
		Confidence:  r.Confidence,
		Description: r.Description,
		DetectedAt:  r.DetectedAt,
		Status:      r.Status,
	}
	if len(r.RepairSteps) > 0 {
		stored.RepairSteps = make([]storedRepairStep, len(r.RepairSteps))
		for i, step := range r.RepairSteps {
			stored.RepairSteps[i] = storedRepairStep(step)
		}
	}
	return stored
}

func fromStoredFaultReport(r storedFaultReport) models.FaultReport {
	report := models.FaultReport{
		ID:          r.ID,
		UserID:      r.UserID,
		ImageURI:    r.ImageURI,
		FaultType:   r.FaultType,
		Confidence:  r.Confidence,
		Description: r.Description,
		DetectedAt:  r.DetectedAt,
		Status:      r.Status,
	}
	if len(r.RepairSteps) > 0 {
		report.RepairSteps = make([]models.RepairStep, len(r.RepairSteps))
		for i, step := range r.RepairSteps {
			report.RepairSteps[i] = models.RepairStep(step)
		}
	}
	return report
}

func toStoredBooking(b models.Booking) storedBooking {
	return storedBooking(b)
}

func fromStoredBooking(b storedBooking) models.Booking {
	return models.Booking(b)
}

func toStoredRepairHistory(h models.RepairHistory) storedRepairHistory {
	return storedRepairHistory(h)
}

func fromStoredRepairHistory(h storedRepairHistory) models.RepairHistory {
	return models.RepairHistory(h)
}

func mapSlice[S, T any](items []S, convert func(S) T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = convert(item)
	}
	return out
}
