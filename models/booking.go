package models

import "time"

// BookingStatus is the lifecycle state of a Booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is one of the declared booking statuses
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a booking in state s may move to next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	}
	return false
}

// TimeSlot is one of the bookable appointment times
type TimeSlot string

// TimeSlots lists the bookable slots in display order
var TimeSlots = []TimeSlot{
	"9:00 AM",
	"10:00 AM",
	"11:00 AM",
	"12:00 PM",
	"2:00 PM",
	"3:00 PM",
	"4:00 PM",
	"5:00 PM",
}

// Valid reports whether t is a bookable slot
func (t TimeSlot) Valid() bool {
	for _, slot := range TimeSlots {
		if slot == t {
			return true
		}
	}
	return false
}

// Booking is an appointment with a technician
type Booking struct {
	ID                 string        `json:"id"`
	UserID             string        `json:"user_id"`
	TechnicianID       string        `json:"technician_id"`
	TechnicianName     string        `json:"technician_name"` // captured at booking time
	FaultReportID      *string       `json:"fault_report_id,omitempty"`
	ScheduledDate      time.Time     `json:"scheduled_date"`
	ScheduledTime      TimeSlot      `json:"scheduled_time"`
	Address            string        `json:"address"`
	ServiceDescription string        `json:"service_description"`
	EstimatedCost      float64       `json:"estimated_cost"`
	Status             BookingStatus `json:"status"`
	CreatedAt          time.Time     `json:"created_at"`
}

// GetID implements the record store's Record interface
func (b Booking) GetID() string {
	return b.ID
}
