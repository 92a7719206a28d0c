package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smart-home-repair/repair-api/logger"
	"github.com/smart-home-repair/repair-api/models"
)

// estimatedHours is the fixed job length used for every cost estimate
const estimatedHours = 2

// BookingRequest carries the fields of the booking form
type BookingRequest struct {
	UserID             string
	TechnicianID       string
	FaultReportID      *string
	ScheduledDate      time.Time
	ScheduledTime      models.TimeSlot
	Address            string
	ServiceDescription string
}

// BookingService creates and updates technician bookings
type BookingService struct {
	store        *RecordStore
	log          *logger.Logger
	confirmDelay time.Duration

	now   func() time.Time
	newID func() string
}

var bookingServiceInstance *BookingService

// NewBookingService creates a booking service. confirmDelay simulates the confirmation round trip.
func NewBookingService(store *RecordStore, confirmDelay time.Duration, log *logger.Logger) *BookingService {
	if log == nil {
		log = logger.Nop()
	}
	return &BookingService{
		store:        store,
		log:          log.With("service", "BookingService"),
		confirmDelay: confirmDelay,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// InitBookingService creates the process booking service
func InitBookingService(store *RecordStore, confirmDelay time.Duration, log *logger.Logger) *BookingService {
	bookingServiceInstance = NewBookingService(store, confirmDelay, log)
	return bookingServiceInstance
}

// GetBookingService returns the initialized booking service
func GetBookingService() *BookingService {
	return bookingServiceInstance
}

// SetBookingService sets the booking service instance (primarily for testing)
func SetBookingService(service *BookingService) {
	bookingServiceInstance = service
}

// ParseScheduledDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp
func ParseScheduledDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, newValidationError("scheduled_date", "scheduled_date is required")
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, newValidationError("scheduled_date", "scheduled_date must be YYYY-MM-DD or RFC 3339")
}

// EstimateCost returns the quoted cost for a technician
func (s *BookingService) EstimateCost(technicianID string) (float64, error) {
	tech, err := FindTechnician(technicianID)
	if err != nil {
		return 0, err
	}
	return tech.HourlyRate * estimatedHours, nil
}

// ConfirmBooking validates the request and stores a confirmed booking. Nothing is written when
// validation fails or ctx is cancelled during the confirmation delay.
func (s *BookingService) ConfirmBooking(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	address := strings.TrimSpace(req.Address)
	description := strings.TrimSpace(req.ServiceDescription)

	if address == "" {
		return nil, newValidationError("address", "address is required")
	}
	if description == "" {
		return nil, newValidationError("service_description", "service description is required")
	}
	if !req.ScheduledTime.Valid() {
		return nil, newValidationError("scheduled_time", fmt.Sprintf("unknown time slot %q", req.ScheduledTime))
	}
	if req.ScheduledDate.IsZero() {
		return nil, newValidationError("scheduled_date", "scheduled_date is required")
	}

	tech, err := FindTechnician(req.TechnicianID)
	if err != nil {
		return nil, err
	}

	if s.confirmDelay > 0 {
		timer := time.NewTimer(s.confirmDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	booking := models.Booking{
		ID:                 s.newID(),
		UserID:             req.UserID,
		TechnicianID:       tech.ID,
		TechnicianName:     tech.Name,
		FaultReportID:      req.FaultReportID,
		ScheduledDate:      req.ScheduledDate,
		ScheduledTime:      req.ScheduledTime,
		Address:            address,
		ServiceDescription: description,
		EstimatedCost:      tech.HourlyRate * estimatedHours,
		Status:             models.BookingStatusConfirmed,
		CreatedAt:          s.now().UTC(),
	}

	if err := s.store.SaveBooking(context.WithoutCancel(ctx), booking); err != nil {
		return nil, err
	}

	s.log.Info("Booking confirmed", "booking_id", booking.ID, "technician_id", tech.ID)
	return &booking, nil
}

// List returns every booking, most recent first
func (s *BookingService) List(ctx context.Context) []models.Booking {
	return s.store.GetBookings(ctx)
}

// Get returns one booking or ErrNotFound
func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	return s.store.GetBooking(ctx, id)
}

// Recent returns at most n of the most recent bookings
func (s *BookingService) Recent(ctx context.Context, n int) []models.Booking {
	return firstN(s.store.GetBookings(ctx), n)
}

// UpdateStatus moves a booking along pending -> confirmed -> completed, or to cancelled
func (s *BookingService) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	if !status.Valid() {
		return nil, newValidationError("status", fmt.Sprintf("unknown booking status %q", status))
	}

	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, status)
	}

	booking.Status = status
	if err := s.store.SaveBooking(ctx, *booking); err != nil {
		return nil, err
	}
	s.log.Info("Booking status updated", "booking_id", booking.ID, "status", status)
	return booking, nil
}
