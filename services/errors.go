package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record id does not resolve
	ErrNotFound = errors.New("record not found")

	// ErrInvalidTransition is returned when a lifecycle change is not allowed from the current state
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNoFaultDetected is the reason used when the classifier found nothing
	ErrNoFaultDetected = errors.New("no fault detected")
)

// ValidationError reports caller input that violates a precondition. Nothing is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StorageReadError describes a read that failed or returned malformed data.
// The record store logs it and substitutes an empty result; callers never see it.
type StorageReadError struct {
	Key string
	Err error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Key, e.Err)
}

func (e *StorageReadError) Unwrap() error {
	return e.Err
}

// StorageWriteError reports a failed write. The core never retries.
type StorageWriteError struct {
	Key string
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Key, e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}

// ClassificationUnavailableError is returned when no usable detection came back
type ClassificationUnavailableError struct {
	Reason string
	Err    error
}

func (e *ClassificationUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classification unavailable (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("classification unavailable (%s)", e.Reason)
}

func (e *ClassificationUnavailableError) Unwrap() error {
	return e.Err
}

// PartialLifecycleWriteError reports that mark-complete updated the fault report but could
// neither append the history record nor roll the report back
type PartialLifecycleWriteError struct {
	ReportID string
	Err      error
}

func (e *PartialLifecycleWriteError) Error() string {
	return fmt.Sprintf("fault report %s verified without a history record: %v", e.ReportID, e.Err)
}

func (e *PartialLifecycleWriteError) Unwrap() error {
	return e.Err
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
