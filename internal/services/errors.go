package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every error a service returns to a handler either wraps one
// of these or is an internal failure.
var (
	ErrValidation   = errors.New("validation failed")
	ErrAuthRequired = errors.New("authentication required")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// kindError is a service error with a client-facing message.
type kindError struct {
	kind    error
	message string
}

func (e *kindError) Error() string { return e.message }
func (e *kindError) Unwrap() error { return e.kind }

func newKindError(kind error, message string) error {
	return &kindError{kind: kind, message: message}
}

func validationError(format string, args ...interface{}) error {
	return newKindError(ErrValidation, fmt.Sprintf(format, args...))
}

// --- Custom Service Errors ---
var (
	ErrEmailExists         = newKindError(ErrConflict, "email already registered")
	ErrInvalidCredentials  = newKindError(ErrAuthRequired, "invalid email or password")
	ErrTrainerPending      = newKindError(ErrForbidden, "trainer account is awaiting admin approval")
	ErrTrainerRejected     = newKindError(ErrForbidden, "trainer account registration was rejected")
	ErrAdminRegistration   = newKindError(ErrValidation, "admin accounts cannot be self-registered")
	ErrWrongPassword       = newKindError(ErrValidation, "current password is incorrect")
	ErrUserNotFound        = newKindError(ErrNotFound, "user not found")
	ErrTrainerNotFound     = newKindError(ErrNotFound, "trainer not found")
	ErrApprovalNotPending  = newKindError(ErrConflict, "trainer is not pending approval")
	ErrMemberNotFound      = newKindError(ErrNotFound, "member profile not found")
	ErrPlanNotFound        = newKindError(ErrNotFound, "membership plan not found")
	ErrAlreadyActive       = newKindError(ErrConflict, "member already has an active membership")
	ErrClassNotFound       = newKindError(ErrNotFound, "class not found")
	ErrScheduleConflict    = newKindError(ErrConflict, "trainer already has a class within one hour of this schedule")
	ErrHasBookings         = newKindError(ErrConflict, "class has bookings; delete with cascade=true to remove them")
	ErrCapacityBelowBooked = newKindError(ErrValidation, "capacity cannot be lower than the number of current bookings")
	ErrBookingNotFound     = newKindError(ErrNotFound, "booking not found")
	ErrDuplicateBooking    = newKindError(ErrConflict, "you have already booked this class")
	ErrClassFull           = newKindError(ErrConflict, "class is full")
	ErrNotClassTrainer     = newKindError(ErrForbidden, "you are not the trainer of this class")
	ErrPaymentNotFound     = newKindError(ErrNotFound, "payment not found")
	ErrPaymentMethod       = newKindError(ErrValidation, "unsupported payment method")
	ErrAlreadyTerminal     = newKindError(ErrConflict, "payment can no longer be updated")
	ErrPaymentInProgress   = newKindError(ErrConflict, "a previous payment is still being processed")
	ErrReviewNotFound      = newKindError(ErrNotFound, "review not found")
	ErrDuplicateReview     = newKindError(ErrConflict, "you have already reviewed this class")
	ErrReviewNotAllowed    = newKindError(ErrForbidden, "only members who booked this class can review it")
)
