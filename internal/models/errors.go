package models

import "errors"

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrDuplicatePhone     = errors.New("models: duplicate phone number")

	ErrBookingNotFound = errors.New("booking not found")
	ErrDriverNotFound  = errors.New("driver not found")
	ErrUserNotFound    = errors.New("models: user not found")

	// ErrIllegalTransition is returned when a requested status change is
	// not present in the lifecycle transition table. The booking is left
	// untouched.
	ErrIllegalTransition = errors.New("illegal booking status transition")

	// ErrDuplicateInvoiceNumber signals that a concurrent writer committed
	// the proposed invoice number first. Callers retry the allocation.
	ErrDuplicateInvoiceNumber = errors.New("duplicate invoice number")

	// ErrSequenceExhausted is returned when invoice number allocation kept
	// colliding past the retry cap.
	ErrSequenceExhausted = errors.New("invoice sequence allocation exhausted retries")
)
