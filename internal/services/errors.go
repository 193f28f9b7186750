package services

import "errors"

// Sentinel errors shared by the services. Handlers translate these into
// HTTP statuses; everything else surfaces as a 500 or, when the message
// contains "not found", a 404.
var (
	// ErrAccessDenied is returned when the caller does not own the resource
	// or lacks moderator membership.
	ErrAccessDenied = errors.New("access denied")

	// ErrEmptyCart is returned when checkout is attempted on an empty cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNotPayable is returned when payment is submitted for an order that
	// is not awaiting payment.
	ErrNotPayable = errors.New("order is not awaiting payment")
)
