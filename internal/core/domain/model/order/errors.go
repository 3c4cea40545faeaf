package order

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderIsNotConstructed is returned for Order values not built by NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderNotAvailable means the order is not in Created state and cannot be claimed.
	ErrOrderNotAvailable = errors.New("order is not available")

	// ErrInvalidTransition is the sentinel behind InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrClaimNotStale is returned when a claimed order is reopened before the stale window has passed.
	ErrClaimNotStale = errors.New("claim is not stale yet")

	// ErrHandoffCodeMismatch is returned when a carrier reports drop-off with the wrong code.
	ErrHandoffCodeMismatch = errors.New("handoff code does not match")
)

// InvalidTransitionError carries the current state and the attempted event.
type InvalidTransitionError struct {
	From  Status
	Event Event
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s is not allowed from %s", ErrInvalidTransition, e.Event, e.From)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
