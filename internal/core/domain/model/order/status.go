package order

import (
	"fmt"

	"dormeal/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	Created ──claim──> Claimed ──confirm retrieval──> Retrieved ──mark delivered──> Delivered
//	   │                  │                               │
//	   │                  ├──reopen (stale)──> Created    └──report missing──> ReportedMissing
//	   │                  │                                                        │
//	   └──cancel──────────┴──cancel──> Cancelled               Created <──reopen───┘
//
// Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota
	Created
	Claimed
	Retrieved
	Delivered
	ReportedMissing
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:         "Unknown",
		Created:         "Created",
		Claimed:         "Claimed",
		Retrieved:       "Retrieved",
		Delivered:       "Delivered",
		ReportedMissing: "ReportedMissing",
		Cancelled:       "Cancelled",
	}
}

// AllStatuses lists every valid status, in lifecycle order.
func AllStatuses() []Status {
	return []Status{Created, Claimed, Retrieved, Delivered, ReportedMissing, Cancelled}
}

// Validate rejects Unknown and out-of-range values read from storage or the wire.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// ParseStatus is the inverse of String for valid statuses.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// IsTerminal reports Delivered and Cancelled.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// HoldsCarrierBinding reports the states in which a carrier is actively bound to the order.
func (s Status) HoldsCarrierBinding() bool {
	return s == Claimed || s == Retrieved
}
