package order

// Event is a lifecycle trigger applied to an order.
type Event int

const (
	UnknownEvent Event = iota
	Claim
	ConfirmRetrieval
	MarkDelivered
	ReportMissing
	Reopen
	Cancel
)

var eventNames = map[Event]string{
	UnknownEvent:     "unknown",
	Claim:            "claim",
	ConfirmRetrieval: "confirm_retrieval",
	MarkDelivered:    "mark_delivered",
	ReportMissing:    "report_missing",
	Reopen:           "reopen",
	Cancel:           "cancel",
}

// AllEvents lists every lifecycle event.
func AllEvents() []Event {
	return []Event{Claim, ConfirmRetrieval, MarkDelivered, ReportMissing, Reopen, Cancel}
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return "unknown"
}

// transitions is the complete lifecycle graph. Anything not listed is an InvalidTransitionError.
var transitions = map[Status]map[Event]Status{
	Created: {
		Claim:  Claimed,
		Cancel: Cancelled,
	},
	Claimed: {
		ConfirmRetrieval: Retrieved,
		Reopen:           Created,
		Cancel:           Cancelled,
	},
	Retrieved: {
		MarkDelivered: Delivered,
		ReportMissing: ReportedMissing,
	},
	ReportedMissing: {
		Reopen: Created,
	},
}

// Next returns the status reached by applying e to s, or an InvalidTransitionError.
func (s Status) Next(e Event) (Status, error) {
	if next, ok := transitions[s][e]; ok {
		return next, nil
	}
	return Unknown, &InvalidTransitionError{From: s, Event: e}
}

// Allows reports whether e is listed for s.
func (s Status) Allows(e Event) bool {
	_, ok := transitions[s][e]
	return ok
}
