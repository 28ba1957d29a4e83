package job

import (
	"fmt"
	"time"

	"haulboard/internal/pkg/errs"
)

// EventType identifies one of the outbound notification events a job can
// emit. Each event is dispatched at most once per job.
type EventType int

const (
	// EventUnknown is the invalid zero value.
	EventUnknown EventType = iota

	// EventScheduled fires once when a delivery job is created.
	EventScheduled

	// EventGettingLoad fires once when a job first enters GettingLoad.
	EventGettingLoad
)

func getValidEventTypeStrings() map[EventType]string {
	//nolint:exhaustive // EventUnknown is intentionally excluded as it's invalid
	return map[EventType]string{
		EventScheduled:   "scheduled",
		EventGettingLoad: "gettingLoad",
	}
}

// EventTypes returns all dispatchable event types.
func EventTypes() []EventType {
	return []EventType{EventScheduled, EventGettingLoad}
}

// ParseEventType converts a textual event name into an EventType.
func ParseEventType(s string) (EventType, error) {
	for event, str := range getValidEventTypeStrings() {
		if str == s {
			return event, nil
		}
	}
	return EventUnknown, errs.NewValueIsInvalidErrorWithCause("eventType", fmt.Errorf("%q is not a recognized event type", s))
}

// String returns the wire name of the event ("scheduled", "gettingLoad").
func (e EventType) String() string {
	if str, ok := getValidEventTypeStrings()[e]; ok {
		return str
	}
	return "unknown"
}

// Validate checks if the EventType is one of the known events.
func (e EventType) Validate() error {
	if _, ok := getValidEventTypeStrings()[e]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("eventType", fmt.Errorf("%d is not a valid event type", e))
	}
	return nil
}

// NotificationMark records the dispatch state for one event type on one job.
//
// Sent flips false to true exactly once per job and never resets; it is the
// idempotency flag that arbitrates racing dispatch attempts. ExecutionID
// identifies the invocation that won the flag. Delivered, FailureReason, and
// FailedAt are best-effort outcome bookkeeping written after the outbound
// call and carry no correctness weight.
type NotificationMark struct {
	Sent          bool
	SentAt        *time.Time
	ExecutionID   string
	Delivered     *bool
	FailureReason string
	FailedAt      *time.Time
}
