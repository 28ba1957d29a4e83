package job

import (
	"fmt"
	"time"

	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/pkg/errs"
)

// HistoryAction classifies an edit-history entry.
type HistoryAction int

const (
	// ActionUnknown is the invalid zero value.
	ActionUnknown HistoryAction = iota

	// ActionCreated records the initial creation of the job.
	ActionCreated

	// ActionEdited records a field-level mutation outside the status machine.
	ActionEdited

	// ActionStatusChanged records a status transition.
	ActionStatusChanged

	// ActionTripSelected records a trip sub-state change.
	ActionTripSelected
)

func getValidHistoryActionStrings() map[HistoryAction]string {
	//nolint:exhaustive // ActionUnknown is intentionally excluded as it's invalid
	return map[HistoryAction]string{
		ActionCreated:       "created",
		ActionEdited:        "edited",
		ActionStatusChanged: "status_changed",
		ActionTripSelected:  "trip_selected",
	}
}

// String returns the snake_case name of the action.
func (a HistoryAction) String() string {
	if str, ok := getValidHistoryActionStrings()[a]; ok {
		return str
	}
	return "unknown"
}

// Validate checks if the HistoryAction is one of the known actions.
func (a HistoryAction) Validate() error {
	if _, ok := getValidHistoryActionStrings()[a]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%d is not a valid history action", a))
	}
	return nil
}

// HistoryEntry is one immutable line of a job's audit trail. Entries are
// appended in the same transaction as the mutation they describe and are
// never edited or removed.
//
// Seq is the zero-based position of the entry within the job's history; it
// makes appends idempotent at the persistence layer.
type HistoryEntry struct {
	Seq       int
	ActorID   kernel.UUID
	ActorName string
	At        time.Time
	Action    HistoryAction
	Note      string
}
