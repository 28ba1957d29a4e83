package job

import (
	"errors"
	"fmt"

	"haulboard/internal/core/domain/model/kernel"
)

// Sentinel errors for the job lifecycle. Typed errors below unwrap to these
// so callers can classify failures with errors.Is.
var (
	// ErrJobIsNotConstructed is returned when a Job instance was not created
	// through NewJob or RestoreJob.
	ErrJobIsNotConstructed = errors.New("Job must be created via NewJob or RestoreJob")

	// ErrOwnershipConflict indicates another driver already owns the job.
	ErrOwnershipConflict = errors.New("job is owned by another driver")

	// ErrAlreadyClaimed indicates a claim race was lost.
	ErrAlreadyClaimed = errors.New("job is already claimed")

	// ErrInvalidTransition indicates the state machine rejected the requested move.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyDispatched indicates the notification for an event type was
	// already sent for this job. It is a no-op signal, not a failure.
	ErrAlreadyDispatched = errors.New("notification already dispatched")
)

// OwnershipConflictError is returned when an actor attempts to advance a job
// claimed by a different driver. Owner identifies the current claimant for
// user-visible messaging.
type OwnershipConflictError struct {
	JobID kernel.UUID
	Owner kernel.UUID
}

func NewOwnershipConflictError(jobID, owner kernel.UUID) *OwnershipConflictError {
	return &OwnershipConflictError{JobID: jobID, Owner: owner}
}

func (e *OwnershipConflictError) Error() string {
	return fmt.Sprintf("%s: job %s is owned by %s", ErrOwnershipConflict, e.JobID, e.Owner)
}

func (e *OwnershipConflictError) Unwrap() error {
	return ErrOwnershipConflict
}

// AlreadyClaimedError is returned when a claim attempt loses the race.
// CurrentOwner identifies the winning driver.
type AlreadyClaimedError struct {
	JobID        kernel.UUID
	CurrentOwner kernel.UUID
}

func NewAlreadyClaimedError(jobID, currentOwner kernel.UUID) *AlreadyClaimedError {
	return &AlreadyClaimedError{JobID: jobID, CurrentOwner: currentOwner}
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("%s: job %s is claimed by %s", ErrAlreadyClaimed, e.JobID, e.CurrentOwner)
}

func (e *AlreadyClaimedError) Unwrap() error {
	return ErrAlreadyClaimed
}

// InvalidTransitionError is returned when the state machine rejects a move.
// Reason carries the blocking condition for user-visible messaging
// (e.g. "photo evidence is required to complete").
type InvalidTransitionError struct {
	From   Status
	To     Status
	Reason string
}

func NewInvalidTransitionError(from, to Status, reason string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Reason: reason}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s: %s", ErrInvalidTransition, e.From, e.To, e.Reason)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// TripSelectionError is returned when a trip selection violates the
// one-at-a-time ordering. It unwraps to ErrInvalidTransition since it is a
// rejected state-machine move on the trip sub-state.
type TripSelectionError struct {
	Requested int
	Current   int
	Total     int
}

func NewTripSelectionError(requested, current, total int) *TripSelectionError {
	return &TripSelectionError{Requested: requested, Current: current, Total: total}
}

func (e *TripSelectionError) Error() string {
	return fmt.Sprintf("%s: cannot select trip %d of %d from trip %d: trips advance one at a time",
		ErrInvalidTransition, e.Requested, e.Total, e.Current)
}

func (e *TripSelectionError) Unwrap() error {
	return ErrInvalidTransition
}

// AlreadyDispatchedError is returned when the notification flag for an event
// type is already set. ExecutionID identifies the invocation that won.
type AlreadyDispatchedError struct {
	Event       EventType
	ExecutionID string
}

func NewAlreadyDispatchedError(event EventType, executionID string) *AlreadyDispatchedError {
	return &AlreadyDispatchedError{Event: event, ExecutionID: executionID}
}

func (e *AlreadyDispatchedError) Error() string {
	return fmt.Sprintf("%s: %s notification was sent by execution %s", ErrAlreadyDispatched, e.Event, e.ExecutionID)
}

func (e *AlreadyDispatchedError) Unwrap() error {
	return ErrAlreadyDispatched
}
