package commands

import (
	"errors"

	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/pkg/errs"
	"haulboard/internal/pkg/guard"
)

var (
	ErrSelectTripCommandIsNotConstructed = errors.New(
		"SelectTripCommand must be created via NewSelectTripCommand constructor",
	)
)

// SelectTripCommand represents a driver's selection of the physical trip
// currently being executed on a multi-trip job.
type SelectTripCommand struct { //nolint:recvcheck //using for validation
	jobID      kernel.UUID
	actor      kernel.Actor
	tripNumber int

	guard guard.ConstructorGuard
}

// NewSelectTripCommand creates a command to select a trip.
// The upper bound against the job's trip count is enforced by the aggregate.
func NewSelectTripCommand(jobID kernel.UUID, actor kernel.Actor, tripNumber int) (SelectTripCommand, error) {
	if err := errors.Join(
		jobID.Validate(),
		actor.Validate(),
	); err != nil {
		return SelectTripCommand{}, err
	}
	if tripNumber < 1 {
		return SelectTripCommand{}, errs.NewValueIsInvalidError("tripNumber")
	}

	return SelectTripCommand{
		jobID:      jobID,
		actor:      actor,
		tripNumber: tripNumber,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SelectTripCommand) Validate() error {
	return c.guard.Validate(ErrSelectTripCommandIsNotConstructed)
}

// JobID returns the record to update.
func (c SelectTripCommand) JobID() kernel.UUID {
	return c.jobID
}

// Actor returns the selecting driver.
func (c SelectTripCommand) Actor() kernel.Actor {
	return c.actor
}

// TripNumber returns the trip being selected.
func (c SelectTripCommand) TripNumber() int {
	return c.tripNumber
}
