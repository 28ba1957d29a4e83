package commands

import (
	"errors"

	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/pkg/errs"
	"haulboard/internal/pkg/guard"
)

var (
	ErrClaimJobCommandIsNotConstructed = errors.New(
		"ClaimJobCommand must be created via NewClaimJobCommand constructor",
	)
)

// ClaimJobCommand represents a driver's attempt to become the exclusive
// owner of a job record.
type ClaimJobCommand struct { //nolint:recvcheck //using for validation
	jobID kernel.UUID
	actor kernel.Actor
	truck string

	guard guard.ConstructorGuard
}

// NewClaimJobCommand creates a command to claim a job for a driver and truck.
func NewClaimJobCommand(jobID kernel.UUID, actor kernel.Actor, truck string) (ClaimJobCommand, error) {
	if err := errors.Join(
		jobID.Validate(),
		actor.Validate(),
	); err != nil {
		return ClaimJobCommand{}, err
	}
	if truck == "" {
		return ClaimJobCommand{}, errs.NewValueIsRequiredError("truck")
	}

	return ClaimJobCommand{
		jobID: jobID,
		actor: actor,
		truck: truck,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ClaimJobCommand) Validate() error {
	return c.guard.Validate(ErrClaimJobCommandIsNotConstructed)
}

// JobID returns the record to claim.
func (c ClaimJobCommand) JobID() kernel.UUID {
	return c.jobID
}

// Actor returns the claiming driver.
func (c ClaimJobCommand) Actor() kernel.Actor {
	return c.actor
}

// Truck returns the truck assigned at claim time.
func (c ClaimJobCommand) Truck() string {
	return c.truck
}
