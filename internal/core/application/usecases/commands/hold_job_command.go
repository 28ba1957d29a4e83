package commands

import (
	"errors"

	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/pkg/guard"
)

var (
	ErrHoldJobCommandIsNotConstructed = errors.New(
		"HoldJobCommand must be created via NewHoldJobCommand constructor",
	)
)

// HoldJobCommand represents a sales/admin request to park a job on hold.
type HoldJobCommand struct { //nolint:recvcheck //using for validation
	jobID                kernel.UUID
	actor                kernel.Actor
	requiresConfirmation bool

	guard guard.ConstructorGuard
}

// NewHoldJobCommand creates a command to put a job on hold.
// requiresConfirmation marks holds that must be confirmed with the customer
// before the job is resumed; it is recorded in the edit history.
func NewHoldJobCommand(jobID kernel.UUID, actor kernel.Actor, requiresConfirmation bool) (HoldJobCommand, error) {
	if err := errors.Join(
		jobID.Validate(),
		actor.Validate(),
	); err != nil {
		return HoldJobCommand{}, err
	}

	return HoldJobCommand{
		jobID:                jobID,
		actor:                actor,
		requiresConfirmation: requiresConfirmation,
		guard:                guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c HoldJobCommand) Validate() error {
	return c.guard.Validate(ErrHoldJobCommandIsNotConstructed)
}

// JobID returns the record to hold.
func (c HoldJobCommand) JobID() kernel.UUID {
	return c.jobID
}

// Actor returns the actor requesting the hold.
func (c HoldJobCommand) Actor() kernel.Actor {
	return c.actor
}

// RequiresConfirmation reports whether the hold must be confirmed with the
// customer before resuming.
func (c HoldJobCommand) RequiresConfirmation() bool {
	return c.requiresConfirmation
}
