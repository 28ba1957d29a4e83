package commands

import (
	"errors"

	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/pkg/guard"
)

var (
	ErrAdvanceStatusCommandIsNotConstructed = errors.New(
		"AdvanceStatusCommand must be created via NewAdvanceStatusCommand constructor",
	)
)

// AdvanceStatusCommand represents a driver's request to move a job to the
// next status on the canonical path. Photos carries the evidence URIs that
// must accompany the transition into Complete; the photo-capture
// collaborator produces them out-of-band before this command is issued.
type AdvanceStatusCommand struct { //nolint:recvcheck //using for validation
	jobID  kernel.UUID
	actor  kernel.Actor
	truck  string
	photos []string

	guard guard.ConstructorGuard
}

// NewAdvanceStatusCommand creates a command to advance a job's status.
// Truck is only consulted when this advance performs the initial claim;
// photos only when the target status is Complete.
func NewAdvanceStatusCommand(jobID kernel.UUID, actor kernel.Actor, truck string, photos []string) (AdvanceStatusCommand, error) {
	if err := errors.Join(
		jobID.Validate(),
		actor.Validate(),
	); err != nil {
		return AdvanceStatusCommand{}, err
	}

	return AdvanceStatusCommand{
		jobID:  jobID,
		actor:  actor,
		truck:  truck,
		photos: photos,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceStatusCommandIsNotConstructed)
}

// JobID returns the record to advance.
func (c AdvanceStatusCommand) JobID() kernel.UUID {
	return c.jobID
}

// Actor returns the driver performing the advance.
func (c AdvanceStatusCommand) Actor() kernel.Actor {
	return c.actor
}

// Truck returns the truck used if this advance claims the job.
func (c AdvanceStatusCommand) Truck() string {
	return c.truck
}

// Photos returns the photo evidence URIs accompanying the request.
func (c AdvanceStatusCommand) Photos() []string {
	return c.photos
}
