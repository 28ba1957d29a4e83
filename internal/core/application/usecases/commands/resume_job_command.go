package commands

import (
	"errors"

	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/pkg/guard"
)

var (
	ErrResumeJobCommandIsNotConstructed = errors.New(
		"ResumeJobCommand must be created via NewResumeJobCommand constructor",
	)
)

// ResumeJobCommand represents a sales/admin request to return a held job to
// the pending queue.
type ResumeJobCommand struct { //nolint:recvcheck //using for validation
	jobID kernel.UUID
	actor kernel.Actor

	guard guard.ConstructorGuard
}

// NewResumeJobCommand creates a command to resume a held job.
func NewResumeJobCommand(jobID kernel.UUID, actor kernel.Actor) (ResumeJobCommand, error) {
	if err := errors.Join(
		jobID.Validate(),
		actor.Validate(),
	); err != nil {
		return ResumeJobCommand{}, err
	}

	return ResumeJobCommand{
		jobID: jobID,
		actor: actor,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ResumeJobCommand) Validate() error {
	return c.guard.Validate(ErrResumeJobCommandIsNotConstructed)
}

// JobID returns the record to resume.
func (c ResumeJobCommand) JobID() kernel.UUID {
	return c.jobID
}

// Actor returns the actor requesting the resume.
func (c ResumeJobCommand) Actor() kernel.Actor {
	return c.actor
}
