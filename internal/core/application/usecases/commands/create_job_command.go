package commands

import (
	"errors"

	"haulboard/internal/core/domain/model/job"
	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/pkg/guard"
)

var (
	ErrCreateJobCommandIsNotConstructed = errors.New(
		"CreateJobCommand must be created via NewCreateJobCommand constructor",
	)
)

// CreateJobCommand represents a request to schedule a new delivery job.
// Carries the record identity, entry kind, delivery metadata, trip count,
// and the sales actor scheduling it.
type CreateJobCommand struct { //nolint:recvcheck //using for validation
	jobID         kernel.UUID
	kind          job.EntryKind
	details       job.Details
	numberOfTrips int
	createdBy     kernel.Actor

	guard guard.ConstructorGuard
}

// NewCreateJobCommand creates a command to schedule a new job.
// Enum and actor validity are checked here; the richer business rules
// (role, depot, trip count) belong to job.NewJob.
func NewCreateJobCommand(
	jobID kernel.UUID,
	kind job.EntryKind,
	details job.Details,
	numberOfTrips int,
	createdBy kernel.Actor,
) (CreateJobCommand, error) {
	if err := errors.Join(
		jobID.Validate(),
		kind.Validate(),
		createdBy.Validate(),
	); err != nil {
		return CreateJobCommand{}, err
	}

	return CreateJobCommand{
		jobID:         jobID,
		kind:          kind,
		details:       details,
		numberOfTrips: numberOfTrips,
		createdBy:     createdBy,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateJobCommand) Validate() error {
	return c.guard.Validate(ErrCreateJobCommandIsNotConstructed)
}

// JobID returns the identifier for the new record.
func (c CreateJobCommand) JobID() kernel.UUID {
	return c.jobID
}

// Kind returns the entry kind of the new record.
func (c CreateJobCommand) Kind() job.EntryKind {
	return c.kind
}

// Details returns the delivery metadata.
func (c CreateJobCommand) Details() job.Details {
	return c.details
}

// NumberOfTrips returns how many physical trips the job requires.
func (c CreateJobCommand) NumberOfTrips() int {
	return c.numberOfTrips
}

// CreatedBy returns the scheduling actor.
func (c CreateJobCommand) CreatedBy() kernel.Actor {
	return c.createdBy
}
