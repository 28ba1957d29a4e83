package commands

import (
	"context"

	"haulboard/internal/core/domain/model/job"
)

// CreateJobCommandHandler handles the business logic for scheduling a job.
// Creates the record in Pending status with its initial history entry.
type CreateJobCommandHandler struct {
	uowFactory JobUoWFactory
}

// NewCreateJobCommandHandler creates a handler for job scheduling operations.
func NewCreateJobCommandHandler(uowFactory JobUoWFactory) CreateJobCommandHandler {
	return CreateJobCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the job creation command.
// Uses a transaction to ensure the record and its creation history entry
// are persisted together or not at all.
func (h CreateJobCommandHandler) Handle(ctx context.Context, cmd CreateJobCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	newJob, err := job.NewJob(cmd.JobID(), cmd.Kind(), cmd.Details(), cmd.NumberOfTrips(), cmd.CreatedBy())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.JobRepository().Add(ctx, newJob); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
