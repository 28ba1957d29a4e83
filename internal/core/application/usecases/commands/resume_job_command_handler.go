package commands

import (
	"context"

	"haulboard/internal/metrics"
)

// ResumeJobCommandHandler returns a held job to Pending.
// Resume always targets Pending regardless of the pre-hold status, and the
// claiming driver keeps ownership across the hold.
type ResumeJobCommandHandler struct {
	uowFactory JobUoWFactory
}

// NewResumeJobCommandHandler creates a handler for resume operations.
func NewResumeJobCommandHandler(uowFactory JobUoWFactory) ResumeJobCommandHandler {
	return ResumeJobCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the resume command in a single transaction.
func (h ResumeJobCommandHandler) Handle(ctx context.Context, cmd ResumeJobCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.JobRepository()
	aggregate, err := repo.Get(ctx, cmd.JobID())
	if err != nil {
		return err
	}

	previous := aggregate.Status()
	if err = aggregate.Resume(cmd.Actor()); err != nil {
		return err
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(previous.String(), aggregate.Status().String()).Inc()

	return nil
}
