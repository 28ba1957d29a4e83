package commands

import (
	"context"

	"haulboard/internal/core/domain/model/job"
	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/metrics"
	"haulboard/internal/pkg/locks"
)

// StatusChange reports the observed before/after of a successful advance.
// Callers hand it to the update trigger surface so the notification
// dispatcher reacts to the resulting state change, not to the advance call.
type StatusChange struct {
	JobID    kernel.UUID
	Previous job.Status
	Current  job.Status
}

// AdvanceStatusCommandHandler moves a job along its lifecycle in a single
// transaction. Claiming on the first move out of Pending and the status
// write are one atomic operation, together with the history entry.
type AdvanceStatusCommandHandler struct {
	uowFactory  JobUoWFactory
	submitGuard *locks.SubmitGuard
}

// NewAdvanceStatusCommandHandler creates a handler for advance operations.
func NewAdvanceStatusCommandHandler(uowFactory JobUoWFactory, submitGuard *locks.SubmitGuard) AdvanceStatusCommandHandler {
	return AdvanceStatusCommandHandler{
		uowFactory:  uowFactory,
		submitGuard: submitGuard,
	}
}

// Handle processes the advance command and reports the resulting status
// change. A terminal no-op (advancing a Complete job) returns the unchanged
// status with Previous == Current and no error.
func (h AdvanceStatusCommandHandler) Handle(ctx context.Context, cmd AdvanceStatusCommand) (StatusChange, error) {
	if err := cmd.Validate(); err != nil {
		return StatusChange{}, err
	}

	if !h.submitGuard.TryAcquire(cmd.JobID().String()) {
		return StatusChange{}, ErrSubmissionInFlight
	}
	defer h.submitGuard.Release(cmd.JobID().String())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return StatusChange{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.JobRepository()
	aggregate, err := repo.Get(ctx, cmd.JobID())
	if err != nil {
		return StatusChange{}, err
	}

	previous := aggregate.Status()
	if err = aggregate.Advance(cmd.Actor(), cmd.Truck(), cmd.Photos()); err != nil {
		return StatusChange{}, err
	}
	current := aggregate.Status()

	if current == previous {
		// Terminal no-op: nothing to persist.
		return StatusChange{JobID: aggregate.ID(), Previous: previous, Current: current}, nil
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return StatusChange{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return StatusChange{}, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(previous.String(), current.String()).Inc()

	return StatusChange{JobID: aggregate.ID(), Previous: previous, Current: current}, nil
}
