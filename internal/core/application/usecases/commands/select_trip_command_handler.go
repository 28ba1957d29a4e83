package commands

import (
	"context"
)

// SelectTripCommandHandler records the trip a driver is executing.
// Trip selection never alters the job's status.
type SelectTripCommandHandler struct {
	uowFactory JobUoWFactory
}

// NewSelectTripCommandHandler creates a handler for trip selection.
func NewSelectTripCommandHandler(uowFactory JobUoWFactory) SelectTripCommandHandler {
	return SelectTripCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the trip selection in a single transaction.
// Re-selecting the current trip is an idempotent no-op.
func (h SelectTripCommandHandler) Handle(ctx context.Context, cmd SelectTripCommand) error {
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

	before := aggregate.CurrentTrip()
	if err = aggregate.SelectTrip(cmd.Actor(), cmd.TripNumber()); err != nil {
		return err
	}

	after := aggregate.CurrentTrip()
	if before != nil && after != nil && *before == *after {
		// Idempotent re-selection: nothing to persist.
		return nil
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
