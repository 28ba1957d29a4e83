package commands

import (
	"context"

	"haulboard/internal/metrics"
)

// HoldJobCommandHandler parks a job outside its normal progression.
type HoldJobCommandHandler struct {
	uowFactory JobUoWFactory
}

// NewHoldJobCommandHandler creates a handler for hold operations.
func NewHoldJobCommandHandler(uowFactory JobUoWFactory) HoldJobCommandHandler {
	return HoldJobCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the hold command in a single transaction.
func (h HoldJobCommandHandler) Handle(ctx context.Context, cmd HoldJobCommand) error {
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
	if err = aggregate.PutOnHold(cmd.Actor(), cmd.RequiresConfirmation()); err != nil {
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
