package commands

import (
	"context"
	"errors"
	"log/slog"

	"haulboard/internal/core/domain/model/job"
	"haulboard/internal/pkg/errs"
)

// SweepNotificationsCommandHandler re-fires the scheduling notification for
// pending delivery jobs whose mark is still unsent.
//
// The sweep makes the create-trigger surface at-least-once even when the
// original trigger delivery was lost: every pass simply attempts dispatch
// again and relies on the dispatcher's transactional flag to keep the
// overall behavior at-most-once per record. Losing a race to a concurrent
// trigger invocation is expected and not logged as an error.
type SweepNotificationsCommandHandler struct {
	uowFactory        JobUoWFactory
	dispatchHandler   DispatchNotificationCommandHandler
	scheduledEndpoint string
	logger            *slog.Logger
}

// NewSweepNotificationsCommandHandler creates a handler for sweep passes.
func NewSweepNotificationsCommandHandler(
	uowFactory JobUoWFactory,
	dispatchHandler DispatchNotificationCommandHandler,
	scheduledEndpoint string,
	logger *slog.Logger,
) SweepNotificationsCommandHandler {
	return SweepNotificationsCommandHandler{
		uowFactory:        uowFactory,
		dispatchHandler:   dispatchHandler,
		scheduledEndpoint: scheduledEndpoint,
		logger:            logger.With("component", "notification_sweep"),
	}
}

// Handle performs one sweep pass. Individual dispatch failures never abort
// the pass; they are logged and the remaining jobs are still attempted.
func (h SweepNotificationsCommandHandler) Handle(ctx context.Context, cmd SweepNotificationsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	pending, err := h.uowFactory.Create().JobRepository().GetPendingUnnotified(ctx)
	if err != nil {
		return err
	}

	for _, aggregate := range pending {
		dispatchCmd, cmdErr := NewDispatchNotificationCommand(aggregate.ID(), job.EventScheduled, h.scheduledEndpoint)
		if cmdErr != nil {
			h.logger.ErrorContext(ctx, "failed to build dispatch command", "job", aggregate.ID().String(), "error", cmdErr)
			continue
		}

		dispatchErr := h.dispatchHandler.Handle(ctx, dispatchCmd)
		switch {
		case dispatchErr == nil:
		case errors.Is(dispatchErr, job.ErrAlreadyDispatched):
			// Lost the race to another trigger invocation; expected.
		case errors.Is(dispatchErr, errs.ErrValueIsRequired):
			// Payload still incomplete; the record was marked, a later
			// sweep retries once the missing fields are filled in.
		default:
			h.logger.ErrorContext(ctx, "sweep dispatch failed", "job", aggregate.ID().String(), "error", dispatchErr)
		}
	}

	return nil
}
