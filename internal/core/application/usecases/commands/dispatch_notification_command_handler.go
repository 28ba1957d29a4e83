package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"haulboard/internal/core/domain/model/job"
	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/core/domain/services"
	"haulboard/internal/core/ports"
	"haulboard/internal/metrics"
)

// DispatchNotificationCommandHandler delivers each event notification at
// most once per record, even though the triggering reactions fire
// at-least-once.
//
// The discipline is triple verification: a cheap pre-check read before the
// transaction, the flag set inside the transaction (which closes the TOCTOU
// race between concurrent trigger invocations), and a post-commit re-read
// confirming this invocation's execution ID actually won the flag. Only
// then is the outbound call made. The flag is set before the HTTP call: a
// record never produces two calls, at the cost of a lost call if the
// process dies between commit and send.
type DispatchNotificationCommandHandler struct {
	uowFactory JobUoWFactory
	sender     ports.NotificationSender
	policy     services.NotificationPolicy
	logger     *slog.Logger
}

// NewDispatchNotificationCommandHandler creates a handler for notification
// dispatch operations.
func NewDispatchNotificationCommandHandler(
	uowFactory JobUoWFactory,
	sender ports.NotificationSender,
	logger *slog.Logger,
) DispatchNotificationCommandHandler {
	return DispatchNotificationCommandHandler{
		uowFactory: uowFactory,
		sender:     sender,
		policy:     services.NewNotificationPolicy(),
		logger:     logger.With("component", "notification_dispatcher"),
	}
}

// Handle processes one dispatch invocation.
//
// Returns AlreadyDispatchedError when another invocation already sent this
// event (a no-op signal, not a failure), a required-value error when the
// payload cannot be built (recorded on the mark, no HTTP call), or the
// sender's error when the outbound call fails (recorded on the mark; the
// flag stays set and the event is never retried).
func (h DispatchNotificationCommandHandler) Handle(ctx context.Context, cmd DispatchNotificationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	// Cheap pre-check outside the transaction. Not load-bearing: the
	// transactional check below repeats it.
	aggregate, err := h.uowFactory.Create().JobRepository().Get(ctx, cmd.JobID())
	if err != nil {
		return err
	}
	if mark := aggregate.Notification(cmd.Event()); mark.Sent {
		metrics.WebhookDispatchesTotal.WithLabelValues(cmd.Event().String(), metrics.OutcomeDuplicate).Inc()
		return job.NewAlreadyDispatchedError(cmd.Event(), mark.ExecutionID)
	}

	executionID := kernel.NewUUID().String()

	payload, err := h.policy.PayloadForEvent(aggregate, cmd.Event(), executionID)
	if err != nil {
		metrics.WebhookDispatchesTotal.WithLabelValues(cmd.Event().String(), metrics.OutcomeValidationFailed).Inc()
		h.recordOutcome(ctx, cmd.JobID(), cmd.Event(), false, err.Error())
		return err
	}

	if err = h.claimFlag(ctx, cmd, executionID); err != nil {
		if errors.Is(err, job.ErrAlreadyDispatched) {
			metrics.WebhookDispatchesTotal.WithLabelValues(cmd.Event().String(), metrics.OutcomeDuplicate).Inc()
		}
		return err
	}

	// Post-commit confirmation: re-read and check that this invocation's
	// execution ID is the one that stuck.
	confirmed, err := h.uowFactory.Create().JobRepository().Get(ctx, cmd.JobID())
	if err != nil {
		return err
	}
	if mark := confirmed.Notification(cmd.Event()); mark.ExecutionID != executionID {
		metrics.WebhookDispatchesTotal.WithLabelValues(cmd.Event().String(), metrics.OutcomeDuplicate).Inc()
		return job.NewAlreadyDispatchedError(cmd.Event(), mark.ExecutionID)
	}

	start := time.Now()
	sendErr := h.sender.Send(ctx, cmd.Endpoint(), payload)
	metrics.WebhookDispatchDuration.Observe(time.Since(start).Seconds())

	if sendErr != nil {
		metrics.WebhookDispatchesTotal.WithLabelValues(cmd.Event().String(), metrics.OutcomeFailed).Inc()
		h.logger.ErrorContext(ctx, "webhook call failed",
			"job", cmd.JobID().String(), "event", cmd.Event().String(), "error", sendErr)
		h.recordOutcome(ctx, cmd.JobID(), cmd.Event(), false, sendErr.Error())
		return sendErr
	}

	metrics.WebhookDispatchesTotal.WithLabelValues(cmd.Event().String(), metrics.OutcomeSent).Inc()
	h.recordOutcome(ctx, cmd.JobID(), cmd.Event(), true, "")
	return nil
}

// claimFlag sets the sent flag for this invocation inside one transaction.
func (h DispatchNotificationCommandHandler) claimFlag(ctx context.Context, cmd DispatchNotificationCommand, executionID string) error {
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

	if err = aggregate.BeginDispatch(cmd.Event(), executionID); err != nil {
		return err
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// recordOutcome stores the dispatch result best-effort; its own failure is
// logged and never escalated.
func (h DispatchNotificationCommandHandler) recordOutcome(ctx context.Context, jobID kernel.UUID, event job.EventType, delivered bool, reason string) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		h.logger.ErrorContext(ctx, "failed to record dispatch outcome", "job", jobID.String(), "error", err)
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.JobRepository()
	aggregate, err := repo.Get(ctx, jobID)
	if err == nil {
		if err = aggregate.RecordDispatchOutcome(event, delivered, reason); err == nil {
			if err = repo.Update(ctx, aggregate); err == nil {
				err = uow.Commit(ctx)
			}
		}
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to record dispatch outcome", "job", jobID.String(), "error", err)
	}
}
