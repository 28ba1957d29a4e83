// Package reactions wires observed record changes to notification dispatch.
// The reactor is the inbound edge of the trigger surface: it decides, via
// the notification policy, whether a create or an observed status change
// gives rise to an outbound event, and hands the dispatch command to the
// idempotent dispatcher. Triggers fire at-least-once; deduplication lives
// entirely in the dispatcher.
package reactions

import (
	"context"
	"errors"
	"log/slog"

	"haulboard/internal/core/application/usecases/commands"
	"haulboard/internal/core/domain/model/job"
	"haulboard/internal/core/domain/services"
)

// Endpoints holds the webhook URL for each outbound event type.
type Endpoints struct {
	Scheduled   string
	GettingLoad string
}

// Reactor reacts to record lifecycle observations by dispatching webhook
// notifications.
type Reactor struct {
	dispatchHandler commands.DispatchNotificationCommandHandler
	policy          services.NotificationPolicy
	endpoints       Endpoints
	logger          *slog.Logger
}

// NewReactor creates a reactor bound to the configured webhook endpoints.
func NewReactor(
	dispatchHandler commands.DispatchNotificationCommandHandler,
	endpoints Endpoints,
	logger *slog.Logger,
) *Reactor {
	return &Reactor{
		dispatchHandler: dispatchHandler,
		policy:          services.NewNotificationPolicy(),
		endpoints:       endpoints,
		logger:          logger.With("component", "reactor"),
	}
}

// OnJobCreated handles the create trigger for a record. Non-delivery and
// non-pending records produce nothing. A duplicate invocation is a no-op,
// not an error, so trigger redelivery stays silent.
func (r *Reactor) OnJobCreated(ctx context.Context, created *job.Job) error {
	event, ok := r.policy.EventForCreate(created)
	if !ok {
		return nil
	}

	return r.dispatch(ctx, created, event, r.endpoints.Scheduled)
}

// OnJobUpdated handles the update trigger for a record. Only the observed
// transition into GettingLoad dispatches; the previous status comes from
// the state the mutation was applied to.
func (r *Reactor) OnJobUpdated(ctx context.Context, previous job.Status, updated *job.Job) error {
	if updated == nil || updated.Validate() != nil {
		return nil
	}

	event, ok := r.policy.EventForUpdate(previous, updated.Status())
	if !ok {
		return nil
	}

	return r.dispatch(ctx, updated, event, r.endpoints.GettingLoad)
}

func (r *Reactor) dispatch(ctx context.Context, aggregate *job.Job, event job.EventType, endpoint string) error {
	cmd, err := commands.NewDispatchNotificationCommand(aggregate.ID(), event, endpoint)
	if err != nil {
		return err
	}

	if err = r.dispatchHandler.Handle(ctx, cmd); err != nil {
		if errors.Is(err, job.ErrAlreadyDispatched) {
			r.logger.DebugContext(ctx, "notification already dispatched",
				"job", aggregate.ID().String(), "event", event.String())
			return nil
		}
		return err
	}

	return nil
}
