package commands

import (
	"errors"

	"haulboard/internal/core/domain/model/job"
	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/pkg/errs"
	"haulboard/internal/pkg/guard"
)

var (
	ErrDispatchNotificationCommandIsNotConstructed = errors.New(
		"DispatchNotificationCommand must be created via NewDispatchNotificationCommand constructor",
	)
)

// DispatchNotificationCommand represents one invocation of the at-most-once
// outbound notification for a record and event type. The triggering
// mechanism delivers at-least-once, so the same logical command may be
// issued multiple times; the handler guarantees a single outbound call.
type DispatchNotificationCommand struct { //nolint:recvcheck //using for validation
	jobID    kernel.UUID
	event    job.EventType
	endpoint string

	guard guard.ConstructorGuard
}

// NewDispatchNotificationCommand creates a command to dispatch one event
// notification to the given webhook endpoint.
func NewDispatchNotificationCommand(jobID kernel.UUID, event job.EventType, endpoint string) (DispatchNotificationCommand, error) {
	if err := errors.Join(
		jobID.Validate(),
		event.Validate(),
	); err != nil {
		return DispatchNotificationCommand{}, err
	}
	if endpoint == "" {
		return DispatchNotificationCommand{}, errs.NewValueIsRequiredError("endpoint")
	}

	return DispatchNotificationCommand{
		jobID:    jobID,
		event:    event,
		endpoint: endpoint,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c DispatchNotificationCommand) Validate() error {
	return c.guard.Validate(ErrDispatchNotificationCommandIsNotConstructed)
}

// JobID returns the record whose event is being announced.
func (c DispatchNotificationCommand) JobID() kernel.UUID {
	return c.jobID
}

// Event returns the event type being dispatched.
func (c DispatchNotificationCommand) Event() job.EventType {
	return c.event
}

// Endpoint returns the webhook URL for this event type.
func (c DispatchNotificationCommand) Endpoint() string {
	return c.endpoint
}
