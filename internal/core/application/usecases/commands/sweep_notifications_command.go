package commands

import (
	"errors"

	"haulboard/internal/pkg/guard"
)

var (
	ErrSweepNotificationsCommandIsNotConstructed = errors.New(
		"SweepNotificationsCommand must be created via NewSweepNotificationsCommand constructor",
	)
)

// SweepNotificationsCommand triggers one pass over pending delivery jobs
// whose scheduling notification has not been sent. It carries no data; the
// sweep is a periodic redelivery source for the create trigger.
type SweepNotificationsCommand struct {
	guard guard.ConstructorGuard
}

// NewSweepNotificationsCommand creates a sweep command.
func NewSweepNotificationsCommand() SweepNotificationsCommand {
	return SweepNotificationsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c SweepNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrSweepNotificationsCommandIsNotConstructed)
}
