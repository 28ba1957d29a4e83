// Package ports defines the contracts between the application core and its
// adapters: job persistence, transaction management, and outbound
// notification delivery.
package ports

import (
	"context"

	"haulboard/internal/core/domain/model/job"
	"haulboard/internal/core/domain/model/kernel"
)

// JobRepository defines the persistence contract for job aggregates.
// Implementations must persist the aggregate row and its history entries in
// the caller's transaction so that state and audit trail never diverge.
type JobRepository interface {
	// Add persists a new job aggregate, including its initial history.
	Add(ctx context.Context, aggregate *job.Job) error

	// Update persists changes to an existing job aggregate. New history
	// entries are appended; existing entries are never rewritten.
	Update(ctx context.Context, aggregate *job.Job) error

	// Get retrieves a job aggregate with its full history by identifier.
	Get(ctx context.Context, id kernel.UUID) (*job.Job, error)

	// GetActiveByOwner retrieves the non-complete jobs currently claimed by
	// a driver. Feeds the advisory one-active-job pre-check before a claim.
	GetActiveByOwner(ctx context.Context, driverID kernel.UUID) ([]*job.Job, error)

	// GetPendingUnnotified retrieves pending delivery jobs whose scheduling
	// notification has not been sent. Feeds the sweep job that re-fires the
	// create trigger, so results may include records already being
	// dispatched concurrently; the dispatcher's transactional flag check
	// arbitrates.
	GetPendingUnnotified(ctx context.Context) ([]*job.Job, error)
}
