// Package queries contains read-only operations over the job collection.
// Query handlers bypass the aggregate and read projections directly from
// the store; they never mutate state and hold no transactions.
package queries

import (
	"errors"
	"time"

	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/pkg/guard"
)

var (
	ErrGetActiveJobsQueryIsNotConstructed = errors.New(
		"GetActiveJobsQuery must be created via NewGetActiveJobsQuery constructor",
	)
)

// GetActiveJobsQuery requests all non-complete jobs, optionally filtered to
// one depot. Drivers poll this to find claimable work.
type GetActiveJobsQuery struct {
	depot string

	guard guard.ConstructorGuard
}

// NewGetActiveJobsQuery creates the query. An empty depot means all depots.
func NewGetActiveJobsQuery(depot string) GetActiveJobsQuery {
	return GetActiveJobsQuery{
		depot: depot,
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the query was created through the constructor.
func (q GetActiveJobsQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveJobsQueryIsNotConstructed)
}

// Depot returns the depot filter, empty for all depots.
func (q GetActiveJobsQuery) Depot() string {
	return q.depot
}

// JobSummary is the board projection of one job.
type JobSummary struct {
	ID            kernel.UUID
	Status        string
	Depot         string
	CustomerName  string
	Address       string
	ScheduledAt   time.Time
	InvoiceNumber string
	Owner         *kernel.UUID
	NumberOfTrips int
	CurrentTrip   *int
}
