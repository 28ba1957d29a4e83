package queries

import (
	"errors"

	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/pkg/guard"
)

var (
	ErrGetDriverJobsQueryIsNotConstructed = errors.New(
		"GetDriverJobsQuery must be created via NewGetDriverJobsQuery constructor",
	)
)

// GetDriverJobsQuery requests the non-complete jobs claimed by one driver.
type GetDriverJobsQuery struct {
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDriverJobsQuery creates the query for the given driver.
func NewGetDriverJobsQuery(driverID kernel.UUID) (GetDriverJobsQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetDriverJobsQuery{}, err
	}
	return GetDriverJobsQuery{
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDriverJobsQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverJobsQueryIsNotConstructed)
}

// DriverID returns the driver whose claimed jobs are requested.
func (q GetDriverJobsQuery) DriverID() kernel.UUID {
	return q.driverID
}
