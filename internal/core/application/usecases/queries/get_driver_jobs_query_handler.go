package queries

import (
	"context"
	"database/sql"
	"time"

	"haulboard/internal/core/domain/model/job"
	"haulboard/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDriverJobsQueryHandler retrieves the jobs a driver currently owns and
// has not completed.
type GetDriverJobsQueryHandler struct {
	db *gorm.DB
}

// NewGetDriverJobsQueryHandler creates a handler for driver workload queries.
func NewGetDriverJobsQueryHandler(db *gorm.DB) GetDriverJobsQueryHandler {
	return GetDriverJobsQueryHandler{db: db}
}

// Handle executes the query.
func (h GetDriverJobsQueryHandler) Handle(ctx context.Context, query GetDriverJobsQuery) ([]JobSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlQuery := `
		SELECT
			id,
			status,
			depot,
			customer_name,
			address,
			scheduled_at,
			invoice_number,
			started_by,
			number_of_trips,
			current_trip
		FROM jobs
		WHERE started_by = ? AND status != ?
		ORDER BY scheduled_at, id`

	rows, err := h.db.WithContext(ctx).
		Raw(sqlQuery, query.DriverID().String(), int(job.Complete)).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]JobSummary, 0)
	for rows.Next() {
		var (
			id            uuid.UUID
			status        int
			startedBy     *uuid.UUID
			scheduledAt   time.Time
			currentTrip   sql.NullInt64
			summary       JobSummary
			numberOfTrips int
		)

		if err = rows.Scan(
			&id,
			&status,
			&summary.Depot,
			&summary.CustomerName,
			&summary.Address,
			&scheduledAt,
			&summary.InvoiceNumber,
			&startedBy,
			&numberOfTrips,
			&currentTrip,
		); err != nil {
			return nil, err
		}

		jobID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		summary.ID = jobID
		summary.Status = job.Status(status).String()
		summary.ScheduledAt = scheduledAt
		summary.NumberOfTrips = numberOfTrips

		if startedBy != nil {
			owner, ownerErr := kernel.UUIDFromBytes((*startedBy)[:])
			if ownerErr != nil {
				return nil, ownerErr
			}
			summary.Owner = &owner
		}
		if currentTrip.Valid {
			trip := int(currentTrip.Int64)
			summary.CurrentTrip = &trip
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
