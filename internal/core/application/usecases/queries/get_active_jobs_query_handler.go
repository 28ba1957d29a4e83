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

// GetActiveJobsQueryHandler retrieves the scheduling board: every job not
// yet complete, ordered by scheduled time.
type GetActiveJobsQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveJobsQueryHandler creates a handler for board queries.
func NewGetActiveJobsQueryHandler(db *gorm.DB) GetActiveJobsQueryHandler {
	return GetActiveJobsQueryHandler{db: db}
}

// Handle executes the query. Results exclude completed jobs and are sorted
// by scheduled time for consistent board rendering.
func (h GetActiveJobsQueryHandler) Handle(ctx context.Context, query GetActiveJobsQuery) ([]JobSummary, error) {
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
		WHERE status != ?`
	args := []any{int(job.Complete)}

	if query.Depot() != "" {
		sqlQuery += " AND depot = ?"
		args = append(args, query.Depot())
	}
	sqlQuery += " ORDER BY scheduled_at, id"

	rows, err := h.db.WithContext(ctx).Raw(sqlQuery, args...).Rows()
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
