// Package jobrepo provides data transfer objects and mapping functions for
// job persistence. It implements the repository pattern for the job
// aggregate, converting between the domain entity and its relational
// representation: one row per job plus an append-only history table.
package jobrepo

import (
	"time"

	"haulboard/internal/core/domain/model/job"
	"haulboard/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// JobDTO represents the database structure for persisting job aggregates.
// Notification marks are embedded per event with a column prefix so the
// sent flag lives in the same row as the status it guards; the flag flip
// and the status change commit or roll back together.
type JobDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EntryKind      int        `gorm:"index"`
	Status         int        `gorm:"index"`
	CustomerName   string
	CustomerPhone  string
	Address        string
	Depot          string     `gorm:"index"`
	ScheduledAt    time.Time
	InvoiceNumber  string
	TravelEstimate int64
	StartedBy      *uuid.UUID `gorm:"type:uuid;index"`
	ClaimedAt      *time.Time
	Truck          string
	NumberOfTrips  int
	CurrentTrip    *int
	Photos         pq.StringArray      `gorm:"type:text[]"`
	Scheduled      NotificationMarkDTO `gorm:"embedded;embeddedPrefix:scheduled_"`
	GettingLoad    NotificationMarkDTO `gorm:"embedded;embeddedPrefix:getting_load_"`
}

// TableName specifies the database table name for job entities.
func (JobDTO) TableName() string {
	return "jobs"
}

// NotificationMarkDTO represents the embedded dispatch state for one event
// type within the job row.
type NotificationMarkDTO struct {
	Sent          bool
	SentAt        *time.Time
	ExecutionID   string
	Delivered     *bool
	FailureReason string
	FailedAt      *time.Time
}

// JobHistoryDTO represents one immutable edit-history line. The composite
// primary key (job_id, seq) makes appends idempotent: re-persisting an
// aggregate re-inserts existing entries as conflicts, which are skipped.
type JobHistoryDTO struct {
	JobID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq       int       `gorm:"primaryKey"`
	ActorID   uuid.UUID `gorm:"type:uuid"`
	ActorName string
	At        time.Time
	Action    int
	Note      string
}

// TableName specifies the database table name for history entries.
func (JobHistoryDTO) TableName() string {
	return "job_history"
}

// fromDomain converts a job aggregate to its row representation plus the
// full set of history rows.
func fromDomain(aggregate *job.Job) (JobDTO, []JobHistoryDTO) {
	var startedBy *uuid.UUID
	if owner := aggregate.Owner(); owner != nil {
		raw := owner.Bytes()
		startedBy = &raw
	}

	details := aggregate.Details()
	dto := JobDTO{
		ID:             aggregate.ID().Bytes(),
		EntryKind:      int(aggregate.Kind()),
		Status:         int(aggregate.Status()),
		CustomerName:   details.CustomerName,
		CustomerPhone:  details.CustomerPhone,
		Address:        details.Address,
		Depot:          details.Depot,
		ScheduledAt:    details.ScheduledAt,
		InvoiceNumber:  details.InvoiceNumber,
		TravelEstimate: int64(details.TravelEstimate),
		StartedBy:      startedBy,
		ClaimedAt:      aggregate.ClaimedAt(),
		Truck:          aggregate.AssignedTruck(),
		NumberOfTrips:  aggregate.NumberOfTrips(),
		CurrentTrip:    aggregate.CurrentTrip(),
		Photos:         pq.StringArray(aggregate.Photos()),
		Scheduled:      markFromDomain(aggregate.Notification(job.EventScheduled)),
		GettingLoad:    markFromDomain(aggregate.Notification(job.EventGettingLoad)),
	}

	history := aggregate.History()
	historyDTOs := make([]JobHistoryDTO, 0, len(history))
	for _, entry := range history {
		historyDTOs = append(historyDTOs, JobHistoryDTO{
			JobID:     aggregate.ID().Bytes(),
			Seq:       entry.Seq,
			ActorID:   entry.ActorID.Bytes(),
			ActorName: entry.ActorName,
			At:        entry.At,
			Action:    int(entry.Action),
			Note:      entry.Note,
		})
	}

	return dto, historyDTOs
}

func markFromDomain(mark job.NotificationMark) NotificationMarkDTO {
	return NotificationMarkDTO{
		Sent:          mark.Sent,
		SentAt:        mark.SentAt,
		ExecutionID:   mark.ExecutionID,
		Delivered:     mark.Delivered,
		FailureReason: mark.FailureReason,
		FailedAt:      mark.FailedAt,
	}
}

func markToDomain(dto NotificationMarkDTO) job.NotificationMark {
	return job.NotificationMark{
		Sent:          dto.Sent,
		SentAt:        dto.SentAt,
		ExecutionID:   dto.ExecutionID,
		Delivered:     dto.Delivered,
		FailureReason: dto.FailureReason,
		FailedAt:      dto.FailedAt,
	}
}

// toDomain converts row representations back to a job aggregate using
// RestoreJob. History rows must already be ordered by seq.
func toDomain(dto JobDTO, historyDTOs []JobHistoryDTO) (*job.Job, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var startedBy *kernel.UUID
	if dto.StartedBy != nil {
		owner, ownerErr := kernel.UUIDFromBytes((*dto.StartedBy)[:])
		if ownerErr != nil {
			return nil, ownerErr
		}

		startedBy = &owner
	}

	notifications := make(map[job.EventType]job.NotificationMark)
	if dto.Scheduled != (NotificationMarkDTO{}) {
		notifications[job.EventScheduled] = markToDomain(dto.Scheduled)
	}
	if dto.GettingLoad != (NotificationMarkDTO{}) {
		notifications[job.EventGettingLoad] = markToDomain(dto.GettingLoad)
	}

	history := make([]job.HistoryEntry, 0, len(historyDTOs))
	for _, entry := range historyDTOs {
		actorID, actorErr := kernel.UUIDFromBytes(entry.ActorID[:])
		if actorErr != nil {
			return nil, actorErr
		}

		history = append(history, job.HistoryEntry{
			Seq:       entry.Seq,
			ActorID:   actorID,
			ActorName: entry.ActorName,
			At:        entry.At,
			Action:    job.HistoryAction(entry.Action),
			Note:      entry.Note,
		})
	}

	return job.RestoreJob(job.RestoreJobParams{
		ID:        id,
		EntryKind: job.EntryKind(dto.EntryKind),
		Details: job.Details{
			CustomerName:   dto.CustomerName,
			CustomerPhone:  dto.CustomerPhone,
			Address:        dto.Address,
			Depot:          dto.Depot,
			ScheduledAt:    dto.ScheduledAt,
			InvoiceNumber:  dto.InvoiceNumber,
			TravelEstimate: time.Duration(dto.TravelEstimate),
		},
		Status:        job.Status(dto.Status),
		StartedBy:     startedBy,
		ClaimedAt:     dto.ClaimedAt,
		Truck:         dto.Truck,
		NumberOfTrips: dto.NumberOfTrips,
		CurrentTrip:   dto.CurrentTrip,
		Notifications: notifications,
		History:       history,
		Photos:        []string(dto.Photos),
	})
}
