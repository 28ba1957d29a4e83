package jobrepo

import (
	"context"
	"errors"

	"haulboard/internal/core/domain/model/job"
	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormJobRepository implements JobRepository using GORM.
type GormJobRepository struct {
	db        *gorm.DB
	tracker   aggregateTracker
	lockOnGet bool
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormJobRepository creates a new GORM job repository.
func NewGormJobRepository(db *gorm.DB, tracker aggregateTracker) *GormJobRepository {
	return &GormJobRepository{
		db:      db,
		tracker: tracker,
	}
}

// NewGormJobRepositoryForUpdate creates a repository bound to an open
// transaction. Get takes a row lock (SELECT ... FOR UPDATE) held until the
// transaction ends, so a concurrent read-modify-write blocks on the re-read
// and then observes the committed owner and flags instead of the pre-race
// snapshot.
func NewGormJobRepositoryForUpdate(tx *gorm.DB, tracker aggregateTracker) *GormJobRepository {
	return &GormJobRepository{
		db:        tx,
		tracker:   tracker,
		lockOnGet: true,
	}
}

// Add saves a new job to the database, including its initial history.
func (r *GormJobRepository) Add(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, historyDTOs := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	if err := r.appendHistory(ctx, historyDTOs); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing job to the database. All columns are written so
// that cleared fields round-trip; history entries already present are left
// untouched and only new ones are inserted.
func (r *GormJobRepository) Update(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, historyDTOs := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&JobDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := r.appendHistory(ctx, historyDTOs); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a job with its full history by ID.
func (r *GormJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx)
	if r.lockOnGet {
		query = query.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}

	var dto JobDTO
	if err := query.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("job", id.String())
		}
		return nil, err
	}

	var historyDTOs []JobHistoryDTO
	if err := r.db.WithContext(ctx).
		Order("seq").
		Find(&historyDTOs, "job_id = ?", id.Bytes()).Error; err != nil {
		return nil, err
	}

	return toDomain(dto, historyDTOs)
}

// GetActiveByOwner retrieves the non-complete jobs claimed by a driver.
// History is not loaded; the result feeds advisory read-only checks.
func (r *GormJobRepository) GetActiveByOwner(ctx context.Context, driverID kernel.UUID) ([]*job.Job, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dtos []JobDTO
	if err := r.db.WithContext(ctx).
		Find(&dtos, "started_by = ? AND status != ?", driverID.Bytes(), int(job.Complete)).Error; err != nil {
		return nil, err
	}

	return r.toDomainList(dtos)
}

// GetPendingUnnotified retrieves pending delivery jobs whose scheduling
// notification flag is still unsent. History is not loaded; the sweep
// re-reads each job inside its own dispatch transaction.
func (r *GormJobRepository) GetPendingUnnotified(ctx context.Context) ([]*job.Job, error) {
	var dtos []JobDTO
	if err := r.db.WithContext(ctx).
		Find(&dtos, "status = ? AND entry_kind = ? AND scheduled_sent = ?",
			int(job.Pending), int(job.Delivery), false).Error; err != nil {
		return nil, err
	}

	return r.toDomainList(dtos)
}

// appendHistory inserts history rows, skipping entries that already exist.
// The composite key (job_id, seq) arbitrates: a re-persisted aggregate only
// ever adds rows with fresh sequence numbers.
func (r *GormJobRepository) appendHistory(ctx context.Context, historyDTOs []JobHistoryDTO) error {
	if len(historyDTOs) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&historyDTOs).Error
}

func (r *GormJobRepository) toDomainList(dtos []JobDTO) ([]*job.Job, error) {
	aggregates := make([]*job.Job, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto, nil)
		if err != nil {
			return nil, err
		}
		aggregates = append(aggregates, aggregate)
	}

	return aggregates, nil
}
