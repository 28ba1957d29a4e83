package commands

import (
	"context"
	"errors"

	"haulboard/internal/core/domain/model/job"
	"haulboard/internal/metrics"
	"haulboard/internal/pkg/locks"
)

var (
	// ErrSubmissionInFlight indicates this client process already has a
	// submission running for the same record (double-tap debounce).
	ErrSubmissionInFlight = errors.New("a submission for this job is already in flight")

	// ErrDriverHasActiveJob indicates the advisory one-active-job rule
	// blocked the claim at the client level.
	ErrDriverHasActiveJob = errors.New("driver already has an active job")
)

// ClaimJobCommandHandler arbitrates driver ownership of a job record.
//
// Correctness comes solely from the transactional re-read inside Handle:
// whichever transaction commits first wins, the loser observes
// AlreadyClaimedError with the winner's identity. The submit guard and the
// one-active-job pre-scan are client-level conveniences layered in front of
// that check, never a substitute for it.
type ClaimJobCommandHandler struct {
	uowFactory  JobUoWFactory
	submitGuard *locks.SubmitGuard
}

// NewClaimJobCommandHandler creates a handler for claim operations.
func NewClaimJobCommandHandler(uowFactory JobUoWFactory, submitGuard *locks.SubmitGuard) ClaimJobCommandHandler {
	return ClaimJobCommandHandler{
		uowFactory:  uowFactory,
		submitGuard: submitGuard,
	}
}

// Handle processes the claim command.
// Returns AlreadyClaimedError when the record is owned by another driver,
// ErrSubmissionInFlight on a local double submit, and ErrDriverHasActiveJob
// when the advisory pre-scan finds another active claimed job.
func (h ClaimJobCommandHandler) Handle(ctx context.Context, cmd ClaimJobCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if !h.submitGuard.TryAcquire(cmd.JobID().String()) {
		return ErrSubmissionInFlight
	}
	defer h.submitGuard.Release(cmd.JobID().String())

	// Advisory business rule, checked outside the transaction on purpose:
	// the transactional claim below remains the sole cross-driver arbiter.
	active, err := h.uowFactory.Create().JobRepository().GetActiveByOwner(ctx, cmd.Actor().ID())
	if err != nil {
		return err
	}
	for _, owned := range active {
		if !owned.ID().IsEqual(cmd.JobID()) {
			return ErrDriverHasActiveJob
		}
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.JobRepository()
	aggregate, err := repo.Get(ctx, cmd.JobID())
	if err != nil {
		return err
	}

	if err = aggregate.Claim(cmd.Actor(), cmd.Truck()); err != nil {
		if errors.Is(err, job.ErrAlreadyClaimed) {
			metrics.ClaimConflictsTotal.Inc()
		}
		return err
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
