package commands_test

import (
	"context"
	"sync"
	"testing"

	"haulboard/internal/core/application/usecases/commands"
	"haulboard/internal/core/domain/model/job"
	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/core/ports"
	"haulboard/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

// fakeJobStore is an in-memory job store with serializable transactions.
// Begin takes the store lock, so concurrent handler invocations observe the
// same re-read/modify/persist arbitration a real database provides. Reads
// hand out deep copies, matching a repository that rehydrates per call.
type fakeJobStore struct {
	mu   sync.Mutex
	jobs map[string]*job.Job
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: make(map[string]*job.Job)}
}

func (s *fakeJobStore) seed(t *testing.T, aggregate *job.Job) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[aggregate.ID().String()] = cloneJob(t, aggregate)
}

func (s *fakeJobStore) load(t *testing.T, id kernel.UUID) *job.Job {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.jobs[id.String()]
	require.True(t, ok, "job %s not in store", id)
	return cloneJob(t, stored)
}

func (s *fakeJobStore) Create() commands.JobUoW {
	return &fakeJobUoW{store: s}
}

type fakeJobUoW struct {
	store  *fakeJobStore
	active bool
	staged map[string]*job.Job
}

func (u *fakeJobUoW) Begin(_ context.Context) error {
	u.store.mu.Lock()
	u.active = true
	u.staged = make(map[string]*job.Job)
	return nil
}

func (u *fakeJobUoW) Commit(_ context.Context) error {
	if !u.active {
		return errs.NewValueIsInvalidError("transaction")
	}
	for id, aggregate := range u.staged {
		u.store.jobs[id] = aggregate
	}
	u.active = false
	u.store.mu.Unlock()
	return nil
}

func (u *fakeJobUoW) Rollback(_ context.Context) error {
	if !u.active {
		return errs.NewValueIsInvalidError("transaction")
	}
	u.active = false
	u.store.mu.Unlock()
	return nil
}

func (u *fakeJobUoW) JobRepository() ports.JobRepository {
	return &fakeJobRepository{uow: u}
}

type fakeJobRepository struct {
	uow *fakeJobUoW
}

func (r *fakeJobRepository) Add(_ context.Context, aggregate *job.Job) error {
	return r.put(aggregate)
}

func (r *fakeJobRepository) Update(_ context.Context, aggregate *job.Job) error {
	return r.put(aggregate)
}

func (r *fakeJobRepository) put(aggregate *job.Job) error {
	copied, err := snapshot(aggregate)
	if err != nil {
		return err
	}
	if r.uow.active {
		r.uow.staged[aggregate.ID().String()] = copied
		return nil
	}

	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	r.uow.store.jobs[aggregate.ID().String()] = copied
	return nil
}

func (r *fakeJobRepository) Get(_ context.Context, id kernel.UUID) (*job.Job, error) {
	read := func() (*job.Job, error) {
		if staged, ok := r.uow.staged[id.String()]; r.uow.active && ok {
			return snapshot(staged)
		}
		stored, ok := r.uow.store.jobs[id.String()]
		if !ok {
			return nil, errs.NewObjectNotFoundError("job", id.String())
		}
		return snapshot(stored)
	}

	if r.uow.active {
		return read()
	}

	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	return read()
}

func (r *fakeJobRepository) GetActiveByOwner(_ context.Context, driverID kernel.UUID) ([]*job.Job, error) {
	return r.scan(func(j *job.Job) bool {
		return j.Owner() != nil && j.Owner().IsEqual(driverID) && j.Status() != job.Complete
	})
}

func (r *fakeJobRepository) GetPendingUnnotified(_ context.Context) ([]*job.Job, error) {
	return r.scan(func(j *job.Job) bool {
		return j.Kind() == job.Delivery && j.Status() == job.Pending && !j.Notification(job.EventScheduled).Sent
	})
}

func (r *fakeJobRepository) scan(match func(*job.Job) bool) ([]*job.Job, error) {
	if !r.uow.active {
		r.uow.store.mu.Lock()
		defer r.uow.store.mu.Unlock()
	}

	var result []*job.Job
	for _, stored := range r.uow.store.jobs {
		if !match(stored) {
			continue
		}
		copied, err := snapshot(stored)
		if err != nil {
			return nil, err
		}
		result = append(result, copied)
	}
	return result, nil
}

func snapshot(aggregate *job.Job) (*job.Job, error) {
	return job.RestoreJob(job.RestoreJobParams{
		ID:            aggregate.ID(),
		EntryKind:     aggregate.Kind(),
		Details:       aggregate.Details(),
		Status:        aggregate.Status(),
		StartedBy:     aggregate.Owner(),
		ClaimedAt:     aggregate.ClaimedAt(),
		Truck:         aggregate.AssignedTruck(),
		NumberOfTrips: aggregate.NumberOfTrips(),
		CurrentTrip:   aggregate.CurrentTrip(),
		Notifications: aggregate.Notifications(),
		History:       aggregate.History(),
		Photos:        aggregate.Photos(),
	})
}

func cloneJob(t *testing.T, aggregate *job.Job) *job.Job {
	t.Helper()
	copied, err := snapshot(aggregate)
	require.NoError(t, err)
	return copied
}

// fakeSender records outbound calls and optionally fails them.
type fakeSender struct {
	mu    sync.Mutex
	err   error
	calls []fakeSenderCall
}

type fakeSenderCall struct {
	Endpoint string
	Payload  any
}

func (s *fakeSender) Send(_ context.Context, endpoint string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fakeSenderCall{Endpoint: endpoint, Payload: payload})
	return s.err
}

func (s *fakeSender) Calls() []fakeSenderCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	calls := make([]fakeSenderCall, len(s.calls))
	copy(calls, s.calls)
	return calls
}
