package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"haulboard/internal/core/application/usecases/commands"
	"haulboard/internal/core/domain/model/job"
	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockJobRepository struct{ mock.Mock }

func (m *MockJobRepository) Add(ctx context.Context, aggregate *job.Job) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockJobRepository) Update(ctx context.Context, aggregate *job.Job) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *MockJobRepository) GetActiveByOwner(ctx context.Context, driverID kernel.UUID) ([]*job.Job, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*job.Job), args.Error(1)
}

func (m *MockJobRepository) GetPendingUnnotified(ctx context.Context) ([]*job.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*job.Job), args.Error(1)
}

type MockJobUoW struct{ mock.Mock }

func (m *MockJobUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockJobUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockJobUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockJobUoW) JobRepository() ports.JobRepository {
	args := m.Called()
	return args.Get(0).(ports.JobRepository)
}

type MockJobUoWFactory struct{ mock.Mock }

func (m *MockJobUoWFactory) Create() commands.JobUoW {
	args := m.Called()
	return args.Get(0).(commands.JobUoW)
}

func testDetails() job.Details {
	return job.Details{
		CustomerName:  "Jordan Smith",
		CustomerPhone: "+1 555 0100",
		Address:       "12 Harbor Rd",
		Depot:         "north",
		ScheduledAt:   time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC),
		InvoiceNumber: "INV-1001",
	}
}

func testActor(t *testing.T, role kernel.Role, name string) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(kernel.NewUUID(), name, role)
	require.NoError(t, err)
	return actor
}

func newPendingJob(t *testing.T) *job.Job {
	t.Helper()
	j, err := job.NewJob(kernel.NewUUID(), job.Delivery, testDetails(), 2, testActor(t, kernel.RoleSales, "Sam Seller"))
	require.NoError(t, err)
	return j
}

func TestCreateJobCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewCreateJobCommand(
		kernel.NewUUID(), job.Delivery, testDetails(), 1, testActor(t, kernel.RoleSales, "Sam Seller"))

	repo := new(MockJobRepository)
	uow := new(MockJobUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*job.Job")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateJobCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateJobCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateJobCommand{} // not constructed properly
	factory := new(MockJobUoWFactory)
	h := commands.NewCreateJobCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestCreateJobCommandHandler_Handle_DomainRuleError(t *testing.T) {
	ctx := t.Context()
	// Drivers pass command validation but job.NewJob rejects them; no
	// transaction is ever opened.
	cmd, _ := commands.NewCreateJobCommand(
		kernel.NewUUID(), job.Delivery, testDetails(), 1, testActor(t, kernel.RoleDriver, "Dana Driver"))

	factory := new(MockJobUoWFactory)
	h := commands.NewCreateJobCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	factory.AssertExpectations(t)
}

func TestCreateJobCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewCreateJobCommand(
		kernel.NewUUID(), job.Delivery, testDetails(), 1, testActor(t, kernel.RoleSales, "Sam Seller"))

	uow := new(MockJobUoW)
	factory := new(MockJobUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewCreateJobCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestCreateJobCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewCreateJobCommand(
		kernel.NewUUID(), job.Delivery, testDetails(), 1, testActor(t, kernel.RoleSales, "Sam Seller"))

	repo := new(MockJobRepository)
	uow := new(MockJobUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*job.Job")).Return(errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateJobCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateJobCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewCreateJobCommand(
		kernel.NewUUID(), job.Delivery, testDetails(), 1, testActor(t, kernel.RoleSales, "Sam Seller"))

	repo := new(MockJobRepository)
	uow := new(MockJobUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*job.Job")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateJobCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}
