package commands_test

import (
	"context"
	"errors"
	"testing"

	"freightsim/internal/core/application/usecases/commands"
	"freightsim/internal/core/domain/model/kernel"
	"freightsim/internal/core/domain/model/run"
	"freightsim/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRunRepository struct{ mock.Mock }

func (m *MockRunRepository) Add(ctx context.Context, r *run.Run) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRunRepository) Get(_ context.Context, _ kernel.UUID) (*run.Run, error) {
	return nil, errors.New("not implemented in mock")
}

type MockRunUoW struct{ mock.Mock }

func (m *MockRunUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRunUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRunUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRunUoW) RunRepository() ports.RunRepository {
	args := m.Called()
	return args.Get(0).(ports.RunRepository)
}

type MockRunUoWFactory struct{ mock.Mock }

func (m *MockRunUoWFactory) Create() commands.RunUoW {
	args := m.Called()
	return args.Get(0).(commands.RunUoW)
}

func newCommand(t *testing.T) commands.RunSimulationCommand {
	t.Helper()
	cmd, err := commands.NewRunSimulationCommand(kernel.NewUUID(), "three-node", threeNodeConfig(t), 3, 10)
	require.NoError(t, err)
	return cmd
}

func TestRunSimulationCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := newCommand(t)

	repo := new(MockRunRepository)
	uow := new(MockRunUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RunRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*run.Run")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRunUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRunSimulationCommandHandler(factory, nil)
	r, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.NotNil(t, r)
	require.True(t, r.ID().IsEqual(cmd.RunID()))
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestRunSimulationCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockRunUoWFactory)
	h := commands.NewRunSimulationCommandHandler(factory, nil)

	_, err := h.Handle(t.Context(), commands.RunSimulationCommand{})

	require.ErrorIs(t, err, commands.ErrRunSimulationCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestRunSimulationCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd := newCommand(t)

	uow := new(MockRunUoW)
	factory := new(MockRunUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewRunSimulationCommandHandler(factory, nil)
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	uow.AssertExpectations(t)
}

func TestRunSimulationCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd := newCommand(t)

	repo := new(MockRunRepository)
	uow := new(MockRunUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RunRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*run.Run")).Return(errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRunUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRunSimulationCommandHandler(factory, nil)
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestRunSimulationCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	cmd := newCommand(t)

	repo := new(MockRunRepository)
	uow := new(MockRunUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RunRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*run.Run")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRunUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRunSimulationCommandHandler(factory, nil)
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestRunSimulationCommandHandler_Handle_SimulationCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	cmd := newCommand(t)
	factory := new(MockRunUoWFactory)

	h := commands.NewRunSimulationCommandHandler(factory, nil)
	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, context.Canceled)
	factory.AssertNotCalled(t, "Create")
}
