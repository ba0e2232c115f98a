package herald

import (
	"context"
	"errors"
	"log/slog"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockControlPlane struct{ mock.Mock }

func (m *mockControlPlane) ListDeployments(ctx context.Context, dataPlaneID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, dataPlaneID)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

func (m *mockControlPlane) ClaimActions(ctx context.Context, dataPlaneID, deploymentID uuid.UUID, max, leaseSeconds int) ([]ControlPlaneAction, error) {
	args := m.Called(ctx, dataPlaneID, deploymentID, max, leaseSeconds)
	actions, _ := args.Get(0).([]ControlPlaneAction)
	return actions, args.Error(1)
}

func (m *mockControlPlane) MarkPublished(ctx context.Context, deploymentID, actionID uuid.UUID) error {
	args := m.Called(ctx, deploymentID, actionID)
	return args.Error(0)
}

type mockMessageBus struct{ mock.Mock }

func (m *mockMessageBus) Publish(ctx context.Context, action NormalizedAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSyncAllDeploymentsPublishesEveryClaimedAction(t *testing.T) {
	dataPlaneID := uuid.New()
	dep1, dep2 := uuid.New(), uuid.New()

	cp := new(mockControlPlane)
	cp.On("ListDeployments", mock.Anything, dataPlaneID).Return([]uuid.UUID{dep1, dep2}, nil)
	cp.On("ClaimActions", mock.Anything, dataPlaneID, dep1, 10, 30).
		Return([]ControlPlaneAction{{ID: uuid.New(), Kind: "ferriskey.create"}}, nil)
	cp.On("ClaimActions", mock.Anything, dataPlaneID, dep2, 10, 30).
		Return([]ControlPlaneAction{{ID: uuid.New(), Kind: "postgres.create"}}, nil)
	cp.On("MarkPublished", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	bus := new(mockMessageBus)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	w := NewWorker(cp, bus, dataPlaneID, 10, 30, testLogger())
	err := w.SyncAllDeployments(context.Background())

	require.NoError(t, err)
	bus.AssertNumberOfCalls(t, "Publish", 2)
}

func TestSyncAllDeploymentsPropagatesListError(t *testing.T) {
	dataPlaneID := uuid.New()
	wantErr := errors.New("control plane unreachable")

	cp := new(mockControlPlane)
	cp.On("ListDeployments", mock.Anything, dataPlaneID).Return(nil, wantErr)

	w := NewWorker(cp, new(mockMessageBus), dataPlaneID, 10, 30, testLogger())
	err := w.SyncAllDeployments(context.Background())

	require.ErrorIs(t, err, wantErr)
}

func TestSyncAllDeploymentsPropagatesFirstClaimError(t *testing.T) {
	dataPlaneID := uuid.New()
	dep1, dep2 := uuid.New(), uuid.New()
	wantErr := errors.New("cannot claim actions")

	cp := new(mockControlPlane)
	cp.On("ListDeployments", mock.Anything, dataPlaneID).Return([]uuid.UUID{dep1, dep2}, nil)
	cp.On("ClaimActions", mock.Anything, dataPlaneID, dep1, 10, 30).Return(nil, wantErr)

	w := NewWorker(cp, new(mockMessageBus), dataPlaneID, 10, 30, testLogger())
	err := w.SyncAllDeployments(context.Background())

	require.ErrorIs(t, err, wantErr)
	cp.AssertNotCalled(t, "ClaimActions", mock.Anything, dataPlaneID, dep2, mock.Anything, mock.Anything)
}

func TestProcessDeploymentPropagatesPublishError(t *testing.T) {
	dataPlaneID, deploymentID := uuid.New(), uuid.New()
	wantErr := errors.New("message bus error")

	cp := new(mockControlPlane)
	cp.On("ClaimActions", mock.Anything, dataPlaneID, deploymentID, 10, 30).
		Return([]ControlPlaneAction{{ID: uuid.New(), Kind: "ferriskey.create"}}, nil)

	bus := new(mockMessageBus)
	bus.On("Publish", mock.Anything, mock.Anything).Return(wantErr)

	w := NewWorker(cp, bus, dataPlaneID, 10, 30, testLogger())
	err := w.ProcessDeployment(context.Background(), deploymentID)

	require.ErrorIs(t, err, wantErr)
	cp.AssertNotCalled(t, "MarkPublished", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessDeploymentNoActionsIsNotAnError(t *testing.T) {
	dataPlaneID, deploymentID := uuid.New(), uuid.New()

	cp := new(mockControlPlane)
	cp.On("ClaimActions", mock.Anything, dataPlaneID, deploymentID, 10, 30).Return(nil, nil)

	w := NewWorker(cp, new(mockMessageBus), dataPlaneID, 10, 30, testLogger())
	err := w.ProcessDeployment(context.Background(), deploymentID)

	require.NoError(t, err)
}

func TestProcessDeploymentMarkPublishedFailureIsNotFatal(t *testing.T) {
	dataPlaneID, deploymentID := uuid.New(), uuid.New()

	cp := new(mockControlPlane)
	cp.On("ClaimActions", mock.Anything, dataPlaneID, deploymentID, 10, 30).
		Return([]ControlPlaneAction{{ID: uuid.New(), Kind: "ferriskey.create"}}, nil)
	cp.On("MarkPublished", mock.Anything, deploymentID, mock.Anything).Return(errors.New("network blip"))

	bus := new(mockMessageBus)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	w := NewWorker(cp, bus, dataPlaneID, 10, 30, testLogger())
	err := w.ProcessDeployment(context.Background(), deploymentID)

	require.NoError(t, err)
}
