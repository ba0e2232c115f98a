package herald

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aetherhq/control-plane/internal/telemetry"
)

// ControlPlane is the subset of ControlPlaneClient the Worker depends on,
// satisfied by *ControlPlaneClient and by test doubles.
type ControlPlane interface {
	ListDeployments(ctx context.Context, dataPlaneID uuid.UUID) ([]uuid.UUID, error)
	ClaimActions(ctx context.Context, dataPlaneID, deploymentID uuid.UUID, max, leaseSeconds int) ([]ControlPlaneAction, error)
	MarkPublished(ctx context.Context, deploymentID, actionID uuid.UUID) error
}

// MessageBus is the subset of Publisher the Worker depends on.
type MessageBus interface {
	Publish(ctx context.Context, action NormalizedAction) error
}

// Worker runs the per-data-plane tick loop described in spec §4.5: list this
// data plane's deployments, claim each deployment's pending actions, and
// republish them onto the message bus.
type Worker struct {
	controlPlane ControlPlane
	messageBus   MessageBus
	dataPlaneID  uuid.UUID
	claimMax     int
	leaseSeconds int
	logger       *slog.Logger
}

// NewWorker creates a Worker for dataPlaneID.
func NewWorker(controlPlane ControlPlane, messageBus MessageBus, dataPlaneID uuid.UUID, claimMax, leaseSeconds int, logger *slog.Logger) *Worker {
	return &Worker{
		controlPlane: controlPlane,
		messageBus:   messageBus,
		dataPlaneID:  dataPlaneID,
		claimMax:     claimMax,
		leaseSeconds: leaseSeconds,
		logger:       logger,
	}
}

// SyncAllDeployments lists every deployment on the worker's data plane and
// processes each in turn. It returns the first error encountered — there are
// no per-action retries inside Herald; correctness relies on lease expiry
// plus idempotent consumers downstream.
func (w *Worker) SyncAllDeployments(ctx context.Context) error {
	start := time.Now()
	defer func() {
		telemetry.HeraldTickDuration.WithLabelValues(w.dataPlaneID.String()).Observe(time.Since(start).Seconds())
	}()

	deployments, err := w.controlPlane.ListDeployments(ctx, w.dataPlaneID)
	if err != nil {
		return err
	}

	for _, deploymentID := range deployments {
		if err := w.ProcessDeployment(ctx, deploymentID); err != nil {
			return err
		}
	}
	return nil
}

// ProcessDeployment claims and publishes every pending action for a single
// deployment.
func (w *Worker) ProcessDeployment(ctx context.Context, deploymentID uuid.UUID) error {
	actions, err := w.controlPlane.ClaimActions(ctx, w.dataPlaneID, deploymentID, w.claimMax, w.leaseSeconds)
	if err != nil {
		return err
	}

	for _, a := range actions {
		normalized, err := a.normalize()
		if err != nil {
			return err
		}

		if err := w.messageBus.Publish(ctx, normalized); err != nil {
			return err
		}
		telemetry.ActionsPublishedTotal.WithLabelValues(string(normalized.RoutingKey)).Inc()

		if err := w.controlPlane.MarkPublished(ctx, deploymentID, a.ID); err != nil {
			w.logger.Warn("mark_published failed, action will re-lease after expiry",
				"deployment_id", deploymentID, "action_id", a.ID, "error", err)
		}
	}
	return nil
}

// RunTickLoop runs SyncAllDeployments on a fixed interval until ctx is
// cancelled, logging but not halting on per-tick errors.
func RunTickLoop(ctx context.Context, w *Worker, interval time.Duration, logger *slog.Logger) {
	logger.Info("herald tick loop started", "interval", interval, "dataplane_id", w.dataPlaneID)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("herald tick loop stopped")
			return
		case <-ticker.C:
			if err := w.SyncAllDeployments(ctx); err != nil {
				logger.Error("herald tick failed", "error", err)
			}
		}
	}
}
