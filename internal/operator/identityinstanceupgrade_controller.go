package operator

import (
	"context"
	"fmt"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	aetherv1alpha1 "github.com/aetherhq/control-plane/api/v1alpha1"
	"github.com/aetherhq/control-plane/internal/telemetry"
)

// requeueAfterCompletion is how long IdentityInstanceUpgradeReconciler
// waits after marking an upgrade completed before deleting it, per spec
// §4.6's requeue policy ("completed upgrade awaiting cleanup: requeue
// after 30s then delete").
const requeueAfterCompletion = 30 * time.Second

// IdentityInstanceUpgradeReconciler reconciles an IdentityInstanceUpgrade,
// patching the referenced IdentityInstance's spec.version and watching the
// live Deployment's image tag to detect completion.
type IdentityInstanceUpgradeReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
}

//+kubebuilder:rbac:groups=aether.dev,resources=identityinstanceupgrades,verbs=get;list;watch;update;patch;delete
//+kubebuilder:rbac:groups=aether.dev,resources=identityinstanceupgrades/status,verbs=get;update;patch
//+kubebuilder:rbac:groups=aether.dev,resources=identityinstances,verbs=get;list;watch;update;patch

// Reconcile implements the IdentityInstanceUpgrade state machine in
// spec §4.6.
func (r *IdentityInstanceUpgradeReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := log.FromContext(ctx).WithValues("identityinstanceupgrade", req.NamespacedName)
	start := time.Now()
	outcome := "success"
	defer func() {
		telemetry.ReconcileDuration.WithLabelValues("IdentityInstanceUpgrade", outcome).Observe(time.Since(start).Seconds())
	}()

	upgrade := &aetherv1alpha1.IdentityInstanceUpgrade{}
	if err := r.Get(ctx, req.NamespacedName, upgrade); err != nil {
		outcome = "not_found"
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}

	if upgrade.Status.Completed {
		if err := r.Delete(ctx, upgrade); err != nil {
			outcome = "error"
			return ctrl.Result{RequeueAfter: requeueOnError}, client.IgnoreNotFound(err)
		}
		return ctrl.Result{}, nil
	}

	if !upgrade.Spec.Approved {
		upgrade.Status.Phase = aetherv1alpha1.PhasePending
		upgrade.Status.Message = "Waiting for approval"
		r.event(upgrade, corev1.EventTypeNormal, aetherv1alpha1.ReasonUpgradePendingApproval, upgrade.Status.Message)
		if err := r.Status().Update(ctx, upgrade); err != nil {
			outcome = "error"
			return ctrl.Result{RequeueAfter: requeueOnError}, err
		}
		return ctrl.Result{}, nil
	}

	instance := &aetherv1alpha1.IdentityInstance{}
	instanceKey := client.ObjectKey{Name: upgrade.Spec.IdentityInstanceRef.Name, Namespace: upgrade.Namespace}
	if err := r.Get(ctx, instanceKey, instance); err != nil {
		outcome = "error"
		upgrade.Status.Error = fmt.Sprintf("referenced IdentityInstance %q not found", instanceKey.Name)
		_ = r.Status().Update(ctx, upgrade)
		return ctrl.Result{RequeueAfter: requeueOnError}, fmt.Errorf("getting referenced instance: %w", err)
	}

	reconciler := IdentityInstanceReconciler{Client: r.Client, Scheme: r.Scheme}
	liveTag, ready, err := reconciler.keycloakImageTag(ctx, instance)
	if err != nil {
		outcome = "error"
		return ctrl.Result{RequeueAfter: requeueOnError}, err
	}

	imageAtTarget := liveTag != "" && strings.HasSuffix(liveTag, ":"+upgrade.Spec.TargetVersion)
	versionAligned := instance.Spec.Version == upgrade.Spec.TargetVersion

	if versionAligned && imageAtTarget && ready {
		now := metav1.Now()
		upgrade.Status.Phase = aetherv1alpha1.PhaseRunning
		upgrade.Status.Completed = true
		upgrade.Status.CurrentVersion = upgrade.Spec.TargetVersion
		upgrade.Status.CompletedAt = &now
		upgrade.Status.Message = "Upgrade completed"
		r.event(upgrade, corev1.EventTypeNormal, aetherv1alpha1.ReasonUpgradeCompleted, upgrade.Status.Message)
		if err := r.Status().Update(ctx, upgrade); err != nil {
			outcome = "error"
			return ctrl.Result{RequeueAfter: requeueOnError}, err
		}
		return ctrl.Result{RequeueAfter: requeueAfterCompletion}, nil
	}

	if !versionAligned {
		instance.Spec.Version = upgrade.Spec.TargetVersion
		if err := r.Update(ctx, instance); err != nil {
			outcome = "error"
			return ctrl.Result{RequeueAfter: requeueOnError}, fmt.Errorf("patching instance to target version: %w", err)
		}
	}

	if upgrade.Status.StartedAt == nil {
		now := metav1.Now()
		upgrade.Status.StartedAt = &now
	}
	upgrade.Status.Phase = aetherv1alpha1.PhaseUpdating
	upgrade.Status.TargetVersion = upgrade.Spec.TargetVersion
	upgrade.Status.CurrentVersion = instance.Spec.Version
	upgrade.Status.Message = "Waiting for rollout to reach target version"
	r.event(upgrade, corev1.EventTypeNormal, aetherv1alpha1.ReasonUpgradeInProgress, upgrade.Status.Message)
	if err := r.Status().Update(ctx, upgrade); err != nil {
		outcome = "error"
		return ctrl.Result{RequeueAfter: requeueOnError}, err
	}

	logger.Info("upgrade in progress", "target", upgrade.Spec.TargetVersion)
	return ctrl.Result{RequeueAfter: requeueWaitingForWork}, nil
}

func (r *IdentityInstanceUpgradeReconciler) event(upgrade *aetherv1alpha1.IdentityInstanceUpgrade, eventType, reason, message string) {
	if r.Recorder == nil {
		return
	}
	r.Recorder.Event(upgrade, eventType, reason, message)
}

// SetupWithManager registers this reconciler with mgr.
func (r *IdentityInstanceUpgradeReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&aetherv1alpha1.IdentityInstanceUpgrade{}).
		Complete(r)
}
