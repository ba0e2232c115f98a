// Package operator implements the controller-runtime reconcilers for the
// two CRDs the control plane hands off to a data plane's Kubernetes
// cluster: IdentityInstance and IdentityInstanceUpgrade (spec §4.6).
package operator

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	aetherv1alpha1 "github.com/aetherhq/control-plane/api/v1alpha1"
	"github.com/aetherhq/control-plane/internal/telemetry"
)

// Finalizer is added to every live IdentityInstance on its first reconcile
// and removed only after Terminating cleanup completes.
const Finalizer = "aether.dev/identityinstance-cleanup"

const (
	requeueWaitingForWork = 15 * time.Second
	requeueOnError        = 30 * time.Second
)

// IdentityInstanceReconciler reconciles an IdentityInstance object, driving
// it through DatabaseProvisioning -> SecretProjection -> Deploying ->
// Running (and Upgrading / Terminating as triggered), per spec §4.6.
type IdentityInstanceReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
}

//+kubebuilder:rbac:groups=aether.dev,resources=identityinstances,verbs=get;list;watch;create;update;patch;delete
//+kubebuilder:rbac:groups=aether.dev,resources=identityinstances/status,verbs=get;update;patch
//+kubebuilder:rbac:groups=aether.dev,resources=identityinstances/finalizers,verbs=update
//+kubebuilder:rbac:groups=aether.dev,resources=identityinstanceupgrades,verbs=get;list;watch
//+kubebuilder:rbac:groups=postgresql.cnpg.io,resources=clusters,verbs=get;list;watch;create;update;patch;delete
//+kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch;create;update;patch;delete
//+kubebuilder:rbac:groups="",resources=services;secrets,verbs=get;list;watch;create;update;patch;delete

// Reconcile implements the state machine described in spec §4.6's
// IdentityInstance table.
func (r *IdentityInstanceReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := log.FromContext(ctx).WithValues("identityinstance", req.NamespacedName)
	start := time.Now()
	outcome := "success"
	defer func() {
		telemetry.ReconcileDuration.WithLabelValues("IdentityInstance", outcome).Observe(time.Since(start).Seconds())
	}()

	instance := &aetherv1alpha1.IdentityInstance{}
	if err := r.Get(ctx, req.NamespacedName, instance); err != nil {
		outcome = "not_found"
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}

	if !instance.DeletionTimestamp.IsZero() {
		res, err := r.reconcileTerminating(ctx, instance)
		if err != nil {
			outcome = "error"
		}
		return res, err
	}

	if !controllerutil.ContainsFinalizer(instance, Finalizer) {
		controllerutil.AddFinalizer(instance, Finalizer)
		if err := r.Update(ctx, instance); err != nil {
			outcome = "error"
			return ctrl.Result{}, fmt.Errorf("adding finalizer: %w", err)
		}
		return ctrl.Result{Requeue: true}, nil
	}

	if instance.Spec.Provider == aetherv1alpha1.ProviderFerrisKey {
		res, err := r.reconcileFerrisKey(ctx, instance)
		if statusErr := r.patchStatus(ctx, instance, logger); statusErr != nil && err == nil {
			err = statusErr
		}
		if err != nil {
			outcome = "error"
		}
		return res, err
	}

	if upgrading, targetVersion, err := r.activeApprovedUpgrade(ctx, instance); err != nil {
		outcome = "error"
		return ctrl.Result{RequeueAfter: requeueOnError}, err
	} else if upgrading {
		return r.reconcileUpgrading(ctx, instance, targetVersion, logger)
	}

	res, err := r.reconcileKeycloak(ctx, instance, logger)
	if statusErr := r.patchStatus(ctx, instance, logger); statusErr != nil && err == nil {
		err = statusErr
	}
	if err != nil {
		outcome = "error"
	}
	return res, err
}

// reconcileKeycloak drives the DatabaseProvisioning -> SecretProjection ->
// Deploying -> Running progression for provider=keycloak instances.
func (r *IdentityInstanceReconciler) reconcileKeycloak(ctx context.Context, instance *aetherv1alpha1.IdentityInstance, logger interface{ Info(string, ...any) }) (ctrl.Result, error) {
	gen := instance.Generation

	if instance.Spec.Database.Mode == aetherv1alpha1.DatabaseModeManagedCluster {
		ready, err := r.cnpgClusterReady(ctx, instance)
		if err != nil {
			return ctrl.Result{RequeueAfter: requeueOnError}, err
		}
		if !ready {
			if err := r.applyCNPGCluster(ctx, instance); err != nil {
				return ctrl.Result{RequeueAfter: requeueOnError}, err
			}
			instance.Status.Phase = aetherv1alpha1.PhaseDeploying
			instance.Status.Conditions = setCondition(instance.Status.Conditions, aetherv1alpha1.ConditionDatabaseReady, metav1.ConditionFalse, "Provisioning", "Waiting for CNPG cluster to become ready", gen)
			return ctrl.Result{RequeueAfter: requeueWaitingForWork}, nil
		}
		instance.Status.Conditions = setCondition(instance.Status.Conditions, aetherv1alpha1.ConditionDatabaseReady, metav1.ConditionTrue, "Ready", "CNPG cluster is ready", gen)
	}

	secretsReady, err := r.secretsReady(ctx, instance)
	if err != nil {
		return ctrl.Result{RequeueAfter: requeueOnError}, err
	}
	if !secretsReady {
		if instance.Spec.Database.Mode == aetherv1alpha1.DatabaseModeManagedCluster {
			if err := r.projectDBCredentials(ctx, instance); err != nil {
				return ctrl.Result{RequeueAfter: requeueOnError}, err
			}
		}
		if err := r.ensureAdminSecret(ctx, instance); err != nil {
			return ctrl.Result{RequeueAfter: requeueOnError}, err
		}
		instance.Status.Conditions = setCondition(instance.Status.Conditions, aetherv1alpha1.ConditionSecretsReady, metav1.ConditionFalse, "Projecting", "Projecting database credentials", gen)
		return ctrl.Result{RequeueAfter: requeueWaitingForWork}, nil
	}
	instance.Status.Conditions = setCondition(instance.Status.Conditions, aetherv1alpha1.ConditionSecretsReady, metav1.ConditionTrue, "Ready", "Credentials projected", gen)

	if err := r.applyKeycloakWorkload(ctx, instance); err != nil {
		return ctrl.Result{RequeueAfter: requeueOnError}, err
	}

	workloadReady, err := r.keycloakWorkloadReady(ctx, instance)
	if err != nil {
		return ctrl.Result{RequeueAfter: requeueOnError}, err
	}
	if !workloadReady {
		instance.Status.Phase = aetherv1alpha1.PhaseDeploying
		instance.Status.Ready = false
		instance.Status.Conditions = setCondition(instance.Status.Conditions, aetherv1alpha1.ConditionDeploymentReady, metav1.ConditionFalse, "RollingOut", "Waiting for Deployment to become ready", gen)
		return ctrl.Result{RequeueAfter: requeueWaitingForWork}, nil
	}
	instance.Status.Conditions = setCondition(instance.Status.Conditions, aetherv1alpha1.ConditionDeploymentReady, metav1.ConditionTrue, "Ready", "Deployment is ready", gen)

	instance.Status.Phase = aetherv1alpha1.PhaseRunning
	instance.Status.Ready = true
	instance.Status.Endpoint = "https://" + instance.Spec.Hostname
	instance.Status.AdminURL = "https://" + instance.Spec.Hostname + "/admin"
	instance.Status.Conditions = setCondition(instance.Status.Conditions, aetherv1alpha1.ConditionReady, metav1.ConditionTrue, aetherv1alpha1.ReasonStatusUpdated, "Instance is running", gen)
	r.event(instance, corev1.EventTypeNormal, aetherv1alpha1.ReasonStatusUpdated, "Instance is running")

	return ctrl.Result{}, nil
}

// activeApprovedUpgrade looks for an IdentityInstanceUpgrade targeting
// instance whose target_version differs from the live spec and is
// approved. The IdentityInstanceUpgradeReconciler owns patching the
// instance's spec.version; this reconciler only reflects the Upgrading
// phase while that's in flight.
func (r *IdentityInstanceReconciler) activeApprovedUpgrade(ctx context.Context, instance *aetherv1alpha1.IdentityInstance) (bool, string, error) {
	list := &aetherv1alpha1.IdentityInstanceUpgradeList{}
	if err := r.List(ctx, list, client.InNamespace(instance.Namespace)); err != nil {
		return false, "", err
	}
	for i := range list.Items {
		u := &list.Items[i]
		if u.Spec.IdentityInstanceRef.Name != instance.Name {
			continue
		}
		if !u.Spec.Approved {
			continue
		}
		if u.Spec.TargetVersion != instance.Spec.Version {
			continue
		}
		if u.Status.Completed {
			continue
		}
		return true, u.Spec.TargetVersion, nil
	}
	return false, "", nil
}

// reconcileUpgrading reflects an in-flight upgrade onto status without
// mutating spec — the upgrade reconciler owns that side of the handshake.
func (r *IdentityInstanceReconciler) reconcileUpgrading(ctx context.Context, instance *aetherv1alpha1.IdentityInstance, targetVersion string, logger interface{ Info(string, ...any) }) (ctrl.Result, error) {
	instance.Status.Phase = aetherv1alpha1.PhaseUpgrading
	instance.Status.Conditions = setCondition(instance.Status.Conditions, aetherv1alpha1.ConditionReady, metav1.ConditionFalse, aetherv1alpha1.ReasonUpgradeInProgress, fmt.Sprintf("Upgrading to %s", targetVersion), instance.Generation)
	r.event(instance, corev1.EventTypeNormal, aetherv1alpha1.ReasonUpgradeInProgress, fmt.Sprintf("Upgrading to %s", targetVersion))
	if err := r.patchStatus(ctx, instance, logger); err != nil {
		return ctrl.Result{RequeueAfter: requeueOnError}, err
	}
	return ctrl.Result{RequeueAfter: requeueWaitingForWork}, nil
}

// reconcileTerminating deletes the Deployment, Service, and admin secret
// owned by instance, then removes the finalizer so the API server can
// garbage-collect the object (spec §4.6's Terminating row).
func (r *IdentityInstanceReconciler) reconcileTerminating(ctx context.Context, instance *aetherv1alpha1.IdentityInstance) (ctrl.Result, error) {
	if !controllerutil.ContainsFinalizer(instance, Finalizer) {
		return ctrl.Result{}, nil
	}

	objs := []client.Object{
		&appsv1.Deployment{ObjectMeta: metav1.ObjectMeta{Name: appName(instance), Namespace: instance.Namespace}},
		&corev1.Service{ObjectMeta: metav1.ObjectMeta{Name: appName(instance), Namespace: instance.Namespace}},
		&corev1.Secret{ObjectMeta: metav1.ObjectMeta{Name: adminSecretName(instance), Namespace: instance.Namespace}},
	}
	for _, obj := range objs {
		if err := r.Delete(ctx, obj); err != nil && !apierrors.IsNotFound(err) {
			return ctrl.Result{RequeueAfter: requeueOnError}, fmt.Errorf("deleting %T during cleanup: %w", obj, err)
		}
	}

	controllerutil.RemoveFinalizer(instance, Finalizer)
	if err := r.Update(ctx, instance); err != nil {
		return ctrl.Result{RequeueAfter: requeueOnError}, fmt.Errorf("removing finalizer: %w", err)
	}
	return ctrl.Result{}, nil
}

// patchStatus writes instance.Status back to the API server, skipping the
// call entirely when the desired status is byte-equal to what's already
// stored — spec §4.6's idempotent diff-before-patch rule.
func (r *IdentityInstanceReconciler) patchStatus(ctx context.Context, instance *aetherv1alpha1.IdentityInstance, logger interface{ Info(string, ...any) }) error {
	current := &aetherv1alpha1.IdentityInstance{}
	if err := r.Get(ctx, client.ObjectKeyFromObject(instance), current); err != nil {
		return client.IgnoreNotFound(err)
	}
	if statusEqual(current.Status, instance.Status) {
		return nil
	}
	now := metav1.Now()
	instance.Status.LastUpdated = &now
	instance.Status.ObservedGeneration = instance.Generation
	current.Status = instance.Status
	if err := r.Status().Update(ctx, current); err != nil {
		return fmt.Errorf("patching status: %w", err)
	}
	logger.Info("status updated", "phase", instance.Status.Phase, "ready", instance.Status.Ready)
	return nil
}

func statusEqual(a, b aetherv1alpha1.IdentityInstanceStatus) bool {
	a.LastUpdated, b.LastUpdated = nil, nil
	a.ObservedGeneration, b.ObservedGeneration = 0, 0
	if a.Phase != b.Phase || a.Ready != b.Ready || a.Endpoint != b.Endpoint || a.AdminURL != b.AdminURL || a.Error != b.Error {
		return false
	}
	if len(a.Conditions) != len(b.Conditions) {
		return false
	}
	for i := range a.Conditions {
		if a.Conditions[i].Type != b.Conditions[i].Type ||
			a.Conditions[i].Status != b.Conditions[i].Status ||
			a.Conditions[i].Reason != b.Conditions[i].Reason {
			return false
		}
	}
	return true
}

func (r *IdentityInstanceReconciler) event(instance *aetherv1alpha1.IdentityInstance, eventType, reason, message string) {
	if r.Recorder == nil {
		return
	}
	r.Recorder.Event(instance, eventType, reason, message)
}

// SetupWithManager registers this reconciler, watching the CRD plus every
// Kubernetes kind it owns so external edits (or CNPG status changes) wake
// reconciliation immediately instead of waiting for the next poll.
func (r *IdentityInstanceReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&aetherv1alpha1.IdentityInstance{}).
		Owns(&appsv1.Deployment{}).
		Owns(&corev1.Service{}).
		Owns(&corev1.Secret{}).
		Complete(r)
}
