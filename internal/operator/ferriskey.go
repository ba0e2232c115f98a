package operator

import (
	"context"

	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"

	aetherv1alpha1 "github.com/aetherhq/control-plane/api/v1alpha1"
)

// reconcileFerrisKey is the registered handler for
// Spec.Provider == ferriskey. The source treats FerrisKey as an explicit
// placeholder — no CNPG cluster, no workload, just a logged warning — so a
// rewrite should do the same rather than silently falling through to the
// keycloak path.
func (r *IdentityInstanceReconciler) reconcileFerrisKey(ctx context.Context, instance *aetherv1alpha1.IdentityInstance) (ctrl.Result, error) {
	log.FromContext(ctx).Info("ferriskey provider is a placeholder; no workload will be materialised", "instance", instance.Name)
	instance.Status.Phase = aetherv1alpha1.PhaseMaintenance
	instance.Status.Ready = false
	return ctrl.Result{}, nil
}
