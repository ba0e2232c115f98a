package operator

import (
	"context"
	"testing"

	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/stretchr/testify/require"

	aetherv1alpha1 "github.com/aetherhq/control-plane/api/v1alpha1"
)

func newTestUpgrade(instanceName, target string, approved bool) *aetherv1alpha1.IdentityInstanceUpgrade {
	return &aetherv1alpha1.IdentityInstanceUpgrade{
		ObjectMeta: metav1.ObjectMeta{Name: "upgrade-1", Namespace: "aether-system"},
		Spec: aetherv1alpha1.IdentityInstanceUpgradeSpec{
			IdentityInstanceRef: aetherv1alpha1.IdentityInstanceRef{Name: instanceName},
			TargetVersion:       target,
			Strategy:            aetherv1alpha1.UpgradeStrategyRolling,
			Approved:            approved,
		},
	}
}

func TestUpgradeReconcile_PendingApprovalWithoutApproval(t *testing.T) {
	instance := newTestInstance()
	upgrade := newTestUpgrade(instance.Name, "26.0.0", false)
	c := newFakeClient(t, instance, upgrade)
	r := &IdentityInstanceUpgradeReconciler{Client: c, Scheme: newScheme(t)}

	_, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Name: upgrade.Name, Namespace: upgrade.Namespace}})
	require.NoError(t, err)

	got := &aetherv1alpha1.IdentityInstanceUpgrade{}
	require.NoError(t, c.Get(context.Background(), client.ObjectKeyFromObject(upgrade), got))
	require.Equal(t, aetherv1alpha1.PhasePending, got.Status.Phase)
	require.Equal(t, "Waiting for approval", got.Status.Message)
}

func TestUpgradeReconcile_PatchesInstanceVersionWhenApproved(t *testing.T) {
	instance := newTestInstance()
	upgrade := newTestUpgrade(instance.Name, "26.0.0", true)
	c := newFakeClient(t, instance, upgrade)
	r := &IdentityInstanceUpgradeReconciler{Client: c, Scheme: newScheme(t)}

	res, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Name: upgrade.Name, Namespace: upgrade.Namespace}})
	require.NoError(t, err)
	require.Equal(t, requeueWaitingForWork, res.RequeueAfter)

	gotInstance := &aetherv1alpha1.IdentityInstance{}
	require.NoError(t, c.Get(context.Background(), client.ObjectKeyFromObject(instance), gotInstance))
	require.Equal(t, "26.0.0", gotInstance.Spec.Version)

	gotUpgrade := &aetherv1alpha1.IdentityInstanceUpgrade{}
	require.NoError(t, c.Get(context.Background(), client.ObjectKeyFromObject(upgrade), gotUpgrade))
	require.Equal(t, aetherv1alpha1.PhaseUpdating, gotUpgrade.Status.Phase)
}

func TestUpgradeReconcile_CompletesWhenRolloutReachesTarget(t *testing.T) {
	instance := newTestInstance()
	instance.Spec.Version = "26.0.0"
	upgrade := newTestUpgrade(instance.Name, "26.0.0", true)

	deploy := desiredKeycloakDeployment(instance)
	deploy.Status = appsv1.DeploymentStatus{ReadyReplicas: 1}

	c := newFakeClient(t, instance, upgrade, deploy)
	r := &IdentityInstanceUpgradeReconciler{Client: c, Scheme: newScheme(t)}

	res, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Name: upgrade.Name, Namespace: upgrade.Namespace}})
	require.NoError(t, err)
	require.Equal(t, requeueAfterCompletion, res.RequeueAfter)

	got := &aetherv1alpha1.IdentityInstanceUpgrade{}
	require.NoError(t, c.Get(context.Background(), client.ObjectKeyFromObject(upgrade), got))
	require.True(t, got.Status.Completed)
	require.Equal(t, aetherv1alpha1.PhaseRunning, got.Status.Phase)
}

func TestUpgradeReconcile_DeletesAfterCompletion(t *testing.T) {
	instance := newTestInstance()
	upgrade := newTestUpgrade(instance.Name, "26.0.0", true)
	upgrade.Status.Completed = true

	c := newFakeClient(t, instance, upgrade)
	r := &IdentityInstanceUpgradeReconciler{Client: c, Scheme: newScheme(t)}

	_, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Name: upgrade.Name, Namespace: upgrade.Namespace}})
	require.NoError(t, err)

	got := &aetherv1alpha1.IdentityInstanceUpgrade{}
	err = c.Get(context.Background(), client.ObjectKeyFromObject(upgrade), got)
	require.Error(t, err)
}
