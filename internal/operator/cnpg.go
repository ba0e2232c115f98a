package operator

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	aetherv1alpha1 "github.com/aetherhq/control-plane/api/v1alpha1"
)

// cnpgGroupVersion is CloudNativePG's CRD group. The operator has no
// generated Go client for it — CNPG is an external operator this one only
// talks to through its CRD surface — so every interaction goes through
// unstructured.Unstructured and the controller-runtime dynamic client,
// the same pattern DriftDetector in the kubilitics addon reconciler uses
// for resources it doesn't own a typed client for.
var cnpgClusterGVK = schema.GroupVersionKind{
	Group:   "postgresql.cnpg.io",
	Version: "v1",
	Kind:    "Cluster",
}

const fieldOwner = client.FieldOwner("aether-operator")

// cnpgClusterName is the deterministic name of the CNPG Cluster owned by
// instance, per spec §4.6 ("name = {instance}-db").
func cnpgClusterName(instance *aetherv1alpha1.IdentityInstance) string {
	return instance.Name + "-db"
}

// applyCNPGCluster server-side-applies the CNPG Cluster backing instance's
// managed database and sets instance as its controller owner.
func (r *IdentityInstanceReconciler) applyCNPGCluster(ctx context.Context, instance *aetherv1alpha1.IdentityInstance) error {
	spec := instance.Spec.Database.ManagedCluster
	if spec == nil {
		return fmt.Errorf("database.managedCluster is required when database.mode=ManagedCluster")
	}

	storage := map[string]interface{}{"size": spec.Storage.Size}
	if spec.Storage.StorageClass != nil {
		storage["storageClass"] = *spec.Storage.StorageClass
	}

	cluster := &unstructured.Unstructured{}
	cluster.SetGroupVersionKind(cnpgClusterGVK)
	cluster.SetName(cnpgClusterName(instance))
	cluster.SetNamespace(instance.Namespace)
	cluster.Object["spec"] = map[string]interface{}{
		"instances": int64(spec.Instances),
		"storage":    storage,
		"bootstrap": map[string]interface{}{
			"initdb": map[string]interface{}{
				"database": "keycloak",
				"owner":    "keycloak",
			},
		},
	}

	if err := controllerutil.SetControllerReference(instance, cluster, r.Scheme); err != nil {
		return fmt.Errorf("setting owner reference on cnpg cluster: %w", err)
	}

	return r.Patch(ctx, cluster, client.Apply, client.ForceOwnership, fieldOwner)
}

// cnpgClusterReady fetches the CNPG Cluster for instance and reports
// whether its Ready condition is True. A not-found cluster reports false,
// not an error — the caller is expected to still be in
// DatabaseProvisioning.
func (r *IdentityInstanceReconciler) cnpgClusterReady(ctx context.Context, instance *aetherv1alpha1.IdentityInstance) (bool, error) {
	cluster := &unstructured.Unstructured{}
	cluster.SetGroupVersionKind(cnpgClusterGVK)
	err := r.Get(ctx, types.NamespacedName{Name: cnpgClusterName(instance), Namespace: instance.Namespace}, cluster)
	if apierrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("getting cnpg cluster: %w", err)
	}

	conditions, found, err := unstructured.NestedSlice(cluster.Object, "status", "conditions")
	if err != nil || !found {
		return false, nil
	}
	for _, c := range conditions {
		cond, ok := c.(map[string]interface{})
		if !ok {
			continue
		}
		if cond["type"] == "Ready" && cond["status"] == "True" {
			return true, nil
		}
	}
	return false, nil
}

// cnpgAppSecretName is the Secret CNPG projects the app-user credentials
// into, named "{cluster}-app" by CNPG convention.
func cnpgAppSecretName(instance *aetherv1alpha1.IdentityInstance) string {
	return cnpgClusterName(instance) + "-app"
}

// fetchCNPGAppSecret reads the CNPG-managed app credentials secret.
func (r *IdentityInstanceReconciler) fetchCNPGAppSecret(ctx context.Context, instance *aetherv1alpha1.IdentityInstance) (*corev1.Secret, error) {
	secret := &corev1.Secret{}
	err := r.Get(ctx, types.NamespacedName{Name: cnpgAppSecretName(instance), Namespace: instance.Namespace}, secret)
	if err != nil {
		return nil, err
	}
	return secret, nil
}
