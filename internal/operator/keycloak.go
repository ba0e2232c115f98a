package operator

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/intstr"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	aetherv1alpha1 "github.com/aetherhq/control-plane/api/v1alpha1"
)

const (
	keycloakHealthPort  = 9000
	keycloakServicePort = 80
	keycloakAdminPort   = 8080
)

func keycloakImage(version string) string {
	return fmt.Sprintf("quay.io/keycloak/keycloak:%s", version)
}

func appName(instance *aetherv1alpha1.IdentityInstance) string { return instance.Name }

func dbCredentialsSecretName(instance *aetherv1alpha1.IdentityInstance) string {
	return instance.Name + "-db-credentials"
}

func adminSecretName(instance *aetherv1alpha1.IdentityInstance) string {
	return instance.Name + "-admin"
}

// desiredKeycloakDeployment builds the Deployment spec §4.6's Deploying
// state server-side-applies: image from instance.Spec.Version, the
// start-dev command, credentials sourced from the two projected secrets,
// and the three keycloak management-port probes.
func desiredKeycloakDeployment(instance *aetherv1alpha1.IdentityInstance) *appsv1.Deployment {
	labels := map[string]string{
		"app.kubernetes.io/name":       "keycloak",
		"app.kubernetes.io/instance":   instance.Name,
		"app.kubernetes.io/managed-by": "aether-operator",
	}
	replicas := int32(1)

	probe := func(path string) *corev1.Probe {
		return &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				HTTPGet: &corev1.HTTPGetAction{
					Path: path,
					Port: intstr.FromInt(keycloakHealthPort),
				},
			},
			InitialDelaySeconds: 10,
			PeriodSeconds:        10,
			FailureThreshold:     30,
		}
	}

	envFromSecret := func(name, key, secret string) corev1.EnvVar {
		return corev1.EnvVar{
			Name: name,
			ValueFrom: &corev1.EnvVarSource{
				SecretKeyRef: &corev1.SecretKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{Name: secret},
					Key:                  key,
				},
			},
		}
	}

	dbSecret := dbCredentialsSecretName(instance)
	adminSecret := adminSecretName(instance)

	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      appName(instance),
			Namespace: instance.Namespace,
			Labels:    labels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:  "keycloak",
							Image: keycloakImage(instance.Spec.Version),
							Args:  []string{"start-dev", "--health-enabled=true"},
							Env: []corev1.EnvVar{
								envFromSecret("KC_DB_URL", "jdbc-uri", dbSecret),
								envFromSecret("KC_DB_USERNAME", "user", dbSecret),
								envFromSecret("KC_DB_PASSWORD", "password", dbSecret),
								envFromSecret("KEYCLOAK_ADMIN_PASSWORD", "password", adminSecret),
								{Name: "KEYCLOAK_ADMIN", Value: "admin"},
								{Name: "KC_HOSTNAME", Value: instance.Spec.Hostname},
							},
							Ports: []corev1.ContainerPort{
								{Name: "http", ContainerPort: keycloakAdminPort},
								{Name: "health", ContainerPort: keycloakHealthPort},
							},
							StartupProbe:   probe("/health/started"),
							ReadinessProbe: probe("/health/ready"),
							LivenessProbe:  probe("/health/live"),
							Resources: corev1.ResourceRequirements{
								Requests: corev1.ResourceList{
									corev1.ResourceCPU:    resource.MustParse("250m"),
									corev1.ResourceMemory: resource.MustParse("512Mi"),
								},
							},
						},
					},
				},
			},
		},
	}
}

func desiredKeycloakService(instance *aetherv1alpha1.IdentityInstance) *corev1.Service {
	labels := map[string]string{
		"app.kubernetes.io/name":     "keycloak",
		"app.kubernetes.io/instance": instance.Name,
	}
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      appName(instance),
			Namespace: instance.Namespace,
			Labels:    labels,
		},
		Spec: corev1.ServiceSpec{
			Selector: labels,
			Ports: []corev1.ServicePort{
				{
					Name:       "http",
					Port:       keycloakServicePort,
					TargetPort: intstr.FromInt(keycloakAdminPort),
				},
			},
		},
	}
}

// applyKeycloakWorkload server-side-applies the Deployment and Service for
// instance, owned by instance so they're garbage-collected with it.
func (r *IdentityInstanceReconciler) applyKeycloakWorkload(ctx context.Context, instance *aetherv1alpha1.IdentityInstance) error {
	deploy := desiredKeycloakDeployment(instance)
	if err := controllerutil.SetControllerReference(instance, deploy, r.Scheme); err != nil {
		return fmt.Errorf("setting owner reference on deployment: %w", err)
	}
	if err := r.Patch(ctx, deploy, client.Apply, client.ForceOwnership, fieldOwner); err != nil {
		return fmt.Errorf("applying deployment: %w", err)
	}

	svc := desiredKeycloakService(instance)
	if err := controllerutil.SetControllerReference(instance, svc, r.Scheme); err != nil {
		return fmt.Errorf("setting owner reference on service: %w", err)
	}
	if err := r.Patch(ctx, svc, client.Apply, client.ForceOwnership, fieldOwner); err != nil {
		return fmt.Errorf("applying service: %w", err)
	}
	return nil
}

// keycloakWorkloadReady reports whether the Deployment materialised for
// instance satisfies spec §4.6's Deploying exit condition:
// observedGeneration >= generation, readyReplicas >= 1, availableReplicas >= 1.
func (r *IdentityInstanceReconciler) keycloakWorkloadReady(ctx context.Context, instance *aetherv1alpha1.IdentityInstance) (bool, error) {
	deploy := &appsv1.Deployment{}
	err := r.Get(ctx, types.NamespacedName{Name: appName(instance), Namespace: instance.Namespace}, deploy)
	if err != nil {
		return false, client.IgnoreNotFound(err)
	}
	if deploy.Status.ObservedGeneration < deploy.Generation {
		return false, nil
	}
	return deploy.Status.ReadyReplicas >= 1 && deploy.Status.AvailableReplicas >= 1, nil
}

// keycloakImageTag extracts the version tag the live Deployment is running,
// used by the upgrade reconciler's completion check.
func (r *IdentityInstanceReconciler) keycloakImageTag(ctx context.Context, instance *aetherv1alpha1.IdentityInstance) (string, bool, error) {
	deploy := &appsv1.Deployment{}
	err := r.Get(ctx, types.NamespacedName{Name: appName(instance), Namespace: instance.Namespace}, deploy)
	if client.IgnoreNotFound(err) != nil {
		return "", false, err
	}
	if err != nil {
		return "", false, nil
	}
	if len(deploy.Spec.Template.Spec.Containers) == 0 {
		return "", false, nil
	}
	image := deploy.Spec.Template.Spec.Containers[0].Image
	ready := deploy.Status.ReadyReplicas >= 1
	return image, ready, nil
}
