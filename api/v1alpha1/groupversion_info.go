// Package v1alpha1 contains API Schema definitions for the aether.dev v1alpha
// API group: IdentityInstance and IdentityInstanceUpgrade, the two CRDs the
// operator reconciles (spec §4.6).
// +kubebuilder:object:generate=true
// +groupName=aether.dev
package v1alpha1

import (
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/scheme"
)

var (
	// GroupVersion is group version used to register these objects.
	GroupVersion = schema.GroupVersion{Group: "aether.dev", Version: "v1alpha"}

	// SchemeBuilder is used to add go types to the GroupVersionKind scheme.
	SchemeBuilder = &scheme.Builder{GroupVersion: GroupVersion}

	// AddToScheme adds the types in this group-version to the given scheme.
	AddToScheme = SchemeBuilder.AddToScheme
)
