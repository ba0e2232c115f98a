/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// UpgradeStrategy is the rollout strategy applied by the upgrade reconciler.
// Rolling is the only strategy the source implements; the field is kept so
// a future strategy can be added without a schema break.
type UpgradeStrategy string

const (
	UpgradeStrategyRolling UpgradeStrategy = "Rolling"
)

// IdentityInstanceRef names the target instance by name, in the same
// namespace as the IdentityInstanceUpgrade object.
type IdentityInstanceRef struct {
	Name string `json:"name"`
}

// IdentityInstanceUpgradeSpec defines the desired upgrade of an
// IdentityInstance to a new version.
type IdentityInstanceUpgradeSpec struct {
	IdentityInstanceRef IdentityInstanceRef `json:"identityInstanceRef"`
	TargetVersion       string              `json:"targetVersion"`
	// +kubebuilder:default=Rolling
	Strategy UpgradeStrategy `json:"strategy,omitempty"`
	// Approved gates the reconciler: no mutation happens until an operator
	// sets this true.
	Approved bool `json:"approved"`
}

// IdentityInstanceUpgradeStatus defines the observed state of an upgrade.
type IdentityInstanceUpgradeStatus struct {
	// +optional
	Phase Phase `json:"phase,omitempty"`
	// +optional
	Completed bool `json:"completed,omitempty"`
	// +optional
	CurrentVersion string `json:"currentVersion,omitempty"`
	// +optional
	TargetVersion string `json:"targetVersion,omitempty"`
	// +optional
	StartedAt *metav1.Time `json:"startedAt,omitempty"`
	// +optional
	CompletedAt *metav1.Time `json:"completedAt,omitempty"`
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
	// +optional
	Message string `json:"message,omitempty"`
	// +optional
	Error string `json:"error,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:resource:shortName=iiu
//+kubebuilder:printcolumn:name="Target",type=string,JSONPath=`.spec.targetVersion`
//+kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
//+kubebuilder:printcolumn:name="Completed",type=boolean,JSONPath=`.status.completed`
//+kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// IdentityInstanceUpgrade is the Schema for the identityinstanceupgrades
// API. Creating one (with approved=true) drives an in-place version bump
// of the referenced IdentityInstance.
type IdentityInstanceUpgrade struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   IdentityInstanceUpgradeSpec   `json:"spec,omitempty"`
	Status IdentityInstanceUpgradeStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// IdentityInstanceUpgradeList contains a list of IdentityInstanceUpgrade.
type IdentityInstanceUpgradeList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []IdentityInstanceUpgrade `json:"items"`
}

func init() {
	SchemeBuilder.Register(&IdentityInstanceUpgrade{}, &IdentityInstanceUpgradeList{})
}
