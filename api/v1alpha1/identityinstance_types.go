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
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Provider selects which identity-provider image the operator materialises.
type Provider string

const (
	ProviderKeycloak  Provider = "keycloak"
	ProviderFerrisKey Provider = "ferriskey"
)

// DatabaseMode selects how the instance's Postgres database is sourced.
type DatabaseMode string

const (
	// DatabaseModeManagedCluster provisions a CNPG Cluster owned by this
	// IdentityInstance.
	DatabaseModeManagedCluster DatabaseMode = "ManagedCluster"
	// DatabaseModeUnmanaged points at a pre-existing database the operator
	// does not provision or own.
	DatabaseModeUnmanaged DatabaseMode = "Unmanaged"
)

// StorageSpec describes the PVC requested for a managed CNPG cluster.
type StorageSpec struct {
	// Size is a Kubernetes quantity string, e.g. "10Gi".
	Size string `json:"size"`
	// StorageClass overrides the cluster default storage class.
	// +optional
	StorageClass *string `json:"storageClass,omitempty"`
}

// ManagedClusterSpec describes the CNPG Cluster the operator should
// server-side-apply for a ManagedCluster database.
type ManagedClusterSpec struct {
	// Instances is the number of CNPG cluster replicas (1 = single instance).
	// +kubebuilder:validation:Minimum=1
	Instances int32 `json:"instances"`
	// Storage configures the data volume.
	Storage StorageSpec `json:"storage"`
	// Resources is applied to the CNPG cluster's Postgres containers.
	// +optional
	Resources corev1.ResourceRequirements `json:"resources,omitempty"`
}

// UnmanagedDatabaseSpec points at an externally-provisioned database.
type UnmanagedDatabaseSpec struct {
	Host string `json:"host"`
	// +kubebuilder:default=5432
	Port int32  `json:"port,omitempty"`
	Name string `json:"name"`
	// CredentialsSecret is the name of a Secret in the same namespace
	// carrying `user`/`password` keys.
	CredentialsSecret string `json:"credentialsSecret"`
}

// DatabaseSpec is the union of the managed and unmanaged database shapes;
// exactly one of ManagedCluster/Unmanaged is populated per Mode.
type DatabaseSpec struct {
	Mode DatabaseMode `json:"mode"`
	// +optional
	ManagedCluster *ManagedClusterSpec `json:"managedCluster,omitempty"`
	// +optional
	Unmanaged *UnmanagedDatabaseSpec `json:"unmanaged,omitempty"`
}

// IdentityInstanceSpec defines the desired state of an identity-provider
// deployment (spec §4.6).
type IdentityInstanceSpec struct {
	// OrganisationID is the owning Organisation's UUID, as recorded in the
	// control plane's deployments table.
	OrganisationID string `json:"organisationId"`
	// +kubebuilder:validation:Enum=keycloak;ferriskey
	Provider Provider `json:"provider"`
	Version  string   `json:"version"`
	Hostname string   `json:"hostname"`
	Database DatabaseSpec `json:"database"`
}

// Phase is the coarse-grained lifecycle state reported on status.
type Phase string

const (
	PhasePending   Phase = "Pending"
	PhaseDeploying Phase = "Deploying"
	PhaseRunning   Phase = "Running"
	PhaseUpdating  Phase = "Updating"
	PhaseUpgrading Phase = "Upgrading"
	PhaseMaintenance Phase = "Maintenance"
	PhaseFailed    Phase = "Failed"
	PhaseDeleting  Phase = "Deleting"
	PhaseTerminated Phase = "Terminated"
)

// Condition reason values emitted alongside status transitions (spec §4.6).
const (
	ReasonStatusUpdated          = "StatusUpdated"
	ReasonUpgradePendingApproval = "UpgradePendingApproval"
	ReasonUpgradeInProgress      = "UpgradeInProgress"
	ReasonUpgradeCompleted       = "UpgradeCompleted"
)

// Condition types this operator sets on IdentityInstance.Status.Conditions.
const (
	ConditionDatabaseReady  = "DatabaseReady"
	ConditionSecretsReady   = "SecretsReady"
	ConditionDeploymentReady = "DeploymentReady"
	ConditionReady          = "Ready"
)

// IdentityInstanceStatus defines the observed state of an IdentityInstance.
type IdentityInstanceStatus struct {
	// +optional
	Phase Phase `json:"phase,omitempty"`
	// +optional
	Ready bool `json:"ready,omitempty"`
	// +optional
	Endpoint string `json:"endpoint,omitempty"`
	// +optional
	AdminURL string `json:"adminUrl,omitempty"`
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
	// +optional
	LastUpdated *metav1.Time `json:"lastUpdated,omitempty"`
	// +optional
	Error string `json:"error,omitempty"`
	// ObservedGeneration is the generation most recently acted on.
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:resource:shortName=ii
//+kubebuilder:printcolumn:name="Provider",type=string,JSONPath=`.spec.provider`
//+kubebuilder:printcolumn:name="Version",type=string,JSONPath=`.spec.version`
//+kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
//+kubebuilder:printcolumn:name="Ready",type=boolean,JSONPath=`.status.ready`
//+kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// IdentityInstance is the Schema for the identityinstances API. It
// represents one identity-provider deployment materialised onto a data
// plane cluster.
type IdentityInstance struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   IdentityInstanceSpec   `json:"spec,omitempty"`
	Status IdentityInstanceStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// IdentityInstanceList contains a list of IdentityInstance.
type IdentityInstanceList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []IdentityInstance `json:"items"`
}

func init() {
	SchemeBuilder.Register(&IdentityInstance{}, &IdentityInstanceList{})
}
