//go:build !ignore_autogenerated

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

// Code generated by hand to mirror controller-gen's object-deepcopy output;
// keep in sync with the types in this package.

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	runtime "k8s.io/apimachinery/pkg/runtime"
)

// DeepCopyInto copies the receiver into out.
func (in *StorageSpec) DeepCopyInto(out *StorageSpec) {
	*out = *in
	if in.StorageClass != nil {
		out.StorageClass = new(string)
		*out.StorageClass = *in.StorageClass
	}
}

// DeepCopy returns a deep copy of StorageSpec.
func (in *StorageSpec) DeepCopy() *StorageSpec {
	if in == nil {
		return nil
	}
	out := new(StorageSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto copies the receiver into out.
func (in *ManagedClusterSpec) DeepCopyInto(out *ManagedClusterSpec) {
	*out = *in
	in.Storage.DeepCopyInto(&out.Storage)
	in.Resources.DeepCopyInto(&out.Resources)
}

// DeepCopy returns a deep copy of ManagedClusterSpec.
func (in *ManagedClusterSpec) DeepCopy() *ManagedClusterSpec {
	if in == nil {
		return nil
	}
	out := new(ManagedClusterSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto copies the receiver into out.
func (in *UnmanagedDatabaseSpec) DeepCopyInto(out *UnmanagedDatabaseSpec) {
	*out = *in
}

// DeepCopy returns a deep copy of UnmanagedDatabaseSpec.
func (in *UnmanagedDatabaseSpec) DeepCopy() *UnmanagedDatabaseSpec {
	if in == nil {
		return nil
	}
	out := new(UnmanagedDatabaseSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto copies the receiver into out.
func (in *DatabaseSpec) DeepCopyInto(out *DatabaseSpec) {
	*out = *in
	if in.ManagedCluster != nil {
		out.ManagedCluster = new(ManagedClusterSpec)
		in.ManagedCluster.DeepCopyInto(out.ManagedCluster)
	}
	if in.Unmanaged != nil {
		out.Unmanaged = new(UnmanagedDatabaseSpec)
		in.Unmanaged.DeepCopyInto(out.Unmanaged)
	}
}

// DeepCopy returns a deep copy of DatabaseSpec.
func (in *DatabaseSpec) DeepCopy() *DatabaseSpec {
	if in == nil {
		return nil
	}
	out := new(DatabaseSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto copies the receiver into out.
func (in *IdentityInstanceSpec) DeepCopyInto(out *IdentityInstanceSpec) {
	*out = *in
	in.Database.DeepCopyInto(&out.Database)
}

// DeepCopy returns a deep copy of IdentityInstanceSpec.
func (in *IdentityInstanceSpec) DeepCopy() *IdentityInstanceSpec {
	if in == nil {
		return nil
	}
	out := new(IdentityInstanceSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto copies the receiver into out.
func (in *IdentityInstanceStatus) DeepCopyInto(out *IdentityInstanceStatus) {
	*out = *in
	if in.Conditions != nil {
		out.Conditions = make([]metav1.Condition, len(in.Conditions))
		for i := range in.Conditions {
			in.Conditions[i].DeepCopyInto(&out.Conditions[i])
		}
	}
	if in.LastUpdated != nil {
		out.LastUpdated = in.LastUpdated.DeepCopy()
	}
}

// DeepCopy returns a deep copy of IdentityInstanceStatus.
func (in *IdentityInstanceStatus) DeepCopy() *IdentityInstanceStatus {
	if in == nil {
		return nil
	}
	out := new(IdentityInstanceStatus)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto copies the receiver into out.
func (in *IdentityInstance) DeepCopyInto(out *IdentityInstance) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy returns a deep copy of IdentityInstance.
func (in *IdentityInstance) DeepCopy() *IdentityInstance {
	if in == nil {
		return nil
	}
	out := new(IdentityInstance)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *IdentityInstance) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver into out.
func (in *IdentityInstanceList) DeepCopyInto(out *IdentityInstanceList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]IdentityInstance, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy returns a deep copy of IdentityInstanceList.
func (in *IdentityInstanceList) DeepCopy() *IdentityInstanceList {
	if in == nil {
		return nil
	}
	out := new(IdentityInstanceList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *IdentityInstanceList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver into out.
func (in *IdentityInstanceRef) DeepCopyInto(out *IdentityInstanceRef) {
	*out = *in
}

// DeepCopy returns a deep copy of IdentityInstanceRef.
func (in *IdentityInstanceRef) DeepCopy() *IdentityInstanceRef {
	if in == nil {
		return nil
	}
	out := new(IdentityInstanceRef)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto copies the receiver into out.
func (in *IdentityInstanceUpgradeSpec) DeepCopyInto(out *IdentityInstanceUpgradeSpec) {
	*out = *in
	out.IdentityInstanceRef = in.IdentityInstanceRef
}

// DeepCopy returns a deep copy of IdentityInstanceUpgradeSpec.
func (in *IdentityInstanceUpgradeSpec) DeepCopy() *IdentityInstanceUpgradeSpec {
	if in == nil {
		return nil
	}
	out := new(IdentityInstanceUpgradeSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto copies the receiver into out.
func (in *IdentityInstanceUpgradeStatus) DeepCopyInto(out *IdentityInstanceUpgradeStatus) {
	*out = *in
	if in.Conditions != nil {
		out.Conditions = make([]metav1.Condition, len(in.Conditions))
		for i := range in.Conditions {
			in.Conditions[i].DeepCopyInto(&out.Conditions[i])
		}
	}
	if in.StartedAt != nil {
		out.StartedAt = in.StartedAt.DeepCopy()
	}
	if in.CompletedAt != nil {
		out.CompletedAt = in.CompletedAt.DeepCopy()
	}
}

// DeepCopy returns a deep copy of IdentityInstanceUpgradeStatus.
func (in *IdentityInstanceUpgradeStatus) DeepCopy() *IdentityInstanceUpgradeStatus {
	if in == nil {
		return nil
	}
	out := new(IdentityInstanceUpgradeStatus)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto copies the receiver into out.
func (in *IdentityInstanceUpgrade) DeepCopyInto(out *IdentityInstanceUpgrade) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy returns a deep copy of IdentityInstanceUpgrade.
func (in *IdentityInstanceUpgrade) DeepCopy() *IdentityInstanceUpgrade {
	if in == nil {
		return nil
	}
	out := new(IdentityInstanceUpgrade)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *IdentityInstanceUpgrade) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver into out.
func (in *IdentityInstanceUpgradeList) DeepCopyInto(out *IdentityInstanceUpgradeList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]IdentityInstanceUpgrade, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy returns a deep copy of IdentityInstanceUpgradeList.
func (in *IdentityInstanceUpgradeList) DeepCopy() *IdentityInstanceUpgradeList {
	if in == nil {
		return nil
	}
	out := new(IdentityInstanceUpgradeList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *IdentityInstanceUpgradeList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}
