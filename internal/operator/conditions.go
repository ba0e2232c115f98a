package operator

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/api/meta"
)

// setCondition upserts a condition by type into conditions, returning the
// updated slice. observedGeneration is stamped on every call so stale
// conditions are identifiable across spec changes.
func setCondition(conditions []metav1.Condition, conditionType string, status metav1.ConditionStatus, reason, message string, observedGeneration int64) []metav1.Condition {
	cond := metav1.Condition{
		Type:               conditionType,
		Status:             status,
		Reason:             reason,
		Message:            message,
		ObservedGeneration: observedGeneration,
	}
	meta.SetStatusCondition(&conditions, cond)
	return conditions
}
