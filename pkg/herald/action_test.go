package herald

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActionKindSynonyms(t *testing.T) {
	cases := map[string]string{
		"Created": "create",
		"UPDATED": "update",
		"deleted": "delete",
		"Upsert":  "upsert",
		" Scale ": "scale",
	}
	for raw, want := range cases {
		got, err := parseActionKind(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestParseActionKindRejectsEmpty(t *testing.T) {
	_, err := parseActionKind("   ")
	assert.Error(t, err)
}

func TestControlPlaneActionNormalize(t *testing.T) {
	a := ControlPlaneAction{
		ID:         uuid.New(),
		Kind:       "deployment.created",
		Payload:    []byte(`{"key":"value"}`),
		OccurredAt: time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC),
	}

	normalized, err := a.normalize()
	require.NoError(t, err)
	assert.Equal(t, RoutingKey("deployment.create"), normalized.RoutingKey)
	assert.Equal(t, a.ID, normalized.ID)
}

func TestControlPlaneActionNormalizeRejectsEmptyResource(t *testing.T) {
	a := ControlPlaneAction{ID: uuid.New(), Kind: ".create"}
	_, err := a.normalize()
	assert.Error(t, err)
}

func TestControlPlaneActionNormalizeFallsBackToTargetKind(t *testing.T) {
	a := ControlPlaneAction{ID: uuid.New(), Resource: "realm", Kind: "updated"}
	normalized, err := a.normalize()
	require.NoError(t, err)
	assert.Equal(t, RoutingKey("realm.update"), normalized.RoutingKey)
}
