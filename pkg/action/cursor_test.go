package action

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	id := uuid.New()

	encoded := EncodeCursor(now, id)
	assert.Contains(t, encoded, "|")

	gotTime, gotID, err := DecodeCursor(encoded)
	require.NoError(t, err)
	assert.True(t, now.Equal(gotTime))
	assert.Equal(t, id, gotID)
}

func TestDecodeCursorRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"no-pipe-here",
		"not-a-timestamp|" + uuid.New().String(),
		time.Now().Format(time.RFC3339Nano) + "|not-a-uuid",
	}
	for _, c := range cases {
		_, _, err := DecodeCursor(c)
		assert.Error(t, err)
	}
}
