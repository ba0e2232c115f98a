package dataplane

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcceptsPlacement(t *testing.T) {
	cases := []struct {
		name   string
		status Status
		mode   Mode
		want   bool
	}{
		{"active shared accepts", StatusActive, ModeShared, true},
		{"active dedicated rejects", StatusActive, ModeDedicated, false},
		{"draining shared rejects", StatusDraining, ModeShared, false},
		{"disabled shared rejects", StatusDisabled, ModeShared, false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			d := DataPlane{Status: tt.status, Mode: tt.mode}
			assert.Equal(t, tt.want, d.AcceptsPlacement())
		})
	}
}
