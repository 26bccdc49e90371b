package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEaseEndpoints(t *testing.T) {
	for name, e := range eases {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, 0, e(0), 1e-12)
			assert.InDelta(t, 1, e(1), 1e-12)
		})
	}
}

func TestEaseShapes(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{"linear", 0.3, 0.3},
		{"power1.in", 0.5, 0.25},
		{"power2.in", 0.5, 0.125},
		{"power2.out", 0.5, 0.875},
		{"power2.inOut", 0.25, 0.0625},
		{"power2.inOut", 0.5, 0.5},
		{"power2.inOut", 0.75, 0.9375},
		{"sine.inOut", 0.5, 0.5},
		{"power3", 0.5, 0.9375},
	}
	for _, tc := range tests {
		e, err := EaseByName(tc.name)
		require.NoError(t, err, tc.name)
		assert.InDelta(t, tc.want, e(tc.p), 1e-12, "%s(%v)", tc.name, tc.p)
	}
}

func TestEaseByName(t *testing.T) {
	def, err := EaseByName("")
	require.NoError(t, err)
	assert.InDelta(t, 0.0625, def(0.25), 1e-12, "empty name is power2.inOut")

	e, err := EaseByName("power2.inout")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, e(0.5), 1e-12)

	_, err = EaseByName("elastic.out")
	assert.ErrorIs(t, err, ErrUnknownEase)
}
