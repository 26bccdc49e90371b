package scroll

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFraction(t *testing.T) {
	tests := []struct {
		name           string
		offset, extent float64
		want           float64
	}{
		{"start", 0, 100, 0},
		{"middle", 25, 100, 0.25},
		{"end", 100, 100, 1},
		{"overscroll", 130, 100, 1},
		{"underscroll", -5, 100, 0},
		{"no range", 10, 0, 0},
		{"nan", math.NaN(), 100, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Fraction(tc.offset, tc.extent))
		})
	}
}

func TestTriggerScrolling(t *testing.T) {
	tr := NewTrigger(4)
	tr.Resize(10)
	assert.Equal(t, 30.0, tr.Range())

	assert.InDelta(t, 1.0/3, tr.PageDown(), 1e-12)
	assert.InDelta(t, 0.5, tr.ScrollBy(5), 1e-12)
	assert.Equal(t, 0.0, tr.Home())
	assert.Equal(t, 0.0, tr.PageUp(), "clamped at the top")
	assert.Equal(t, 1.0, tr.End())
	assert.Equal(t, 1.0, tr.ScrollBy(100), "clamped at the bottom")
	assert.InDelta(t, 0.25, tr.SetFraction(0.25), 1e-12)
	assert.InDelta(t, 7.5, tr.Offset(), 1e-12)
}

func TestTriggerResizeKeepsFraction(t *testing.T) {
	tr := NewTrigger(3)
	tr.Resize(20)
	tr.SetFraction(0.6)

	assert.InDelta(t, 0.6, tr.Resize(50), 1e-12)
	assert.InDelta(t, 60, tr.Offset(), 1e-12)

	// A zero-height viewport has no range; progress reads 0 until it grows.
	assert.Equal(t, 0.0, tr.Resize(0))
	assert.Equal(t, 0.0, tr.Viewport())

	// Progress survives the zero-height round trip.
	assert.Equal(t, 0.0, tr.Resize(0))
	assert.InDelta(t, 0.6, tr.Resize(10), 1e-12)
	assert.InDelta(t, 12, tr.Offset(), 1e-12)
}

func TestTriggerSinglePage(t *testing.T) {
	tr := NewTrigger(0.5)
	tr.Resize(10)
	assert.Equal(t, 0.0, tr.Range())
	assert.Equal(t, 0.0, tr.PageDown())
}
