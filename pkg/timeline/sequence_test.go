package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceNormalizesOffsets(t *testing.T) {
	seq := NewSequence(1, DefaultEase).
		To(0, Target{Path: "x", End: -0.5}).
		To(1, Target{Path: "x", End: 0.5}).
		Add(Tween{At: 1, Ease: "linear", Targets: []Target{{Path: "h", End: 1}}}).
		To(2, Target{Path: "x", End: -0.5})

	assert.Equal(t, 3.0, seq.Length())

	groups, err := seq.Groups()
	require.NoError(t, err)
	require.Len(t, groups, 4)

	assert.Equal(t, 0.0, groups[0].Start)
	assert.InDelta(t, 1.0/3, groups[0].End, 1e-12)
	assert.InDelta(t, 1.0/3, groups[2].Start, 1e-12)
	assert.Equal(t, "linear", groups[2].Ease)
	assert.Equal(t, DefaultEase, groups[1].Ease)
	assert.Equal(t, 1.0, groups[3].End)
}

func TestSequenceBuild(t *testing.T) {
	x := &value{v: 0.3}
	tl, err := NewSequence(1, "linear").
		To(0, Target{Path: "x", End: -0.5}).
		Add(Tween{At: 1, Duration: 1, Targets: []Target{{Path: "x", End: 0.5}}}).
		Build(props{"x": x})
	require.NoError(t, err)

	tl.Apply(0.25)
	assert.InDelta(t, -0.1, x.v, 1e-12)
}

func TestSequenceRejectsNegativeOffsets(t *testing.T) {
	_, err := NewSequence(0, "").Add(Tween{At: -1}).Groups()
	assert.ErrorIs(t, err, ErrInterval)

	s := NewSequence(0, "")
	assert.Equal(t, 1.0, s.DefaultDuration)
}
