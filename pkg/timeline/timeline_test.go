package timeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// value is a Property that counts writes.
type value struct {
	v      float64
	writes int
}

func (p *value) Get() float64  { return p.v }
func (p *value) Set(v float64) { p.v = v; p.writes++ }

type props map[string]*value

func (m props) Bind(path string) (Property, error) {
	p, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}
	return p, nil
}

func TestScenarioAPositionAcrossGroups(t *testing.T) {
	x := &value{v: 0.3}
	tl, err := New([]Group{
		{Start: 0, End: 0.5, Ease: "linear", Targets: []Target{{Path: "actor.position.x", End: -0.5}}},
		{Start: 0.5, End: 1, Ease: "linear", Targets: []Target{{Path: "actor.position.x", End: 0.5}}},
	}, props{"actor.position.x": x})
	require.NoError(t, err)

	tl.Apply(0.25)
	assert.InDelta(t, -0.1, x.v, 1e-12)

	tl.Apply(0.75)
	assert.InDelta(t, 0, x.v, 1e-12)

	tl.Apply(1)
	assert.InDelta(t, 0.5, x.v, 1e-12)
}

func TestScenarioBViewHeight(t *testing.T) {
	height := &value{v: 0}
	tl, err := New([]Group{
		{Start: 0.5, End: 1, Ease: "linear", Targets: []Target{{Path: "views.wire.height", End: 1}}},
	}, props{"views.wire.height": height})
	require.NoError(t, err)

	tl.Apply(0.25)
	assert.Equal(t, 0.0, height.v)

	tl.Apply(0.75)
	assert.InDelta(t, 0.5, height.v, 1e-12)
}

func TestClampLaw(t *testing.T) {
	x := &value{v: 2}
	tl, err := New([]Group{
		{Start: 0.2, End: 0.4, Targets: []Target{{Path: "x", End: 5}}},
		{Start: 0.6, End: 0.8, Targets: []Target{{Path: "x", End: -1}}},
	}, props{"x": x})
	require.NoError(t, err)

	for _, s := range []float64{-3, -0.01, 0, 0.1, 0.2} {
		tl.Apply(s)
		assert.Equal(t, 2.0, x.v, "s=%v holds the first group's start pose", s)
	}
	for _, s := range []float64{0.8, 0.9, 1, 1.5, 42} {
		tl.Apply(s)
		assert.Equal(t, -1.0, x.v, "s=%v holds the last group's end pose", s)
	}

	// Between groups the earlier group's end pose holds.
	tl.Apply(0.5)
	assert.Equal(t, 5.0, x.v)
}

func TestRoundTrip(t *testing.T) {
	vals := props{
		"a": {v: 0.3},
		"b": {v: 0},
		"c": {v: 1},
	}
	tl, err := New([]Group{
		{Start: 0, End: 1.0 / 3, Targets: []Target{{Path: "a", End: -0.5}, {Path: "b", End: 1}}},
		{Start: 1.0 / 3, End: 2.0 / 3, Targets: []Target{{Path: "a", End: 0.5}, {Path: "c", End: 0, Ease: "linear"}}},
		{Start: 2.0 / 3, End: 1, Targets: []Target{{Path: "a", End: -0.5}, {Path: "b", End: -1}}},
	}, vals)
	require.NoError(t, err)

	tl.Apply(0)
	start := map[string]float64{}
	for k, v := range vals {
		start[k] = v.v
	}
	assert.Equal(t, 0.3, start["a"])

	tl.Apply(1)
	assert.Equal(t, -0.5, vals["a"].v)
	assert.Equal(t, -1.0, vals["b"].v)
	assert.Equal(t, 0.0, vals["c"].v)

	tl.Apply(0)
	for k, v := range vals {
		assert.Equal(t, start[k], v.v, k)
	}
}

func TestOverlapLastRegisteredWins(t *testing.T) {
	x := &value{}
	tl, err := New([]Group{
		{Start: 0, End: 1, Ease: "linear", Targets: []Target{{Path: "x", End: 10}}},
		{Start: 0, End: 0.5, Ease: "linear", Targets: []Target{{Path: "x", End: -10}}},
	}, props{"x": x})
	require.NoError(t, err)

	tl.Apply(0.25)
	// The second group starts from the value at s=0 and wins the path.
	assert.InDelta(t, -5, x.v, 1e-12)
	assert.Equal(t, 1, x.writes, "each path is written once per update")

	tl.Apply(0.9)
	assert.Equal(t, -10.0, x.v)
}

func TestOverlapStartsFromCurrentValue(t *testing.T) {
	x := &value{}
	tl, err := New([]Group{
		{Start: 0, End: 0.6, Ease: "linear", Targets: []Target{{Path: "x", End: 10}}},
		{Start: 0.3, End: 0.8, Ease: "linear", Targets: []Target{{Path: "x", End: 0}}},
	}, props{"x": x})
	require.NoError(t, err)

	before, _ := tl.Value("x", 0.2999)
	at, _ := tl.Value("x", 0.3)
	assert.InDelta(t, 5, at, 1e-9)
	assert.InDelta(t, before, at, 1e-2, "no jump where the second group starts")

	tl.Apply(0.55)
	assert.InDelta(t, 2.5, x.v, 1e-9)
	tl.Apply(1)
	assert.Equal(t, 0.0, x.v)
}

func TestDisjointPathsComposeIndependently(t *testing.T) {
	x, y := &value{}, &value{}
	tl, err := New([]Group{
		{Start: 0, End: 1, Ease: "linear", Targets: []Target{{Path: "x", End: 1}}},
		{Start: 0, End: 1, Ease: "linear", Targets: []Target{{Path: "y", End: 2}}},
	}, props{"x": x, "y": y})
	require.NoError(t, err)

	tl.Apply(0.5)
	assert.InDelta(t, 0.5, x.v, 1e-12)
	assert.InDelta(t, 1, y.v, 1e-12)
	assert.Equal(t, []string{"x", "y"}, tl.Paths())
}

func TestGroupsAreSortedByStart(t *testing.T) {
	x := &value{v: 0}
	tl, err := New([]Group{
		{Start: 0.5, End: 1, Ease: "linear", Targets: []Target{{Path: "x", End: 2}}},
		{Start: 0, End: 0.5, Ease: "linear", Targets: []Target{{Path: "x", End: 1}}},
	}, props{"x": x})
	require.NoError(t, err)

	assert.Equal(t, 0.0, tl.Groups()[0].Start)
	tl.Apply(0.75)
	assert.InDelta(t, 1.5, x.v, 1e-12)
}

func TestNewValidation(t *testing.T) {
	binder := props{"x": {}}
	tests := []struct {
		name  string
		group Group
		err   error
	}{
		{"reversed", Group{Start: 0.6, End: 0.2}, ErrInterval},
		{"empty", Group{Start: 0.5, End: 0.5}, ErrInterval},
		{"beyond one", Group{Start: 0.5, End: 1.5}, ErrInterval},
		{"negative", Group{Start: -0.1, End: 0.5}, ErrInterval},
		{"bad ease", Group{Start: 0, End: 1, Ease: "bounce.wobble", Targets: []Target{{Path: "x"}}}, ErrUnknownEase},
		{"bad path", Group{Start: 0, End: 1, Targets: []Target{{Path: "nope"}}}, ErrUnknownPath},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New([]Group{tc.group}, binder)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestValueAndReset(t *testing.T) {
	x := &value{v: 1}
	tl, err := New([]Group{{Start: 0, End: 1, Ease: "linear", Targets: []Target{{Path: "x", End: 3}}}}, props{"x": x})
	require.NoError(t, err)

	v, ok := tl.Value("x", 0.5)
	assert.True(t, ok)
	assert.InDelta(t, 2, v, 1e-12)
	assert.Equal(t, 0, x.writes)

	_, ok = tl.Value("y", 0.5)
	assert.False(t, ok)

	tl.Apply(1)
	p, applied := tl.Progress()
	assert.True(t, applied)
	assert.Equal(t, 1.0, p)

	tl.Reset()
	assert.Equal(t, 1.0, x.v)
	_, applied = tl.Progress()
	assert.False(t, applied)
}
