package stage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/splitscroll/pkg/config"
	"github.com/taigrr/splitscroll/pkg/math3d"
	"github.com/taigrr/splitscroll/pkg/models"
	"github.com/taigrr/splitscroll/pkg/scroll"
	"github.com/taigrr/splitscroll/pkg/timeline"
)

// panel is a double-sided square so it draws whichever way it faces.
func panel() *models.Mesh {
	m := models.NewMesh("panel")
	for _, p := range []math3d.Vec3{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}} {
		m.Vertices = append(m.Vertices, models.MeshVertex{Position: p, Normal: math3d.V3(0, 0, 1)})
	}
	m.Faces = []models.Face{
		{V: [3]int{0, 1, 2}, Material: -1},
		{V: [3]int{0, 2, 3}, Material: -1},
		{V: [3]int{0, 2, 1}, Material: -1},
		{V: [3]int{0, 3, 2}, Material: -1},
	}
	m.CalculateBounds()
	return m
}

var panelLoader = models.LoaderFunc(func(context.Context, string) (*models.Mesh, error) {
	return panel(), nil
})

var failingLoader = models.LoaderFunc(func(context.Context, string) (*models.Mesh, error) {
	return nil, errors.New("no such file")
})

func immediateConfig() *config.Config {
	cfg := config.Default()
	cfg.Scroll.Scrub = 0
	return cfg
}

func newLoadedStage(t *testing.T, opts Options) *Stage {
	t.Helper()
	if opts.Config == nil {
		opts.Config = immediateConfig()
	}
	if opts.Loader == nil {
		opts.Loader = panelLoader
	}
	s, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	require.NoError(t, s.Resize(40, 20))
	require.NoError(t, s.Start(context.Background()))
	s.Wait()
	return s
}

func TestStageAttachesAfterLoad(t *testing.T) {
	s := newLoadedStage(t, Options{})

	assert.Equal(t, scroll.Attached, s.Stats().State)
	a, ok := s.Actor("spaceship")
	require.True(t, ok)
	assert.Len(t, a.Instances(), 2)
	assert.InDelta(t, 0.3, a.Position().X, 1e-9, "initial pose")
	assert.NotNil(t, s.Timeline())
}

func TestStageScrollDrivesActorsAndViews(t *testing.T) {
	s := newLoadedStage(t, Options{})
	a, _ := s.Actor("spaceship")

	s.ScrollTo(0.5)
	s.Frame()
	wire := s.Views().Views()[1]
	assert.InDelta(t, 0.5, wire.Height, 1e-9, "wire pane is half way up")
	rect, err := s.Views().Rect(1)
	require.NoError(t, err)
	assert.Equal(t, 20, rect.H, "half of the 40 pixel surface")
	assert.False(t, a.Diverged())

	s.End()
	s.Frame()
	assert.InDelta(t, -0.5, a.Position().X, 1e-9)
	assert.InDelta(t, -0.1, a.Position().Y, 1e-9)
	assert.InDelta(t, 0.0, wire.Height, 1e-9)
	assert.InDelta(t, 1.0, wire.Bottom, 1e-9)
	assert.False(t, a.Diverged())

	s.Home()
	s.Frame()
	assert.InDelta(t, 0.3, a.Position().X, 1e-9, "round trip returns to the start pose")
	assert.InDelta(t, 0.0, wire.Height, 1e-9)
	assert.InDelta(t, 0.0, wire.Bottom, 1e-9)
}

func TestStageReducedMotionNeverAttaches(t *testing.T) {
	s := newLoadedStage(t, Options{ReducedMotion: true})
	a, ok := s.Actor("spaceship")
	require.True(t, ok, "actors are still created")

	for _, f := range []float64{0.25, 0.75, 1} {
		s.ScrollTo(f)
		s.Frame()
	}
	assert.Equal(t, scroll.Inactive, s.Stats().State)
	assert.InDelta(t, 0.3, a.Position().X, 1e-9)
	assert.Equal(t, 0.0, s.Views().Views()[1].Height)
}

func TestStageDisposeFreezesPose(t *testing.T) {
	s := newLoadedStage(t, Options{})
	a, _ := s.Actor("spaceship")

	s.ScrollTo(0.25)
	s.Frame()
	frozen := a.Position()

	s.ToggleReducedMotion()
	assert.Equal(t, scroll.Disposed, s.Stats().State)

	s.End()
	s.Frame()
	assert.Equal(t, frozen, a.Position())

	s.SetReducedMotion(false)
	assert.Equal(t, scroll.Disposed, s.Stats().State)
}

func TestStageAllAssetsFail(t *testing.T) {
	s := newLoadedStage(t, Options{Loader: failingLoader})

	st := s.Stats()
	assert.Equal(t, scroll.Inactive, st.State)
	assert.Equal(t, 0, st.Ready)
	assert.Nil(t, s.Timeline())
	assert.ErrorIs(t, s.Failed(), ErrAssetLoad)

	s.ScrollTo(0.5)
	assert.NotPanics(t, s.Frame)
	assert.Equal(t, 2, s.Renderer().DrawCalls, "frames keep rendering")

	fb := s.Framebuffer()
	bg := rgb(config.Default().Background)
	assert.Equal(t, bg, fb.GetPixel(0, 0))
	assert.Equal(t, bg, fb.GetPixel(20, 20))
}

func TestStageDrawsModel(t *testing.T) {
	s := newLoadedStage(t, Options{})
	s.Frame()

	fb := s.Framebuffer()
	bg := rgb(config.Default().Background)
	lit := 0
	for _, p := range fb.Pixels {
		if p != bg {
			lit++
		}
	}
	assert.Greater(t, lit, 0)
	assert.Greater(t, s.Stats().Triangles, 0)
}

func TestStageDegenerateResize(t *testing.T) {
	s := newLoadedStage(t, Options{})
	aspect := s.Views().Aspect()

	err := s.Resize(0, 20)
	assert.ErrorIs(t, err, ErrDegenerateViewport)
	assert.Equal(t, aspect, s.Views().Aspect())
	assert.NotPanics(t, s.Frame)

	require.NoError(t, s.Resize(80, 24))
	assert.InDelta(t, 80.0/48.0, s.Views().Aspect(), 1e-12)
}

func TestStageZeroHeightKeepsProgress(t *testing.T) {
	s := newLoadedStage(t, Options{})
	s.ScrollTo(0.5)
	before := s.Stats()
	require.InDelta(t, 0.5, before.Scroll, 1e-9)

	assert.ErrorIs(t, s.Resize(40, 0), ErrDegenerateViewport)
	assert.InDelta(t, 0.5, s.Stats().Progress, 1e-9, "collapsed viewport leaves the story in place")

	require.NoError(t, s.Resize(40, 20))
	st := s.Stats()
	assert.InDelta(t, before.Scroll, st.Scroll, 1e-9)
	assert.InDelta(t, before.Progress, st.Progress, 1e-9)
}

func TestStageDefaultLoaderReadsFiles(t *testing.T) {
	cfg := immediateConfig()
	for i := range cfg.Models {
		cfg.Models[i].Path = filepath.Join(t.TempDir(), "missing.glb")
	}
	s, err := New(Options{Config: cfg})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	require.NoError(t, s.Resize(40, 20))
	require.NoError(t, s.Start(context.Background()))
	s.Wait()

	assert.ErrorIs(t, s.Failed(), ErrAssetLoad)
	assert.Equal(t, scroll.Inactive, s.Stats().State)
	assert.NotPanics(t, s.Frame)
}

func TestStageMissingActorBindsDetached(t *testing.T) {
	cfg := immediateConfig()
	cfg.Models = append(cfg.Models, config.Model{Name: "cybertruck", Path: "missing.glb"})
	cfg.Actors = append(cfg.Actors, config.Actor{Name: "cybertruck"})
	cfg.Timeline.Tweens = append(cfg.Timeline.Tweens,
		config.Tween{At: 0, To: map[string]float64{"cybertruck.position.y": 1}})

	loader := models.LoaderFunc(func(ctx context.Context, path string) (*models.Mesh, error) {
		if path == "missing.glb" {
			return nil, errors.New("no such file")
		}
		return panel(), nil
	})
	s := newLoadedStage(t, Options{Config: cfg, Loader: loader})

	assert.Equal(t, scroll.Attached, s.Stats().State)
	assert.Equal(t, 1, s.Stats().Ready)
	assert.ErrorIs(t, s.Failed(), ErrAssetLoad)
	_, ok := s.Actor("cybertruck")
	assert.False(t, ok)
}

func TestStageReload(t *testing.T) {
	s := newLoadedStage(t, Options{})
	a, _ := s.Actor("spaceship")
	s.End()
	s.Frame()

	cfg := immediateConfig()
	cfg.Timeline.Tweens = []config.Tween{{At: 0, To: map[string]float64{"spaceship.position.x": 2}}}
	require.NoError(t, s.Reload(cfg))
	assert.InDelta(t, 2.0, a.Position().X, 1e-9, "new timeline applied at current progress")

	s.Home()
	s.Frame()
	assert.InDelta(t, 0.3, a.Position().X, 1e-9, "start pose survives reload")

	bad := immediateConfig()
	bad.Timeline.Tweens = []config.Tween{{At: 0, To: map[string]float64{"ghost.position.x": 1}}}
	assert.ErrorIs(t, s.Reload(bad), timeline.ErrUnknownPath)
	assert.InDelta(t, 0.3, a.Position().X, 1e-9, "failed reload keeps the pose")
}

func TestStageRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Views = nil
	_, err := New(Options{Config: cfg})
	assert.ErrorIs(t, err, config.ErrInvalid)
}
