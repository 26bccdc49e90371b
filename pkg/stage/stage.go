// Package stage assembles a scroll story: it loads the models, builds the
// shaded and wireframe scenes with their views, creates the actors once
// loading completes and feeds scroll progress through the timeline.
//
// A Stage is not safe for concurrent use. Every method, including the
// completion callbacks it registers with the model registry, must run on
// one goroutine; pass a dispatcher that posts to that goroutine.
package stage

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/taigrr/splitscroll/pkg/actor"
	"github.com/taigrr/splitscroll/pkg/config"
	"github.com/taigrr/splitscroll/pkg/loop"
	"github.com/taigrr/splitscroll/pkg/models"
	"github.com/taigrr/splitscroll/pkg/render"
	"github.com/taigrr/splitscroll/pkg/scene"
	"github.com/taigrr/splitscroll/pkg/scroll"
	"github.com/taigrr/splitscroll/pkg/timeline"
	"github.com/taigrr/splitscroll/pkg/viewport"
)

// Recoverable conditions. They are logged and never stop the frame loop.
var (
	ErrAssetLoad          = models.ErrLoadFailed
	ErrDegenerateViewport = viewport.ErrDegenerate
	ErrEmptyTimeline      = scroll.ErrEmptyTimeline
)

// Options configures a Stage.
type Options struct {
	Config *config.Config
	Loader models.Loader // nil reads glTF files

	// Dispatch runs registry callbacks on the stage goroutine. nil runs
	// them on the loader goroutine, which is only safe in tests that wait.
	Dispatch models.Dispatcher
	Logger   *slog.Logger

	ReducedMotion bool
}

// Stage owns every piece of mutable scene state.
type Stage struct {
	cfg *config.Config
	log *slog.Logger

	shaded *scene.Scene
	wire   *scene.Scene
	views  *viewport.Set

	registry *models.Registry
	sync     *actor.Sync

	trigger    *scroll.Trigger
	motion     *scroll.MotionQuery
	controller *scroll.Controller
	timeline   *timeline.Timeline

	renderer *render.Renderer
	cols     int
	rows     int
}

// New builds the scenes, views and cameras described by opts.Config.
func New(opts Options) (*Stage, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	loader := opts.Loader
	if loader == nil {
		loader = models.NewGLTFLoader()
	}

	s := &Stage{
		cfg:      cfg,
		log:      log,
		shaded:   scene.New(cfg.Views[0].Name),
		wire:     scene.New(cfg.Views[1].Name),
		renderer: render.NewRenderer(0, 0),
		trigger:  scroll.NewTrigger(cfg.Scroll.Pages),
		motion:   scroll.NewMotionQuery(opts.ReducedMotion),
	}
	s.renderer.ClearColor = rgb(cfg.Background)

	s.shaded.Ambient = cfg.Lights.Ambient
	for _, p := range cfg.Lights.Points {
		s.shaded.Lights = append(s.shaded.Lights, scene.PointLight{
			Position:  config.Vec(p.Position),
			Intensity: p.Intensity,
		})
	}
	s.wire.Override = &scene.Material{Color: rgb(cfg.Wireframe.Color), Wireframe: true}

	views := make([]*viewport.View, len(cfg.Views))
	for i, v := range cfg.Views {
		cam := render.NewPerspectiveCamera(cfg.Camera.FOV, 1, cfg.Camera.Near, cfg.Camera.Far)
		cam.SetPosition(config.Vec(cfg.Camera.Position))
		views[i] = &viewport.View{Name: v.Name, Height: v.Height, Bottom: v.Bottom, Camera: cam}
	}
	views[0].Scene, views[1].Scene = s.shaded, s.wire
	s.views = viewport.NewSet(log.With("component", "viewport"), views...)

	s.registry = models.NewRegistry(loader, opts.Dispatch, log.With("component", "registry"))
	s.registry.OnAllLoaded(s.loaded)
	s.sync = actor.NewSync(s.registry, s.shaded, s.wire, views[0].Camera.Position, log.With("component", "actor"))

	scrub := scroll.NewScrubber(cfg.Scroll.FPS, cfg.Scroll.Scrub)
	s.controller = scroll.NewController(s.motion, scrub, log.With("component", "timeline"))
	return s, nil
}

// Start schedules every model load and returns immediately.
func (s *Stage) Start(ctx context.Context) error {
	if err := s.registry.Load(ctx, s.cfg.Entries()); err != nil {
		return fmt.Errorf("load models: %w", err)
	}
	return nil
}

// Wait blocks until every model load has returned. Completion callbacks may
// still be pending on the dispatcher.
func (s *Stage) Wait() { s.registry.Wait() }

// loaded runs once every registered model completed with at least one
// success.
func (s *Stage) loaded() {
	for _, a := range s.cfg.Actors {
		_, err := s.sync.CreateActor(a.Name, actor.WithPosition(config.Vec(a.Position)))
		if err != nil {
			s.log.Warn("actor skipped", "name", a.Name, "err", err)
		}
	}

	tl, err := s.buildTimeline(s.cfg)
	if err != nil {
		s.log.Warn("timeline build failed", "err", err)
		s.controller.Loaded(nil, 0)
		return
	}
	s.timeline = tl
	s.controller.Loaded(tl, len(s.sync.Actors()))
}

func (s *Stage) buildTimeline(cfg *config.Config) (*timeline.Timeline, error) {
	return cfg.Sequence().Build(timeline.BinderFunc(s.bind))
}

// Reload swaps in the timeline of cfg. Models, views and lights are kept.
// The pose follows the new timeline at the current progress.
func (s *Stage) Reload(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if s.timeline == nil {
		// Not loaded yet; the new timeline is built on load.
		s.cfg.Timeline = cfg.Timeline
		return nil
	}

	prev := s.timeline
	progress, applied := prev.Progress()
	prev.Reset()

	tl, err := s.buildTimeline(cfg)
	if err != nil {
		if applied {
			prev.Apply(progress)
		}
		return fmt.Errorf("reload timeline: %w", err)
	}
	s.cfg.Timeline = cfg.Timeline
	s.timeline = tl
	if applied && s.controller.State() != scroll.Attached {
		tl.Apply(progress)
	}
	s.controller.Replace(tl)
	s.log.Info("timeline reloaded", "paths", len(tl.Paths()), "groups", len(tl.Groups()))
	return nil
}

// Resize sets the surface to a cols x rows terminal area.
func (s *Stage) Resize(cols, rows int) error {
	s.cols, s.rows = cols, rows
	w, h := render.FramebufferSize(cols, rows)
	s.renderer.SetSize(w, h)
	progress := s.trigger.Resize(float64(rows))
	if rows > 0 {
		s.controller.Update(progress)
	}
	return s.views.Resize(viewport.Surface{Width: w, Height: h})
}

// ScrollBy scrolls by delta terminal rows.
func (s *Stage) ScrollBy(delta float64) { s.scrolled(s.trigger.ScrollBy(delta)) }

// PageDown scrolls one screen down.
func (s *Stage) PageDown() { s.scrolled(s.trigger.PageDown()) }

// PageUp scrolls one screen up.
func (s *Stage) PageUp() { s.scrolled(s.trigger.PageUp()) }

// Home scrolls to the start of the story.
func (s *Stage) Home() { s.scrolled(s.trigger.Home()) }

// End scrolls to the end of the story.
func (s *Stage) End() { s.scrolled(s.trigger.End()) }

// ScrollTo sets progress directly.
func (s *Stage) ScrollTo(fraction float64) { s.scrolled(s.trigger.SetFraction(fraction)) }

func (s *Stage) scrolled(fraction float64) {
	s.controller.Update(fraction)
}

// SetReducedMotion changes the motion preference.
func (s *Stage) SetReducedMotion(reduced bool) { s.motion.Set(reduced) }

// ToggleReducedMotion flips the motion preference.
func (s *Stage) ToggleReducedMotion() { s.motion.Toggle() }

// Frame advances the timeline one tick and composites every view.
func (s *Stage) Frame() {
	s.controller.Tick()
	s.renderer.ResetStats()
	loop.Draw(s.renderer, s.views)
}

// Close releases subscriptions.
func (s *Stage) Close() {
	s.controller.Close()
}

// Framebuffer returns the last composited frame.
func (s *Stage) Framebuffer() *render.Framebuffer { return s.renderer.Framebuffer() }

// Renderer returns the renderer.
func (s *Stage) Renderer() *render.Renderer { return s.renderer }

// Camera returns the primary view's camera.
func (s *Stage) Camera() *render.Camera { return s.views.Views()[0].Camera }

// Views returns the view set.
func (s *Stage) Views() *viewport.Set { return s.views }

// Actor returns a created actor.
func (s *Stage) Actor(name string) (*actor.Actor, bool) { return s.sync.Actor(name) }

// Registry returns the model registry.
func (s *Stage) Registry() *models.Registry { return s.registry }

// Timeline returns the bound timeline, nil before load.
func (s *Stage) Timeline() *timeline.Timeline { return s.timeline }

// Stats is a snapshot for the HUD.
type Stats struct {
	State     scroll.State
	Progress  float64
	Scroll    float64
	Reduced   bool
	Ready     int
	Models    int
	Triangles int
	DrawCalls int
}

// Stats returns the current snapshot.
func (s *Stage) Stats() Stats {
	st := Stats{
		State:     s.controller.State(),
		Progress:  s.controller.Progress(),
		Scroll:    s.trigger.Fraction(),
		Reduced:   s.motion.Reduced(),
		Models:    len(s.cfg.Models),
		DrawCalls: s.renderer.DrawCalls,
	}
	for _, e := range s.registry.Entries() {
		if !e.Loaded {
			continue
		}
		st.Ready++
		e.Group.Traverse(func(n *scene.MeshNode) { st.Triangles += n.Mesh.TriangleCount() })
	}
	return st
}

// Failed returns the load error of every failed model.
func (s *Stage) Failed() error {
	var errs []error
	for _, e := range s.registry.Entries() {
		if e.Err != nil {
			errs = append(errs, e.Err)
		}
	}
	return errors.Join(errs...)
}

func rgb(c config.RGB) color.RGBA {
	return color.RGBA{c[0], c[1], c[2], 255}
}
