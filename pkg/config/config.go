// Package config describes a scroll story: which models to load, how the
// two views are lit and framed, and the timeline scroll progress drives.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/splitscroll/pkg/math3d"
	"github.com/taigrr/splitscroll/pkg/models"
	"github.com/taigrr/splitscroll/pkg/timeline"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the whole story.
type Config struct {
	Models     []Model   `yaml:"models"`
	Actors     []Actor   `yaml:"actors"`
	Camera     Camera    `yaml:"camera"`
	Lights     Lights    `yaml:"lights"`
	Wireframe  Wireframe `yaml:"wireframe"`
	Views      []View    `yaml:"views"`
	Background RGB       `yaml:"background"`
	Scroll     Scroll    `yaml:"scroll"`
	Timeline   Timeline  `yaml:"timeline"`
}

// Model is one asset to load.
type Model struct {
	Name  string     `yaml:"name"`
	Path  string     `yaml:"path"`
	Scale [3]float64 `yaml:"scale"`
}

// Actor places a loaded model in both scenes.
type Actor struct {
	Name     string     `yaml:"name"`
	Position [3]float64 `yaml:"position"`
}

// Camera is shared by every view.
type Camera struct {
	FOV      float64    `yaml:"fov"` // vertical, degrees
	Near     float64    `yaml:"near"`
	Far      float64    `yaml:"far"`
	Position [3]float64 `yaml:"position"`
}

// Lights illuminate the shaded scene only.
type Lights struct {
	Ambient float64 `yaml:"ambient"`
	Points  []Point `yaml:"points"`
}

// Point is a point light.
type Point struct {
	Position  [3]float64 `yaml:"position"`
	Intensity float64    `yaml:"intensity"`
}

// Wireframe is the override material of the wireframe scene.
type Wireframe struct {
	Color RGB `yaml:"color"`
}

// RGB is an 8-bit color.
type RGB [3]uint8

// View is the initial layout of one pane. The first view shows the shaded
// scene, the second the wireframe scene.
type View struct {
	Name   string  `yaml:"name"`
	Height float64 `yaml:"height"`
	Bottom float64 `yaml:"bottom"`
}

// Scroll configures the virtual page and smoothing.
type Scroll struct {
	Pages float64 `yaml:"pages"` // page height in viewports
	Scrub float64 `yaml:"scrub"` // seconds the timeline trails the scroll; 0 is immediate
	FPS   int     `yaml:"fps"`
	Step  float64 `yaml:"step"` // rows per wheel notch
}

// Timeline is authored as tweens at offsets, normalized by total length.
type Timeline struct {
	Duration float64 `yaml:"duration"`
	Ease     string  `yaml:"ease"`
	Tweens   []Tween `yaml:"tweens"`
}

// Tween moves each path in To toward its value.
type Tween struct {
	At       float64            `yaml:"at"`
	Duration float64            `yaml:"duration,omitempty"`
	Ease     string             `yaml:"ease,omitempty"`
	To       map[string]float64 `yaml:"to"`
}

// Load reads a YAML file over the defaults, so a file only needs the keys it
// changes. Lists in the file replace the default lists.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks every field the rest of the program relies on.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	seen := make(map[string]bool)
	for i, m := range c.Models {
		switch {
		case m.Name == "":
			fail("models[%d]: missing name", i)
		case m.Path == "":
			fail("models[%d] %q: missing path", i, m.Name)
		case seen[m.Name]:
			fail("models[%d]: duplicate name %q", i, m.Name)
		}
		seen[m.Name] = true
	}
	for i, a := range c.Actors {
		if !seen[a.Name] {
			fail("actors[%d]: unknown model %q", i, a.Name)
		}
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		fail("camera fov %g out of (0, 180)", c.Camera.FOV)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		fail("camera clip planes near=%g far=%g", c.Camera.Near, c.Camera.Far)
	}
	if len(c.Views) != 2 {
		fail("need exactly 2 views, got %d", len(c.Views))
	}
	for i, v := range c.Views {
		if v.Name == "" {
			fail("views[%d]: missing name", i)
		}
	}
	if c.Scroll.Pages < 1 {
		fail("scroll pages %g < 1", c.Scroll.Pages)
	}
	if c.Scroll.Scrub < 0 {
		fail("scroll scrub %g < 0", c.Scroll.Scrub)
	}
	if c.Scroll.FPS <= 0 {
		fail("scroll fps %d <= 0", c.Scroll.FPS)
	}
	if c.Scroll.Step <= 0 {
		fail("scroll step %g <= 0", c.Scroll.Step)
	}
	if err := c.validateTimeline(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Config) validateTimeline() error {
	if _, err := timeline.EaseByName(c.Timeline.Ease); err != nil {
		return fmt.Errorf("%w: timeline: %w", ErrInvalid, err)
	}
	for i, t := range c.Timeline.Tweens {
		if t.At < 0 || t.Duration < 0 {
			return fmt.Errorf("%w: tweens[%d]: negative offset or duration", ErrInvalid, i)
		}
		if len(t.To) == 0 {
			return fmt.Errorf("%w: tweens[%d]: no targets", ErrInvalid, i)
		}
		if t.Ease == "" {
			continue
		}
		if _, err := timeline.EaseByName(t.Ease); err != nil {
			return fmt.Errorf("%w: tweens[%d]: %w", ErrInvalid, i, err)
		}
	}
	return nil
}

// Entries converts the model list for the registry.
func (c *Config) Entries() []models.Entry {
	entries := make([]models.Entry, 0, len(c.Models))
	for _, m := range c.Models {
		entries = append(entries, models.Entry{Name: m.Name, Path: m.Path, Scale: Vec(m.Scale)})
	}
	return entries
}

// Sequence builds the timeline sequence. Targets within one tween are
// ordered by path so builds are deterministic.
func (c *Config) Sequence() *timeline.Sequence {
	seq := timeline.NewSequence(c.Timeline.Duration, c.Timeline.Ease)
	for _, t := range c.Timeline.Tweens {
		paths := make([]string, 0, len(t.To))
		for p := range t.To {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		targets := make([]timeline.Target, 0, len(paths))
		for _, p := range paths {
			targets = append(targets, timeline.Target{Path: p, End: t.To[p]})
		}
		seq.Add(timeline.Tween{At: t.At, Duration: t.Duration, Ease: t.Ease, Targets: targets})
	}
	return seq
}

// Vec converts a YAML triple.
func Vec(v [3]float64) math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}
