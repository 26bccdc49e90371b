// splitscroll - Terminal scroll story viewer
// Scroll through a 3D model story in your terminal: the model moves with the
// scroll position while a wireframe pane slides over the shaded view.
//
// Controls:
//
//	Wheel / j,k   - Scroll
//	PgUp / PgDn   - Scroll one screen
//	Home / End    - Jump to start or end
//	Mouse drag    - Orbit the shaded view's camera
//	M             - Toggle reduced motion
//	R             - Reset orbit
//	?             - Toggle HUD overlay
//	Esc / ctrl+c  - Quit
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/splitscroll/pkg/config"
)

type options struct {
	configPath string
	fps        int
	bg         string
	reduce     bool
	scrub      float64
	pages      float64
	logPath    string
	debug      bool
	watch      bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := fang.Execute(ctx, rootCmd()); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "splitscroll [model.glb ...]",
		Short: "Scroll through a 3D model story in the terminal",
		Long: `splitscroll renders a glTF model in two composited views, a shaded one and a
wireframe one, and animates the model and the split between the views as you
scroll. Positional model paths replace the models of the configured story in
order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, closeLog, err := setup(cmd, opts, args)
			if err != nil {
				return err
			}
			defer closeLog()
			return runTerminal(cmd.Context(), cfg, opts, log)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "story file (YAML); built-in spaceship story if empty")
	f.IntVar(&opts.fps, "fps", 0, "target FPS (overrides the story)")
	f.StringVar(&opts.bg, "bg", "", "background color R,G,B (overrides the story)")
	f.BoolVar(&opts.reduce, "reduce-motion", false, "start with reduced motion (also REDUCE_MOTION=1)")
	f.Float64Var(&opts.scrub, "scrub", -1, "seconds the animation trails the scroll, 0 for none (overrides the story)")
	f.Float64Var(&opts.pages, "pages", 0, "story length in screens (overrides the story)")
	f.StringVar(&opts.logPath, "log", "", "write logs to this file")
	f.BoolVar(&opts.debug, "debug", false, "log at debug level")
	f.BoolVarP(&opts.watch, "watch", "w", false, "reload the timeline when the story file changes")

	cmd.AddCommand(snapshotCmd(opts), defaultsCmd())
	return cmd
}

// setup loads the story, applies flag overrides and opens the log.
func setup(cmd *cobra.Command, opts *options, args []string) (*config.Config, *slog.Logger, func(), error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := applyOverrides(cfg, cmd, opts, args); err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	if v, ok := os.LookupEnv("REDUCE_MOTION"); ok && !cmd.Flags().Changed("reduce-motion") {
		reduce, err := strconv.ParseBool(v)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("parse REDUCE_MOTION %q: %w", v, err)
		}
		opts.reduce = reduce
	}

	log, closeLog, err := openLog(opts.logPath, opts.debug)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, closeLog, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func applyOverrides(cfg *config.Config, cmd *cobra.Command, opts *options, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.Scroll.FPS = opts.fps
	}
	if flags.Changed("scrub") {
		cfg.Scroll.Scrub = opts.scrub
	}
	if flags.Changed("pages") {
		cfg.Scroll.Pages = opts.pages
	}
	if flags.Changed("bg") {
		var r, g, b uint8
		if _, err := fmt.Sscanf(opts.bg, "%d,%d,%d", &r, &g, &b); err != nil {
			return fmt.Errorf("parse --bg %q: %w", opts.bg, err)
		}
		cfg.Background = config.RGB{r, g, b}
	}
	for i, path := range args {
		if i < len(cfg.Models) {
			cfg.Models[i].Path = path
			continue
		}
		// Extra models stand in a row to the right of the last actor.
		name := fmt.Sprintf("model%d", i)
		pos := [3]float64{}
		if n := len(cfg.Actors); n > 0 {
			pos = cfg.Actors[n-1].Position
			pos[0] += 0.6
		}
		cfg.Models = append(cfg.Models, config.Model{Name: name, Path: path})
		cfg.Actors = append(cfg.Actors, config.Actor{Name: name, Position: pos})
	}
	return nil
}

// openLog returns a text logger writing to path, or a discarding logger
// when path is empty: the terminal is in the alternate screen.
func openLog(path string, debug bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return log, func() { f.Close() }, nil
}

func defaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Print the built-in story as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := config.Default().Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
