package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/splitscroll/pkg/config"
	"github.com/taigrr/splitscroll/pkg/loop"
	"github.com/taigrr/splitscroll/pkg/stage"
)

// display is the terminal as the frame loop uses it.
type display interface {
	uv.Screen
	Display() error
}

func runTerminal(ctx context.Context, cfg *config.Config, opts *options, log *slog.Logger) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	var screen any = term
	out, ok := screen.(display)
	if !ok {
		return errors.New("terminal cannot display frames")
	}

	lp := loop.New(cfg.Scroll.FPS)
	st, err := stage.New(stage.Options{
		Config:        cfg,
		Dispatch:      lp.Dispatch,
		Logger:        log,
		ReducedMotion: opts.reduce,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := st.Resize(width, height); err != nil {
		log.Warn("initial resize", "err", err)
	}
	if err := st.Start(ctx); err != nil {
		return err
	}

	title := "splitscroll"
	if len(cfg.Models) > 0 {
		title = filepath.Base(cfg.Models[0].Path)
	}
	hud := NewHUD(title)
	orb := newOrbit(cfg.Scroll.FPS, st.Camera().Position)
	step := cfg.Scroll.Step

	if opts.watch && opts.configPath != "" {
		go watchConfig(ctx, opts.configPath, log, func(next *config.Config) {
			lp.Dispatch(func() {
				if err := st.Reload(next); err != nil {
					log.Warn("reload failed", "path", opts.configPath, "err", err)
				}
			})
		})
	}

	// Event handler
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				w, h := ev.Width, ev.Height
				lp.PostLatest("resize", func() {
					width, height = w, h
					term.Erase()
					term.Resize(w, h)
					if err := st.Resize(w, h); err != nil {
						log.Warn("resize", "err", err)
					}
				})

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("j", "down"):
					lp.Dispatch(func() { st.ScrollBy(step) })
				case ev.MatchString("k", "up"):
					lp.Dispatch(func() { st.ScrollBy(-step) })
				case ev.MatchString("pgdown", "space"):
					lp.Dispatch(st.PageDown)
				case ev.MatchString("pgup"):
					lp.Dispatch(st.PageUp)
				case ev.MatchString("home", "g"):
					lp.Dispatch(st.Home)
				case ev.MatchString("end", "G"):
					lp.Dispatch(st.End)
				case ev.MatchString("m"):
					lp.Dispatch(st.ToggleReducedMotion)
				case ev.MatchString("r"):
					lp.Dispatch(orb.Reset)
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					lp.Dispatch(hud.Toggle)
				}

			case uv.MouseClickEvent:
				x, y := ev.X, ev.Y
				lp.Dispatch(func() { orb.Press(x, y) })

			case uv.MouseReleaseEvent:
				lp.Dispatch(orb.Release)

			case uv.MouseMotionEvent:
				x, y := ev.X, ev.Y
				lp.PostLatest("drag", func() { orb.Drag(x, y) })

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					lp.Dispatch(func() { st.ScrollBy(-step) })
				case uv.MouseWheelDown:
					lp.Dispatch(func() { st.ScrollBy(step) })
				}
			}
		}
	}()

	var flushErr error
	err = lp.Run(ctx, func(time.Duration) {
		orb.Update(st.Camera())
		st.Frame()

		st.Framebuffer().Draw(out, uv.Rectangle(image.Rect(0, 0, width, height)))
		if err := out.Display(); err != nil {
			flushErr = fmt.Errorf("flush: %w", err)
			cancel()
			return
		}

		// HUD overlay (always update FPS, render clears lines when HUD off)
		hud.UpdateFPS()
		hud.Render(os.Stdout, width, height, st.Stats())
	})
	if flushErr != nil {
		return flushErr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
