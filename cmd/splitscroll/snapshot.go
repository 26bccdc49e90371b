package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taigrr/splitscroll/pkg/models"
	"github.com/taigrr/splitscroll/pkg/stage"
)

type snapshotOptions struct {
	out  string
	at   float64
	cols int
	rows int
}

func snapshotCmd(root *options) *cobra.Command {
	opts := &snapshotOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot [model.glb ...]",
		Short: "Render one frame at a scroll position to a PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, closeLog, err := setup(cmd, root, args)
			if err != nil {
				return err
			}
			defer closeLog()

			// Jump straight to the requested position.
			cfg.Scroll.Scrub = 0
			st, err := stage.New(stage.Options{
				Config:        cfg,
				Dispatch:      models.Inline,
				Logger:        log,
				ReducedMotion: root.reduce,
			})
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Resize(opts.cols, opts.rows); err != nil {
				return err
			}
			if err := st.Start(cmd.Context()); err != nil {
				return err
			}
			st.Wait()
			if err := st.Failed(); err != nil {
				log.Warn("some models failed to load", "err", err)
			}

			st.ScrollTo(opts.at)
			st.Frame()
			if err := st.Framebuffer().SavePNG(opts.out); err != nil {
				return fmt.Errorf("save snapshot: %w", err)
			}
			stats := st.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d at %.0f%% (%s, %d polys)\n",
				opts.out, opts.cols, opts.rows*2, stats.Progress*100, stats.State, stats.Triangles)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.out, "out", "o", "splitscroll.png", "output PNG")
	f.Float64Var(&opts.at, "at", 0, "scroll progress in [0, 1]")
	f.IntVar(&opts.cols, "cols", 120, "terminal columns to simulate")
	f.IntVar(&opts.rows, "rows", 40, "terminal rows to simulate")
	return cmd
}
