package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"raycast/app"
	"raycast/diagram"
	"raycast/hal"
	"raycast/internal/buildinfo"
)

type rootFlags struct {
	configPath string
	width      int
	height     int
	fps        int
	points     []string
	quiet      bool
	logFile    string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	f := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "raycast",
		Short:         "Interactive 2D coordinate plane viewer",
		Version:       buildinfo.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML config file")
	pf.IntVar(&f.width, "width", app.DefaultWidth, "Buffer width in pixels.")
	pf.IntVar(&f.height, "height", app.DefaultHeight, "Buffer height in pixels.")
	pf.IntVar(&f.fps, "fps", app.DefaultFPS, "Frames per second.")
	pf.StringArrayVar(&f.points, "point", nil, `Add a point before the first frame, e.g. --point "1, 2*pi" (repeatable).`)
	pf.BoolVar(&f.quiet, "quiet", false, "Discard log output.")
	pf.StringVar(&f.logFile, "log-file", "", "Append log output to this file instead of stdout.")

	cmd.AddCommand(newWindowCommand(f))
	cmd.AddCommand(newTermCommand(f))
	cmd.AddCommand(newHeadlessCommand(f))
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newWindowCommand(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "window",
		Short: "Open a desktop window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f, os.Stdout, func(_ context.Context, h hal.HAL, sys *app.System) error {
				return hal.RunWindow(h, sys.Step)
			})
		},
	}
}

func newTermCommand(f *rootFlags) *cobra.Command {
	var hz int
	cmd := &cobra.Command{
		Use:   "term",
		Short: "Render into the terminal with braille characters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The terminal owns stdout; log only to --log-file.
			return run(cmd, f, io.Discard, func(ctx context.Context, h hal.HAL, sys *app.System) error {
				return hal.RunTerminal(ctx, h, sys.Step, hal.TermConfig{
					Background: diagram.ColorBackground,
					Hz:         hz,
				})
			})
		},
	}
	cmd.Flags().IntVar(&hz, "hz", 30, "Terminal redraw rate.")
	return cmd
}

func newHeadlessCommand(f *rootFlags) *cobra.Command {
	var cfg hal.HeadlessConfig
	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Run without a display or input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f, os.Stdout, func(ctx context.Context, _ hal.HAL, sys *app.System) error {
				return hal.RunHeadless(ctx, sys.Step, cfg)
			})
		},
	}
	cmd.Flags().IntVar(&cfg.Hz, "hz", 60, "Step rate.")
	cmd.Flags().Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N steps (0 = run until interrupted).")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "raycast %s\n", buildinfo.String())
		},
	}
}

type runner func(ctx context.Context, h hal.HAL, sys *app.System) error

func run(cmd *cobra.Command, f *rootFlags, defaultLog io.Writer, host runner) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	logw := defaultLog
	switch {
	case f.quiet:
		logw = io.Discard
	case f.logFile != "":
		lf, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer lf.Close()
		logw = lf
	}

	h := hal.NewWithLog(cfg.Width, cfg.Height, logw)
	sys, err := app.New(h, cfg)
	if err != nil {
		return err
	}
	defer sys.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := host(ctx, h, sys); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// loadConfig layers defaults, the --config file and explicitly set flags.
func loadConfig(cmd *cobra.Command, f *rootFlags) (app.Config, error) {
	cfg := app.DefaultConfig()
	if f.configPath != "" {
		var err error
		if cfg, err = app.LoadConfig(f.configPath); err != nil {
			return app.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = f.width
	}
	if flags.Changed("height") {
		cfg.Height = f.height
	}
	if flags.Changed("fps") {
		cfg.FPS = f.fps
	}
	for _, p := range f.points {
		x, y, err := app.ParseCoordinates(p)
		if err != nil {
			return app.Config{}, fmt.Errorf("--point: %w", err)
		}
		cfg.Points = append(cfg.Points, [2]float64{x, y})
	}

	if err := cfg.Validate(); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}
