// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command stagedemo renders the demo world headlessly: it loads the
// embedded (or an on-disk) asset set, steps the frame loop and writes the
// last frame to a PNG.
//
// Usage:
//
//	stagedemo [-config stagedemo.toml] [-frames 120] [-output stage.png]
//
// Flags override values read from the configuration file.
package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/clock"
	"github.com/gogpu/stage/debug"
	"github.com/gogpu/stage/render"
	"github.com/gogpu/stage/resource"
	"github.com/gogpu/stage/viewport"
)

//go:embed assets
var embedded embed.FS

const manifestName = "sources.yaml"

type config struct {
	Width    int            `toml:"width"`
	Height   int            `toml:"height"`
	Scale    float64        `toml:"scale"`
	Frames   int            `toml:"frames"`
	FPS      int            `toml:"fps"`
	Output   string         `toml:"output"`
	Assets   string         `toml:"assets"`
	Manifest string         `toml:"manifest"`
	Policy   string         `toml:"policy"`
	Debug    bool           `toml:"debug"`
	Verbose  bool           `toml:"verbose"`
	FoxScale float64        `toml:"fox_scale"`
	Timeout  string         `toml:"timeout"`
	Tweaks   map[string]any `toml:"tweaks"`
}

func defaultConfig() config {
	return config{
		Width:    800,
		Height:   600,
		Scale:    1,
		Frames:   60,
		Output:   "stage.png",
		Manifest: manifestName,
		Policy:   "fail-fast",
		Debug:    debug.FromEnv(),
		FoxScale: 0.02,
		Timeout:  "10s",
	}
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("stagedemo: %v", err)
	}
}

func run(args []string) error {
	cfg, err := parseConfig(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	stage.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	policy, err := resource.ParsePolicy(cfg.Policy)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	window := viewport.NewWindow(cfg.Width, cfg.Height, cfg.Scale)

	var (
		manual   *clock.ManualScheduler
		interval *clock.IntervalScheduler
		sched    clock.Scheduler
	)
	if cfg.FPS > 0 {
		interval = clock.NewIntervalScheduler(cfg.FPS)
		sched = interval
	} else {
		manual = &clock.ManualScheduler{}
		sched = manual
	}

	opts := []stage.Option{
		stage.WithContext(ctx),
		stage.WithWindow(window),
		stage.WithScheduler(sched),
		stage.WithManifest(cfg.Manifest),
		stage.WithLoadPolicy(policy),
		stage.WithWorld(newWorld(cfg.FoxScale)),
		stage.WithDebug(cfg.Debug),
		stage.WithDebugValues(cfg.Tweaks),
	}
	if cfg.Assets != "" {
		opts = append(opts, stage.WithAssetDir(cfg.Assets))
	} else {
		assets, err := fs.Sub(embedded, "assets")
		if err != nil {
			return err
		}
		opts = append(opts, stage.WithAssets(assets))
	}

	var root stage.Root
	e, err := root.Experience(opts...)
	if err != nil {
		return err
	}
	defer e.Destroy()

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	wait, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := e.Resources().Wait(wait); err != nil {
		return fmt.Errorf("loading resources: %w", err)
	}

	if manual != nil {
		manual.Run(cfg.Frames)
	} else if err := waitFrames(ctx, e, uint64(cfg.Frames)); err != nil {
		return err
	}

	wf, ok := e.Renderer().(*render.Wireframe)
	if !ok {
		return errors.New("renderer does not produce images")
	}
	if err := wf.SavePNG(cfg.Output); err != nil {
		return err
	}

	st := wf.Stats()
	stage.Logger().Info("frame saved",
		"output", cfg.Output,
		"frames", e.Frames(),
		"meshes", st.Meshes,
		"triangles", st.Triangles,
	)
	if interval != nil {
		interval.Stop()
	}
	return nil
}

// waitFrames blocks until the experience has rendered n frames.
func waitFrames(ctx context.Context, e *stage.Experience, n uint64) error {
	t := time.NewTicker(10 * time.Millisecond)
	defer t.Stop()
	for e.Frames() < n {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

// parseConfig reads the optional -config file and applies flags set on the
// command line over it.
func parseConfig(args []string) (config, error) {
	cfg := defaultConfig()

	fset := flag.NewFlagSet("stagedemo", flag.ContinueOnError)
	var (
		path     = fset.String("config", "", "TOML configuration file")
		width    = fset.Int("width", cfg.Width, "window width")
		height   = fset.Int("height", cfg.Height, "window height")
		scale    = fset.Float64("scale", cfg.Scale, "window scale factor")
		frames   = fset.Int("frames", cfg.Frames, "frames to render")
		fps      = fset.Int("fps", cfg.FPS, "frame rate; 0 steps frames as fast as possible")
		output   = fset.String("output", cfg.Output, "output PNG")
		assets   = fset.String("assets", cfg.Assets, "asset directory (default: embedded assets)")
		manifest = fset.String("manifest", cfg.Manifest, "source manifest in the asset directory")
		policy   = fset.String("policy", cfg.Policy, "load failure policy: fail-fast or best-effort")
		dbg      = fset.Bool("debug", cfg.Debug, "enable debug mode")
		verbose  = fset.Bool("v", cfg.Verbose, "verbose logging")
	)
	if err := fset.Parse(args); err != nil {
		return cfg, err
	}

	if *path != "" {
		data, err := os.ReadFile(*path)
		if err != nil {
			return cfg, err
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", *path, err)
		}
	}

	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "scale":
			cfg.Scale = *scale
		case "frames":
			cfg.Frames = *frames
		case "fps":
			cfg.FPS = *fps
		case "output":
			cfg.Output = *output
		case "assets":
			cfg.Assets = *assets
		case "manifest":
			cfg.Manifest = *manifest
		case "policy":
			cfg.Policy = *policy
		case "debug":
			cfg.Debug = *dbg
		case "v":
			cfg.Verbose = *verbose
		}
	})

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return cfg, fmt.Errorf("invalid size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Frames < 1 {
		cfg.Frames = 1
	}
	return cfg, nil
}
