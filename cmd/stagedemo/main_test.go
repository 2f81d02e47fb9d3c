// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"image/png"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/clock"
	"github.com/gogpu/stage/resource"
	"github.com/gogpu/stage/scene"
	"github.com/gogpu/stage/viewport"
)

func TestParseConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.toml")
	data := `
width = 320
height = 200
frames = 5
policy = "best-effort"

[tweaks]
"environment.envMapIntensity" = 1.5
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := parseConfig([]string{"-config", path, "-height", "240"})
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 240 || cfg.Frames != 5 {
		t.Errorf("size/frames = %dx%d/%d, want 320x240/5", cfg.Width, cfg.Height, cfg.Frames)
	}
	if cfg.Policy != "best-effort" {
		t.Errorf("Policy = %q", cfg.Policy)
	}
	if cfg.Tweaks["environment.envMapIntensity"] != 1.5 {
		t.Errorf("Tweaks = %v", cfg.Tweaks)
	}
	if cfg.Output != "stage.png" {
		t.Errorf("Output = %q, want default", cfg.Output)
	}
}

func TestParseConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero width", []string{"-width", "0"}},
		{"unknown flag", []string{"-bogus"}},
		{"missing config", []string{"-config", filepath.Join(t.TempDir(), "none.toml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseConfig(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.png")
	err := run([]string{"-width", "160", "-height", "120", "-frames", "3", "-output", out, "-policy", "best-effort"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 120 {
		t.Errorf("image = %dx%d, want 160x120", b.Dx(), b.Dy())
	}
}

func TestWorld(t *testing.T) {
	assets, err := fs.Sub(embedded, "assets")
	if err != nil {
		t.Fatal(err)
	}
	sched := &clock.ManualScheduler{}

	var root stage.Root
	e, err := root.Experience(
		stage.WithWindow(viewport.NewWindow(64, 48, 1)),
		stage.WithScheduler(sched),
		stage.WithAssets(assets),
		stage.WithManifest(manifestName),
		stage.WithLoadPolicy(resource.BestEffort),
		stage.WithWorld(newWorld(0.02)),
		stage.WithDebug(true),
		stage.WithDebugValues(map[string]any{
			"environment.envMapIntensity": 1.5,
			"fox.playWalking":             true,
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Destroy()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Resources().Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	sched.Run(3)

	fl := e.Scene().Find("floor")
	if fl == nil {
		t.Fatal("floor not added")
	}
	m := fl.Mesh.Material.(*scene.StandardMaterial)
	if m.Map == nil || m.NormalMap == nil {
		t.Error("floor textures not assigned")
	}
	if m.EnvMap == nil || math.Abs(m.EnvMapIntensity-1.5) > 1e-9 {
		t.Errorf("floor env map = %v/%v, want cube/1.5", m.EnvMap, m.EnvMapIntensity)
	}

	fox := e.Scene().Find(foxSource)
	if fox == nil || fox.Find("head") == nil {
		t.Fatal("fox not added")
	}
	if fox.Scale.X != 0.02 {
		t.Errorf("fox scale = %v", fox.Scale.X)
	}
	if fox.Rotation.Y <= 0 {
		t.Errorf("walking fox did not turn: %v", fox.Rotation.Y)
	}
	body := fox.Find("body").Mesh.Material.(*scene.StandardMaterial)
	if body.EnvMap == nil {
		t.Error("fox material missing env map")
	}

	e.Destroy()
	if !m.Map.Disposed() || !body.EnvMap.Disposed() {
		t.Error("assets not released on destroy")
	}
}
