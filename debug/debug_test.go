// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package debug

import (
	"errors"
	"testing"
)

func TestInactiveDebug(t *testing.T) {
	d := New(false)
	if d.UI != nil {
		t.Fatal("inactive debug created a panel")
	}
	f := d.Folder("fox")
	if f != nil {
		t.Fatal("inactive debug returned a folder")
	}
	// Nil folders and params absorb calls.
	var x float64
	f.AddFloat("speed", &x).Range(0, 1, 0.1).OnChange(func(any) {})
	d.Destroy()
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"0", false},
		{"yes please", false},
	}
	for _, tt := range tests {
		t.Setenv(EnvVar, tt.value)
		if got := FromEnv(); got != tt.want {
			t.Errorf("FromEnv() with %q = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestPanelFloatRangeAndStep(t *testing.T) {
	d := New(true)
	intensity := 0.4
	var changes []any
	d.Folder("environment").AddFloat("envMapIntensity", &intensity).
		Range(0, 4, 0.001).
		OnChange(func(v any) { changes = append(changes, v) })

	tests := []struct {
		in   any
		want float64
	}{
		{2.5, 2.5},
		{10, 4},
		{-3, 0},
		{float32(1.0004), 1.0},
		{int64(3), 3},
	}
	for _, tt := range tests {
		if err := d.UI.Set("environment.envMapIntensity", tt.in); err != nil {
			t.Fatalf("Set(%v): %v", tt.in, err)
		}
		if diff := intensity - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Set(%v) -> %v, want %v", tt.in, intensity, tt.want)
		}
	}
	if len(changes) != len(tests) {
		t.Errorf("OnChange called %d times, want %d", len(changes), len(tests))
	}
	if err := d.UI.Set("environment.envMapIntensity", "bright"); !errors.Is(err, ErrType) {
		t.Errorf("Set(string) = %v, want ErrType", err)
	}
}

func TestPanelBoolAndAction(t *testing.T) {
	p := NewPanel("test")
	f := p.Folder("fox")
	if p.Folder("fox") != f {
		t.Fatal("Folder did not return the existing folder")
	}

	visible := true
	f.AddBool("visible", &visible)
	played := 0
	act := f.AddAction("playWalking", func() { played++ })

	if err := p.Set("fox.visible", false); err != nil || visible {
		t.Errorf("Set(false) -> %v, %v", visible, err)
	}
	if err := p.Set("fox.visible", 1); !errors.Is(err, ErrType) {
		t.Errorf("Set(1) on bool = %v, want ErrType", err)
	}
	if err := act.Trigger(); err != nil || played != 1 {
		t.Errorf("Trigger -> played %d, %v", played, err)
	}
	if err := p.Set("fox.playWalking", false); err != nil || played != 1 {
		t.Errorf("Set(false) on action ran it: played %d, %v", played, err)
	}
	if err := p.Set("fox.missing", 1.0); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("Set(missing) = %v, want ErrUnknownParam", err)
	}
	if err := p.Set("nodot", 1.0); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("Set(nodot) = %v, want ErrUnknownParam", err)
	}

	vals := p.Values()
	if len(vals) != 1 || vals["fox.visible"] != false {
		t.Errorf("Values() = %v", vals)
	}
}

func TestPanelApply(t *testing.T) {
	p := NewPanel("test")
	var speed, scale float64
	p.Folder("clock").AddFloat("speed", &speed)
	p.Folder("fox").AddFloat("scale", &scale).Range(0, 1, 0)

	err := p.Apply(map[string]any{"clock.speed": 2.0, "fox.scale": 0.02})
	if err != nil {
		t.Fatal(err)
	}
	if speed != 2 || scale != 0.02 {
		t.Errorf("speed=%v scale=%v", speed, scale)
	}
	if got := p.Folders(); len(got) != 2 || got[0] != "clock" {
		t.Errorf("Folders() = %v", got)
	}
}

func TestDestroy(t *testing.T) {
	d := New(true)
	var x float64
	d.Folder("a").AddFloat("x", &x)
	d.Destroy()

	if !d.UI.Destroyed() {
		t.Error("panel not destroyed")
	}
	if d.Folder("b") != nil {
		t.Error("destroyed panel created a folder")
	}
	if _, err := d.UI.Lookup("a.x"); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Lookup after Destroy = %v, want ErrDestroyed", err)
	}
	d.Destroy()
}
