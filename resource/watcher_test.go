// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloadsChangedSource(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "textures"), 0o755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(root, "textures", "floor.png")
	if err := os.WriteFile(file, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := New([]Source{{Name: "floor", Kind: KindTexture, Location: "textures/floor.png"}}, fakeRegistry(okLoader()))
	r.Start(context.Background())
	if err := waitDone(t, r); err != nil {
		t.Fatal(err)
	}
	first, _ := Item[*fakeAsset](r, "floor")

	reloaded := make(chan Progress, 1)
	r.On(Reloaded, func(p Progress) {
		select {
		case reloaded <- p:
		default:
		}
	})

	w, err := NewWatcher(r, root, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	w.Start(context.Background())

	if err := os.WriteFile(file, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-reloaded:
		if p.Source.Name != "floor" {
			t.Errorf("reloaded %q", p.Source.Name)
		}
		if p.Previous != first {
			t.Errorf("Previous = %v, want the replaced asset", p.Previous)
		}
		if cur, _ := Item[*fakeAsset](r, "floor"); cur == first || p.Asset != cur {
			t.Error("reloaded asset not stored")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after file change")
	}

	// The replaced asset may still be bound into a scene.
	select {
	case <-first.done:
		t.Error("watcher disposed the replaced asset")
	default:
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	r := New([]Source{{Name: "env", Kind: KindCubeTexture, Location: "nowhere"}}, nil)
	if _, err := NewWatcher(r, t.TempDir()); err == nil {
		t.Error("watching a missing directory succeeded")
	}
}
