// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package stage

import (
	"sync"
	"testing"
)

func TestRootConcurrentConstruction(t *testing.T) {
	h := newHarness()
	opts := h.options()

	var root Root
	const n = 8
	got := make([]*Experience, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := root.Experience(opts...)
			if err != nil {
				t.Error(err)
			}
			got[i] = e
		}()
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if got[i] != got[0] {
			t.Fatal("concurrent construction produced different instances")
		}
	}
	if root.Current() != got[0] {
		t.Error("Current() differs from the constructed instance")
	}
	got[0].Destroy()
	if root.Current() != nil {
		t.Error("Current() after Destroy is not nil")
	}
}

func TestRootZeroValueEmpty(t *testing.T) {
	var root Root
	if root.Current() != nil {
		t.Error("zero Root has an experience")
	}
}
