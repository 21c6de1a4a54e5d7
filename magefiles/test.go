//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const coverProfile = "coverage.out"

// Test groups test targets.
type Test mg.Namespace

// All runs all tests.
func (Test) All() error {
	return sh.RunV(binGo, "test", "./...")
}

// Race runs all tests with the race detector.
func (Test) Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Cover runs all tests and prints per-function coverage.
func (Test) Cover() error {
	if err := sh.RunV(binGo, "test", "-coverprofile="+coverProfile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func="+coverProfile)
}

// Smoke builds the binary and runs it against scratch directories: init,
// add rows, and show the seeded board.
func Smoke() error {
	mg.Deps(Build)
	dir, err := os.MkdirTemp("", "boards-smoke-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	bin, err := filepath.Abs(filepath.Join(binaryDir, binaryName))
	if err != nil {
		return err
	}
	global := []string{"--config-dir", filepath.Join(dir, "config"), "--data-dir", filepath.Join(dir, "data")}
	steps := [][]string{
		{"init"},
		{"row", "add", "Write docs", "Status=Todo"},
		{"row", "add", "Fix bug", "Status=Doing", "Done=no"},
		{"row", "add", "Release", "Due=2026-01-15"},
		{"view", "show", "Board"},
		{"export"},
	}
	for _, step := range steps {
		if err := sh.RunV(bin, append(global, step...)...); err != nil {
			return fmt.Errorf("boards %v: %w", step, err)
		}
	}
	return nil
}
