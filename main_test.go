package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raycast.yaml")
	if err := os.WriteFile(path, []byte("width: 320\nheight: 200\npoints: [[1, 1]]\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	root := newRootCommand()
	root.SetArgs([]string{"headless", "--quiet", "--config", path, "--height", "240", "--point", "2, pi", "--ticks", "3", "--hz", "1000"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	headless, _, err := root.Find([]string{"headless"})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	f := &rootFlags{configPath: path, height: 240, points: []string{"2, pi"}}
	cfg, err := loadConfig(headless, f)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 240 {
		t.Fatalf("size = %dx%d, want 320x240", cfg.Width, cfg.Height)
	}
	if len(cfg.Points) != 2 || cfg.Points[0] != [2]float64{1, 1} || cfg.Points[1][0] != 2 {
		t.Fatalf("points = %v", cfg.Points)
	}
}

func TestHeadlessRejectsBadPoint(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"headless", "--quiet", "--point", "one, two", "--ticks", "1"})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "--point") {
		t.Fatalf("Execute err = %v, want --point error", err)
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.HasPrefix(out.String(), "raycast dev") {
		t.Fatalf("version output = %q", out.String())
	}
}
