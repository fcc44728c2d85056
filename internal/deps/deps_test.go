package deps

import (
	"os"
	"path/filepath"
	"testing"

	"reel/internal/environment"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available || results[0].Detail != present {
		t.Fatalf("expected first requirement to resolve to the stub, got %#v", results[0])
	}
	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected blank command status: %#v", results[2])
	}
}

func TestHostRequirements(t *testing.T) {
	reqs := HostRequirements([]environment.Kind{
		environment.Nuke,
		environment.Standalone,
		environment.Maya,
		environment.Nuke,
	})
	if len(reqs) != 2 {
		t.Fatalf("expected nuke and maya only, got %#v", reqs)
	}
	if reqs[0].Name != "Host nuke" || reqs[0].Command != "nuke" || !reqs[0].Optional {
		t.Fatalf("unexpected first requirement %#v", reqs[0])
	}
	if reqs[1].Command != "maya" {
		t.Fatalf("unexpected second requirement %#v", reqs[1])
	}
	if got := HostRequirements(nil); len(got) != 0 {
		t.Fatalf("expected no requirements, got %#v", got)
	}
}

func TestHostBinaryOnPath(t *testing.T) {
	binDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(binDir, "blender"), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", binDir)

	results := CheckBinaries(HostRequirements([]environment.Kind{environment.Blender, environment.Houdini}))
	if !results[0].Available {
		t.Fatalf("expected blender stub to be found: %#v", results[0])
	}
	if results[1].Available {
		t.Fatalf("expected houdini to be missing: %#v", results[1])
	}
}
