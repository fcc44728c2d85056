package main

import (
	"os"
	"path/filepath"
	"testing"

	"reel/internal/testsupport"
)

func TestScanAndClaim(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "old_show", "SH010")
	testsupport.TouchScenes(t, dir,
		"SH010_Comp_COMP_r01_v003_jd.nk",
		"SH010_Comp_COMP_r01_v001_jd.nk",
		"SH010_Comp_COMP_r01_v002_jd.nk.bak",
		"notes.txt",
	)

	var scanned struct {
		Assets  []assetView `json:"assets"`
		Skipped []struct {
			Path   string
			Reason string
		} `json:"skipped"`
	}
	decodeJSON(t, env.mustRun(t, "scan", dir, "--skipped", "--json"), &scanned)
	if len(scanned.Assets) != 2 || scanned.Assets[0].Version != 1 || scanned.Assets[1].Version != 3 {
		t.Fatalf("unexpected assets %+v", scanned.Assets)
	}
	if len(scanned.Skipped) == 0 {
		t.Fatal("expected notes.txt to be reported as skipped")
	}

	out := env.mustRun(t, "claim", dir, "--base", "SH010", "--sub", "Comp", "--type", "COMP", "--ext", "nk")
	requireContains(t, out, "SH010_Comp_COMP_r01_v004_ta.nk")
	if _, err := os.Stat(filepath.Join(dir, "SH010_Comp_COMP_r01_v004_ta.nk")); err != nil {
		t.Fatalf("expected claimed file: %v", err)
	}

	var claimed assetView
	decodeJSON(t, env.mustRun(t, "claim", dir, "--base", "SH010", "--sub", "Comp", "--type", "COMP", "--version", "3", "--revision", "2", "--json"), &claimed)
	if claimed.Version != 5 || claimed.Revision != 2 {
		t.Fatalf("unexpected claim %+v", claimed)
	}

	out = env.mustRun(t, "scan", filepath.Dir(dir), "--recursive")
	requireContains(t, out, "SH010/SH010_Comp_COMP_r02_v005_ta")
}

func TestClaimRequiresBaseFields(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"claim", env.baseDir, "--base", "SH010", "--type", "COMP"}, env.configPath); err == nil {
		t.Fatal("expected claim without a sub name to fail")
	}
}
