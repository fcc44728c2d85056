package environment_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"reel/internal/environment"
	"reel/internal/faults"
)

func TestParseKind(t *testing.T) {
	for _, kind := range environment.Kinds() {
		parsed, err := environment.ParseKind(" " + kind.String() + " ")
		if err != nil {
			t.Fatalf("ParseKind(%q) failed: %v", kind, err)
		}
		if parsed != kind {
			t.Fatalf("ParseKind(%q) = %v", kind, parsed)
		}
	}
	if _, err := environment.ParseKind("Photoshop"); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestCatalog(t *testing.T) {
	catalog := environment.NewCatalog(map[environment.Kind][]string{
		environment.Nuke: {"NK", ".nknc"},
		environment.Maya: {".ma", "mb", ""},
	})
	if got := catalog.Extensions(environment.Maya); !reflect.DeepEqual(got, []string{".ma", ".mb"}) {
		t.Fatalf("unexpected maya extensions %v", got)
	}
	if ext, ok := catalog.DefaultExtension(environment.Nuke); !ok || ext != ".nk" {
		t.Fatalf("unexpected default %q %v", ext, ok)
	}
	if _, ok := catalog.DefaultExtension(environment.Blender); ok {
		t.Fatal("expected no default for blender")
	}
	if kind, ok := catalog.KindFor("/shots/SH010_Comp_COMP_r01_v003_jd.NKNC"); !ok || kind != environment.Nuke {
		t.Fatalf("KindFor = %v %v", kind, ok)
	}
	if _, ok := catalog.KindFor("notes.txt"); ok {
		t.Fatal("expected no kind for .txt")
	}
	if got := catalog.All(); !reflect.DeepEqual(got, []string{".ma", ".mb", ".nk", ".nknc"}) {
		t.Fatalf("unexpected All %v", got)
	}
}

func TestFileHostSaveAndExport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := filepath.Join(dir, "scratch.nk")
	if err := os.WriteFile(src, []byte("Root {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	host := environment.NewFileHost()
	if err := host.Save(ctx, filepath.Join(dir, "out.nk")); !errors.Is(err, faults.ErrPrecondition) {
		t.Fatalf("expected precondition error without open document, got %v", err)
	}
	if err := host.Open(ctx, src); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	saved := filepath.Join(dir, "SH010", "SH010_Comp_COMP_r01_v001_jd.nk")
	if err := host.Save(ctx, saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if host.Current() != saved {
		t.Fatalf("expected current %q, got %q", saved, host.Current())
	}
	if err := host.Save(ctx, saved); !errors.Is(err, faults.ErrConflict) {
		t.Fatalf("expected conflict on existing file, got %v", err)
	}

	exported := filepath.Join(dir, "export.nk")
	if err := host.Export(ctx, exported); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if host.Current() != saved {
		t.Fatal("export must not change the current document")
	}
	if err := host.Reference(ctx, "/lib/plate.exr"); err != nil {
		t.Fatalf("Reference failed: %v", err)
	}
	if got := host.References(); !reflect.DeepEqual(got, []string{"/lib/plate.exr"}) {
		t.Fatalf("unexpected references %v", got)
	}
}

func TestFileHostFrameRange(t *testing.T) {
	ctx := context.Background()
	host := environment.NewFileHost()
	if err := host.SetFrameRange(ctx, 1001, 1100); err != nil {
		t.Fatalf("SetFrameRange failed: %v", err)
	}
	start, end, err := host.FrameRange(ctx)
	if err != nil || start != 1001 || end != 1100 {
		t.Fatalf("FrameRange = %d %d %v", start, end, err)
	}
	if err := host.SetFrameRange(ctx, 10, 5); !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := host.Open(ctx, "/does/not/exist.nk"); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
