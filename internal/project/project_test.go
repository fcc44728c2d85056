package project_test

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"reel/internal/faults"
	"reel/internal/project"
	"reel/internal/shotcode"
)

func TestCanonicalName(t *testing.T) {
	cases := map[string]string{
		"Big Buck bünny 2": "BIG_BUCK_BUNNY_2",
		"  spring--2026 ":  "SPRING_2026",
		"42 forest":        "FOREST",
		"Crème brûlée":     "CREME_BRULEE",
		"already_OK":       "ALREADY_OK",
	}
	for input, want := range cases {
		got, err := project.CanonicalName(input)
		if err != nil {
			t.Fatalf("CanonicalName(%q) failed: %v", input, err)
		}
		if got != want {
			t.Fatalf("CanonicalName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCanonicalNameRejectsEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "123", "--"} {
		_, err := project.CanonicalName(input)
		if !errors.Is(err, faults.ErrValidation) {
			t.Fatalf("CanonicalName(%q): expected validation error, got %v", input, err)
		}
	}
}

func TestNewProjectAndSequence(t *testing.T) {
	root := t.TempDir()
	p, err := project.NewProject("Night Shift", "", root)
	if err != nil {
		t.Fatalf("NewProject failed: %v", err)
	}
	if p.Name != "NIGHT_SHIFT" || p.Code != "NIGHT_SHIFT" {
		t.Fatalf("unexpected project %+v", p)
	}
	if p.Root != filepath.Join(root, "NIGHT_SHIFT") {
		t.Fatalf("unexpected root %q", p.Root)
	}

	seq, err := project.NewSequence(p, "opening", "sq01")
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}
	if seq.Name != "OPENING" || seq.Code != "SQ01" {
		t.Fatalf("unexpected sequence %+v", seq)
	}
	if got := seq.Root(p); got != filepath.Join(root, "NIGHT_SHIFT", "SQ01") {
		t.Fatalf("unexpected sequence root %q", got)
	}
}

func TestNewSequenceRequiresProject(t *testing.T) {
	_, err := project.NewSequence(project.Project{}, "opening", "")
	if !errors.Is(err, faults.ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestStructureFolders(t *testing.T) {
	s := project.Structure{
		ShotDependent:   []string{"Anim", "Comp/", ""},
		ShotIndependent: []string{"Edit", "Edit", "/Ref"},
	}
	got := s.Folders("/seq", []string{"SH010", "SH020"})
	want := []string{
		"/seq/Edit",
		"/seq/Ref",
		"/seq/Anim/SH010",
		"/seq/Anim/SH020",
		"/seq/Comp/SH010",
		"/seq/Comp/SH020",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Folders = %v, want %v", got, want)
	}
}

func TestShotDuration(t *testing.T) {
	shot, err := project.NewShot(shotcode.Default(), "10", 10, 10)
	if err != nil {
		t.Fatalf("NewShot failed: %v", err)
	}
	if shot.Duration() != 1 {
		t.Fatalf("expected duration 1, got %d", shot.Duration())
	}
	shot.SetEndFrame(109)
	if shot.Duration() != 100 || shot.StartFrame() != 10 {
		t.Fatalf("expected duration 100 from frame 10, got %d from %d", shot.Duration(), shot.StartFrame())
	}
}

func TestShotFrameDefaults(t *testing.T) {
	shot, err := project.NewShot(shotcode.Default(), "SH005b", 0, -4)
	if err != nil {
		t.Fatalf("NewShot failed: %v", err)
	}
	if shot.Number != "5B" || shot.Code != "SH005B" {
		t.Fatalf("unexpected identity %+v", shot)
	}
	if shot.StartFrame() != 1 || shot.EndFrame() != 1 {
		t.Fatalf("expected frames to default to 1, got %d-%d", shot.StartFrame(), shot.EndFrame())
	}

	shot.SetEndFrame(50)
	shot.SetStartFrame(80)
	if shot.StartFrame() != 80 || shot.EndFrame() != 80 || shot.Duration() != 1 {
		t.Fatalf("expected start past end to drag end, got %d-%d", shot.StartFrame(), shot.EndFrame())
	}
	shot.SetEndFrame(20)
	if shot.EndFrame() != 80 {
		t.Fatalf("expected end clamped to start, got %d", shot.EndFrame())
	}
}

func TestShotSetOrderedAndDeduplicated(t *testing.T) {
	codec := shotcode.Default()
	var set project.ShotSet
	added, err := set.Add(codec, "12", "3", "12A", "SH003", "1")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if !reflect.DeepEqual(added, []string{"12", "3", "12A", "1"}) {
		t.Fatalf("unexpected added %v", added)
	}
	if !reflect.DeepEqual([]string(set), []string{"1", "3", "12", "12A"}) {
		t.Fatalf("unexpected order %v", set)
	}
	if !set.Contains(codec, "SH012A") || set.Contains(codec, "4") {
		t.Fatal("Contains mismatch")
	}
	if _, err := set.Add(codec, "bad"); err == nil {
		t.Fatal("expected malformed number to fail")
	}
}

func TestParseShotList(t *testing.T) {
	got, err := project.ParseShotList("1-4, 7,12A,,")
	if err != nil {
		t.Fatalf("ParseShotList failed: %v", err)
	}
	want := []string{"1", "2", "3", "4", "7", "12A"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseShotList = %v, want %v", got, want)
	}
	for _, bad := range []string{"4-1", "a-3", "1-b"} {
		if _, err := project.ParseShotList(bad); !errors.Is(err, faults.ErrValidation) {
			t.Fatalf("ParseShotList(%q): expected validation error, got %v", bad, err)
		}
	}
}
