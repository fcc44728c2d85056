package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"reel/internal/faults"
	"reel/internal/numbering"
	"reel/internal/project"
	"reel/internal/store"
	"reel/internal/testsupport"
	"reel/internal/version"
)

func TestOpenCreatesSchemaAndReopens(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	if st.Path() != cfg.Paths.Database {
		t.Fatalf("unexpected path %q", st.Path())
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	again, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_ = again.Close()
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	_ = st.Close()

	db, err := sql.Open("sqlite", cfg.Paths.Database)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	if _, err := store.Open(cfg); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

func TestProjectsUniqueByCode(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ws := testsupport.NewWorkspace(t, cfg)
	ctx := context.Background()

	p := testsupport.NewProject(t, ws, st, "Night Shift")
	if p.ID == 0 || p.Code != "NIGHT_SHIFT" {
		t.Fatalf("unexpected project %+v", p)
	}
	dup, _ := ws.NewProject("night shift", "")
	if err := st.CreateProject(ctx, &dup); !errors.Is(err, faults.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	loaded, err := st.Project(ctx, "NIGHT_SHIFT")
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if *loaded != *p {
		t.Fatalf("loaded %+v, want %+v", loaded, p)
	}
	if _, err := st.Project(ctx, "MISSING"); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	all, err := st.Projects(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("Projects = %v, %v", all, err)
	}
}

func TestSequencesAndShots(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ws := testsupport.NewWorkspace(t, cfg)
	ctx := context.Background()
	p := testsupport.NewProject(t, ws, st, "Night")

	seq, err := project.NewSequence(*p, "Opening", "SQ01")
	if err != nil {
		t.Fatalf("NewSequence: %v", err)
	}
	seq.Structure = project.Structure{ShotDependent: []string{"comp", "anim"}, ShotIndependent: []string{"edit"}}
	if err := st.CreateSequence(ctx, &seq); err != nil {
		t.Fatalf("CreateSequence: %v", err)
	}
	dupSeq, _ := project.NewSequence(*p, "Other", "SQ01")
	if err := st.CreateSequence(ctx, &dupSeq); !errors.Is(err, faults.ErrConflict) {
		t.Fatalf("expected sequence code conflict, got %v", err)
	}

	var shots []project.Shot
	for _, number := range []string{"12", "2", "12A"} {
		shot, err := project.NewShot(ws.Shots(), number, 1001, 1010)
		if err != nil {
			t.Fatalf("NewShot(%s): %v", number, err)
		}
		shots = append(shots, shot)
	}
	if err := st.AddShots(ctx, &seq, shots); err != nil {
		t.Fatalf("AddShots: %v", err)
	}
	if shots[0].ID == 0 || shots[0].SequenceID != seq.ID {
		t.Fatalf("shot ids not filled: %+v", shots[0])
	}

	again, _ := project.NewShot(ws.Shots(), "2", 1, 1)
	if err := st.AddShots(ctx, &seq, []project.Shot{again}); !errors.Is(err, faults.ErrConflict) {
		t.Fatalf("expected shot conflict, got %v", err)
	}

	loaded, err := st.Sequence(ctx, p.ID, "SQ01")
	if err != nil {
		t.Fatalf("Sequence: %v", err)
	}
	want := []string{"2", "12", "12A"}
	if len(loaded.Shots) != len(want) {
		t.Fatalf("shots = %v, want %v", loaded.Shots, want)
	}
	for i := range want {
		if loaded.Shots[i] != want[i] {
			t.Fatalf("shots = %v, want %v", loaded.Shots, want)
		}
	}
	if len(loaded.Structure.ShotDependent) != 2 || loaded.Structure.ShotIndependent[0] != "edit" {
		t.Fatalf("structure not round tripped: %+v", loaded.Structure)
	}

	shot, err := st.Shot(ctx, seq.ID, "SH012A")
	if err != nil {
		t.Fatalf("Shot: %v", err)
	}
	shot.SetEndFrame(1200)
	shot.Description = "hero"
	if err := st.UpdateShot(ctx, shot); err != nil {
		t.Fatalf("UpdateShot: %v", err)
	}
	shot, _ = st.Shot(ctx, seq.ID, "SH012A")
	if shot.EndFrame() != 1200 || shot.Duration() != 200 || shot.Description != "hero" {
		t.Fatalf("update not persisted: %+v", shot)
	}

	sequences, err := st.Sequences(ctx, p.ID)
	if err != nil || len(sequences) != 1 || len(sequences[0].Shots) != 3 {
		t.Fatalf("Sequences = %v, %v", sequences, err)
	}
}

func TestVersionablesAreIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ws := testsupport.NewWorkspace(t, cfg)
	ctx := context.Background()
	p := testsupport.NewProject(t, ws, st, "Night")
	seq, shot := testsupport.NewShot(t, ws, st, p, "SQ01", "10")

	first, err := st.ShotVersionable(ctx, *p, *seq, shot)
	if err != nil {
		t.Fatalf("ShotVersionable: %v", err)
	}
	second, err := st.ShotVersionable(ctx, *p, *seq, shot)
	if err != nil {
		t.Fatalf("ShotVersionable again: %v", err)
	}
	if first.ID == 0 || first.ID != second.ID {
		t.Fatalf("expected the same versionable, got %d and %d", first.ID, second.ID)
	}
	if first.Placement.ShotCode != "SH010" || first.Placement.SequenceCode != "SQ01" {
		t.Fatalf("unexpected placement %+v", first.Placement)
	}

	asset, err := st.AssetVersionable(ctx, *p, "Chair")
	if err != nil {
		t.Fatalf("AssetVersionable: %v", err)
	}
	if asset.ID == first.ID || asset.Placement.ShotCode != "" {
		t.Fatalf("unexpected asset versionable %+v", asset)
	}
}

func newVersion(owner *version.Versionable, typ, base string, number, revision int) *version.Version {
	v := &version.Version{}
	v.SetAuthor(version.Author{Name: "Test Artist", Initials: "ta"})
	v.SetExtension(".nk")
	v.SetType(typ)
	v.SetBaseName(base)
	v.SetTakeName(version.DefaultTake)
	v.SetVersionNumber(number)
	v.SetRevision(revision)
	owner.Add(v)
	return v
}

func TestAddVersionReportsDuplicates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ws := testsupport.NewWorkspace(t, cfg)
	ctx := context.Background()
	p := testsupport.NewProject(t, ws, st, "Night")
	seq, shot := testsupport.NewShot(t, ws, st, p, "SQ01", "10")
	owner, _ := st.ShotVersionable(ctx, *p, *seq, shot)

	v := newVersion(owner, "COMP", "SH010", 1, 0)
	if err := st.AddVersion(ctx, v); err != nil {
		t.Fatalf("AddVersion: %v", err)
	}
	if v.ID == 0 {
		t.Fatal("expected version id")
	}

	clash := newVersion(owner, "LIGHT", "SH010", 1, 0)
	err := st.AddVersion(ctx, clash)
	var dup *numbering.DuplicateVersionError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateVersionError, got %v", err)
	}
	if dup.Version != 1 || dup.Key != (numbering.Key{BaseName: "SH010", Take: "MAIN"}) {
		t.Fatalf("unexpected duplicate %+v", dup)
	}
	if !errors.Is(err, faults.ErrConflict) {
		t.Fatal("expected conflict marker")
	}

	orphan := &version.Version{}
	orphan.SetVersionNumber(3)
	if err := st.AddVersion(ctx, orphan); !errors.Is(err, faults.ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestVersionsOrderAndFilter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ws := testsupport.NewWorkspace(t, cfg)
	ctx := context.Background()
	p := testsupport.NewProject(t, ws, st, "Night")
	seq, shot := testsupport.NewShot(t, ws, st, p, "SQ01", "10")
	owner, _ := st.ShotVersionable(ctx, *p, *seq, shot)

	for _, n := range []int{2, 1, 3} {
		if err := st.AddVersion(ctx, newVersion(owner, "COMP", "SH010", n, n-1)); err != nil {
			t.Fatalf("AddVersion(%d): %v", n, err)
		}
	}
	if err := st.AddVersion(ctx, newVersion(owner, "ANIM", "SH010", 4, 0)); err != nil {
		t.Fatalf("AddVersion(anim): %v", err)
	}

	all, err := st.Versions(ctx, version.Filter{BaseName: "SH010", TakeName: "MAIN"})
	if err != nil {
		t.Fatalf("Versions: %v", err)
	}
	if len(all) != 4 || all[0].VersionNumber() != 4 || all[3].VersionNumber() != 1 {
		t.Fatalf("unexpected order: %v", numbers(all))
	}

	comp, err := st.Versions(ctx, version.Filter{VersionableID: owner.ID, TypeName: "comp"})
	if err != nil {
		t.Fatalf("Versions(comp): %v", err)
	}
	if len(comp) != 3 || comp[0].VersionNumber() != 3 || comp[0].RevisionNumber() != 2 {
		t.Fatalf("unexpected comp versions: %v", numbers(comp))
	}
	got := comp[0]
	if got.Placement().ShotCode != "SH010" || got.Placement().ProjectCode != "NIGHT" {
		t.Fatalf("placement not joined: %+v", got.Placement())
	}
	if got.Author().Initials != "ta" || got.Extension() != ".nk" || got.CreatedAt.IsZero() {
		t.Fatalf("fields not round tripped: %+v", got.Snapshot())
	}

	byID, err := st.VersionByID(ctx, got.ID)
	if err != nil || byID.VersionNumber() != 3 {
		t.Fatalf("VersionByID = %v, %v", byID, err)
	}
	if _, err := st.VersionByID(ctx, 9999); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceCreatesVersionsThroughStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ws := testsupport.NewWorkspace(t, cfg)
	ctx := context.Background()
	p := testsupport.NewProject(t, ws, st, "Night")
	seq, shot := testsupport.NewShot(t, ws, st, p, "SQ01", "10")
	owner, _ := st.ShotVersionable(ctx, *p, *seq, shot)

	svc := version.NewService(st, ws.Types(), ws.Renderer(), ws.Logger())
	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, version.Spec{Versionable: owner, TypeName: "COMP", Author: ws.Author(), Extension: ".nk"}); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	// A requested number already in use moves past the maximum.
	v, err := svc.Create(ctx, version.Spec{Versionable: owner, TypeName: "COMP", Version: 2, Author: ws.Author(), Extension: ".nk"})
	if err != nil {
		t.Fatalf("Create requested: %v", err)
	}
	if v.VersionNumber() != 4 {
		t.Fatalf("expected corrected version 4, got %d", v.VersionNumber())
	}
	paths, err := svc.Paths(v)
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	if paths.FileName != "SH010_MAIN_COMP_r00_v004_ta.nk" {
		t.Fatalf("unexpected file name %q", paths.FileName)
	}
	next, revision, err := svc.Next(ctx, v.Key())
	if err != nil || next != 5 || revision != 0 {
		t.Fatalf("Next = %d, %d, %v", next, revision, err)
	}
}

func TestSyncTypesRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ws := testsupport.NewWorkspace(t, cfg)
	ctx := context.Background()

	if err := st.SyncTypes(ctx, ws.Types()); err != nil {
		t.Fatalf("SyncTypes: %v", err)
	}
	// Syncing twice updates in place.
	if err := st.SyncTypes(ctx, ws.Types()); err != nil {
		t.Fatalf("SyncTypes again: %v", err)
	}
	reg, err := st.Types(ctx)
	if err != nil {
		t.Fatalf("Types: %v", err)
	}
	if len(reg.Names()) != len(ws.Types().Names()) {
		t.Fatalf("names = %v, want %v", reg.Names(), ws.Types().Names())
	}
	light, err := reg.Lookup("LIGHT")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if light.Code() != "LGT" || !light.ShotDependent() || len(light.Environments()) != 2 {
		t.Fatalf("type not round tripped: %s %s %v", light.Name(), light.Code(), light.Environments())
	}
}

func numbers(versions []*version.Version) []int {
	out := make([]int, 0, len(versions))
	for _, v := range versions {
		out = append(out, v.VersionNumber())
	}
	return out
}
