package vtype_test

import (
	"errors"
	"strings"
	"testing"

	"reel/internal/environment"
	"reel/internal/faults"
	"reel/internal/vtype"
)

func mustType(t *testing.T, def vtype.Definition) *vtype.Type {
	t.Helper()
	typ, err := vtype.New(def)
	if err != nil {
		t.Fatalf("New(%+v) failed: %v", def, err)
	}
	return typ
}

func TestNewDefaults(t *testing.T) {
	typ := mustType(t, vtype.Definition{
		Name:         " Comp ",
		Path:         "Comp",
		Environments: []environment.Kind{environment.Nuke, environment.Nuke},
	})
	if typ.Name() != "Comp" || typ.Code() != "COMP" {
		t.Fatalf("unexpected identity %q %q", typ.Name(), typ.Code())
	}
	if got := typ.Environments(); len(got) != 1 || got[0] != environment.Nuke {
		t.Fatalf("unexpected environments %v", got)
	}
	if _, err := vtype.New(vtype.Definition{}); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error for empty name, got %v", err)
	}
}

func TestTypeIsImmutable(t *testing.T) {
	envs := []environment.Kind{environment.Maya}
	typ := mustType(t, vtype.Definition{Name: "ANIM", Environments: envs})
	envs[0] = environment.Nuke
	copied := typ.Environments()
	copied[0] = environment.Houdini
	if got := typ.Environments(); got[0] != environment.Maya {
		t.Fatalf("type environments changed through a shared slice: %v", got)
	}
}

func TestRegistryLookup(t *testing.T) {
	comp := mustType(t, vtype.Definition{Name: "COMP", Environments: []environment.Kind{environment.Nuke}})
	anim := mustType(t, vtype.Definition{Name: "ANIM", ShotDependent: true, Environments: []environment.Kind{environment.Maya}})
	model := mustType(t, vtype.Definition{Name: "MODEL"})
	reg, err := vtype.NewRegistry(comp, anim, model)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	got, err := reg.Lookup("anim")
	if err != nil || got != anim {
		t.Fatalf("Lookup(anim) = %v, %v", got, err)
	}
	if _, err := reg.Lookup("FX"); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := reg.Lookup("COMPP"); err == nil || !strings.Contains(err.Error(), "did you mean COMP?") {
		t.Fatalf("expected suggestion, got %v", err)
	}
	if name, ok := reg.ResolveTypeName("Comp"); !ok || name != "COMP" {
		t.Fatalf("ResolveTypeName = %q %v", name, ok)
	}
	if _, ok := reg.ResolveTypeName(""); ok {
		t.Fatal("expected empty name to be unresolved")
	}
	if names := reg.Names(); strings.Join(names, ",") != "COMP,ANIM,MODEL" {
		t.Fatalf("unexpected order %v", names)
	}

	maya := reg.ForEnvironment(environment.Maya)
	if len(maya) != 2 || maya[0] != anim || maya[1] != model {
		t.Fatalf("unexpected maya types %v", maya)
	}

	if err := reg.Register(mustType(t, vtype.Definition{Name: "comp"})); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected duplicate registration to fail, got %v", err)
	}
}

func TestRegistryValidate(t *testing.T) {
	good := mustType(t, vtype.Definition{
		Name:     "COMP",
		Path:     "{{project_code}}/{{sequence_code}}/comp/{{base_name}}",
		FileName: "{{base_name}}_{{version}}.{{extension}}",
	})
	bad := mustType(t, vtype.Definition{
		Name:     "LOOK_DEV",
		Path:     "{{project_code}}/{{colour}}",
		FileName: "{{base_name:2}}",
	})
	reg, err := vtype.NewRegistry(good, bad)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	err = reg.Validate("_")
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	for _, fragment := range []string{"contains separator", "colour", "does not take a padding"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in %v", fragment, err)
		}
	}
	if err := good.Check(); err != nil {
		t.Fatalf("expected valid templates, got %v", err)
	}
}
