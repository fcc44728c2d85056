package render_test

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"reel/internal/faults"
	"reel/internal/naming"
	"reel/internal/render"
)

func newRenderer(root string) *render.Renderer {
	return render.NewRenderer(root, naming.NewCodec(naming.DefaultLayout(), naming.TypeSet{"Composition", "Modeling"}))
}

func compContext() render.Context {
	return render.Context{
		ProjectCode:  "NIGHT",
		SequenceCode: "SQ01",
		ShotCode:     "SH010",
		TypeName:     "Composition",
		TypeCode:     "COMP",
		BaseName:     "ignored",
		TakeName:     "MAIN",
		Revision:     1,
		Version:      7,
		UserInitials: "jd",
		Extension:    ".nk",
	}
}

func TestParametricTemplates(t *testing.T) {
	r := newRenderer("/projects")
	paths, err := r.Paths(render.Templates{
		Path:          "{{project_code}}/{{sequence_code}}/comp/{{base_name}}/{{take_name}}",
		FileName:      "{{base_name}}_{{type_code}}_{{take_name}}_{{revision}}_{{version}}.{{extension}}",
		Output:        "{{project_code}}/renders/{{base_name}}/v{{version_number:4}}",
		ShotDependent: true,
	}, compContext())
	if err != nil {
		t.Fatalf("Paths failed: %v", err)
	}
	want := render.Paths{
		Path:       "/projects/NIGHT/SQ01/comp/SH010/MAIN",
		FileName:   "SH010_COMP_MAIN_r01_v007.nk",
		FullPath:   "/projects/NIGHT/SQ01/comp/SH010/MAIN/SH010_COMP_MAIN_r01_v007.nk",
		OutputPath: "/projects/NIGHT/renders/SH010/v0007",
	}
	if paths != want {
		t.Fatalf("Paths = %+v\nwant %+v", paths, want)
	}
}

func TestLiteralTemplatesFallBack(t *testing.T) {
	r := newRenderer("/projects")
	ctx := compContext()
	ctx.SequenceCode = ""
	ctx.TypeName = "Modeling"
	ctx.BaseName = "Chair"
	ctx.Extension = "ma"
	paths, err := r.Paths(render.Templates{Path: "Assets/Models", Output: "Export"}, ctx)
	if err != nil {
		t.Fatalf("Paths failed: %v", err)
	}
	want := render.Paths{
		Path:       filepath.Join("/projects", "NIGHT", "Assets/Models", "Chair"),
		FileName:   "Chair_MAIN_Modeling_r01_v007_jd.ma",
		OutputPath: filepath.Join("/projects", "NIGHT", "Export", "Chair"),
	}
	want.FullPath = filepath.Join(want.Path, want.FileName)
	if paths != want {
		t.Fatalf("Paths = %+v\nwant %+v", paths, want)
	}
}

func TestUnknownPlaceholderLeftVerbatim(t *testing.T) {
	r := newRenderer("/projects")
	got := r.Render("{{base_name}}/{{colour_space}}/{{ version_number:2 }}", compContext())
	if got != "ignored/{{colour_space}}/07" {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r := newRenderer("/projects")
	template := "{{project_code}}/{{type_code}}/{{base_name}}_{{version}}"
	first := r.Render(template, compContext())
	for i := 0; i < 10; i++ {
		if got := r.Render(template, compContext()); got != first {
			t.Fatalf("render changed: %q vs %q", got, first)
		}
	}
}

func TestMissingContextIsPrecondition(t *testing.T) {
	r := newRenderer("/projects")
	cases := map[string]func(*render.Context){
		"type":      func(c *render.Context) { c.TypeName = "" },
		"project":   func(c *render.Context) { c.ProjectCode = "" },
		"shot code": func(c *render.Context) { c.ShotCode = "" },
	}
	for label, mutate := range cases {
		ctx := compContext()
		mutate(&ctx)
		_, err := r.Paths(render.Templates{Path: "comp", ShotDependent: true}, ctx)
		var pre *render.PreconditionError
		if !errors.As(err, &pre) {
			t.Fatalf("%s: expected PreconditionError, got %v", label, err)
		}
		if !errors.Is(err, faults.ErrPrecondition) {
			t.Fatalf("%s: expected precondition marker", label)
		}
	}
	ctx := compContext()
	ctx.BaseName = ""
	if _, err := r.Paths(render.Templates{Path: "comp"}, ctx); !errors.Is(err, faults.ErrPrecondition) {
		t.Fatalf("expected missing base name to fail, got %v", err)
	}
}

func TestCheck(t *testing.T) {
	if err := render.Check("{{project_code}}/{{base_name}}_v{{version_number:3}}"); err != nil {
		t.Fatalf("Check failed on a valid template: %v", err)
	}
	bad := map[string]string{
		"{{colour}}":        "unknown placeholder",
		"{{base_name:3}}":   "does not take a padding",
		"{{base_name}}/{{x": "unbalanced",
	}
	for template, fragment := range bad {
		err := render.Check(template)
		if !errors.Is(err, faults.ErrConfiguration) {
			t.Fatalf("Check(%q): expected configuration error, got %v", template, err)
		}
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("Check(%q): expected %q in %v", template, fragment, err)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	got := render.Placeholders()
	for _, name := range []string{"base_name", "sub_name", "type_code", "revision", "version_number", "user_initials", "extension", "sequence_code", "take_name"} {
		found := false
		for _, candidate := range got {
			if candidate == name {
				found = true
			}
		}
		if !found {
			t.Fatalf("placeholder %q missing from %v", name, got)
		}
	}
	if !sort.StringsAreSorted(got) {
		t.Fatalf("expected sorted output, got %v", got)
	}
}
