package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"reel/internal/faults"
	"reel/internal/naming"
)

// Templates are the three templates of a version type plus its shot
// dependency flag.
type Templates struct {
	Path          string
	FileName      string
	Output        string
	ShotDependent bool
}

// Context is everything a template can draw on.
type Context struct {
	ProjectCode  string
	SequenceCode string
	ShotCode     string
	TypeName     string
	TypeCode     string
	BaseName     string
	SubName      string
	TakeName     string
	Revision     int
	Version      int
	UserInitials string
	Extension    string
	Notes        string
}

// Paths is the rendered path triple. FullPath joins Path and FileName.
type Paths struct {
	Path       string
	FileName   string
	FullPath   string
	OutputPath string
}

// PreconditionError is returned when rendering is attempted before the
// context needed for it is resolved.
type PreconditionError struct {
	Missing string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("render: missing %s", e.Missing)
}

// Is matches faults.ErrPrecondition.
func (e *PreconditionError) Is(target error) bool {
	return target == faults.ErrPrecondition
}

// Renderer resolves templates below a projects root. The naming codec
// supplies revision and version formatting and the canonical file name used
// when a type has no parametric file-name template.
type Renderer struct {
	root  string
	codec *naming.Codec
}

// NewRenderer builds a renderer rooted at projectsRoot.
func NewRenderer(projectsRoot string, codec *naming.Codec) *Renderer {
	if codec == nil {
		codec = naming.NewCodec(naming.DefaultLayout(), nil)
	}
	return &Renderer{root: projectsRoot, codec: codec}
}

// Root returns the projects root.
func (r *Renderer) Root() string {
	return r.root
}

// Render expands one template. Parametric templates are substituted and
// returned as is. A literal template is joined with the container root and
// the base name.
func (r *Renderer) Render(template string, ctx Context) string {
	v := r.resolve(ctx, false)
	if IsParametric(template) {
		return substitute(template, v)
	}
	return filepath.Join(r.containerRoot(ctx), template, v.baseName)
}

// Paths renders the full path triple for templates. The project code and the
// type name are required; shot-dependent types also require a shot code and
// use it as the base name.
func (r *Renderer) Paths(t Templates, ctx Context) (Paths, error) {
	if err := r.require(t, ctx); err != nil {
		return Paths{}, err
	}
	v := r.resolve(ctx, t.ShotDependent)

	var out Paths
	if IsParametric(t.Path) {
		out.Path = r.absolute(substitute(t.Path, v))
	} else {
		out.Path = filepath.Join(r.containerRoot(ctx), strings.TrimSpace(t.Path), v.baseName)
	}

	if IsParametric(t.FileName) {
		out.FileName = substitute(t.FileName, v)
	} else {
		name, err := r.canonicalFileName(v)
		if err != nil {
			return Paths{}, err
		}
		out.FileName = name
	}
	out.FullPath = filepath.Join(out.Path, out.FileName)

	switch {
	case strings.TrimSpace(t.Output) == "":
	case IsParametric(t.Output):
		out.OutputPath = r.absolute(substitute(t.Output, v))
	default:
		out.OutputPath = filepath.Join(r.containerRoot(ctx), strings.TrimSpace(t.Output), v.baseName)
	}
	return out, nil
}

func (r *Renderer) require(t Templates, ctx Context) error {
	switch {
	case strings.TrimSpace(ctx.TypeName) == "":
		return &PreconditionError{Missing: "version type"}
	case strings.TrimSpace(ctx.ProjectCode) == "":
		return &PreconditionError{Missing: "project"}
	case t.ShotDependent && strings.TrimSpace(ctx.ShotCode) == "":
		return &PreconditionError{Missing: "shot for shot-dependent type " + ctx.TypeName}
	case !t.ShotDependent && strings.TrimSpace(ctx.BaseName) == "":
		return &PreconditionError{Missing: "base name"}
	}
	return nil
}

func (r *Renderer) resolve(ctx Context, shotDependent bool) values {
	v := values{ctx: ctx, baseName: ctx.BaseName}
	if shotDependent {
		v.baseName = ctx.ShotCode
	}
	layout := r.codec.Layout()
	v.revision, _ = layout.Revision.Format(ctx.Revision)
	v.version, _ = layout.Version.Format(ctx.Version)
	return v
}

// canonicalFileName encodes the context with the naming codec. The take name
// fills the sub-name field when no sub name is set.
func (r *Renderer) canonicalFileName(v values) (string, error) {
	sub := v.ctx.SubName
	if sub == "" && r.codec.Layout().SubNameField {
		sub = v.ctx.TakeName
	}
	return r.codec.EncodeFile(naming.Record{
		BaseName:     v.baseName,
		SubName:      sub,
		TypeName:     v.ctx.TypeName,
		Revision:     v.ctx.Revision,
		HasRevision:  true,
		Version:      v.ctx.Version,
		HasVersion:   true,
		UserInitials: v.ctx.UserInitials,
		Notes:        v.ctx.Notes,
		Extension:    v.ctx.Extension,
	})
}

func (r *Renderer) containerRoot(ctx Context) string {
	if ctx.SequenceCode != "" {
		return filepath.Join(r.root, ctx.ProjectCode, ctx.SequenceCode)
	}
	return filepath.Join(r.root, ctx.ProjectCode)
}

func (r *Renderer) absolute(path string) string {
	if filepath.IsAbs(path) || r.root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(r.root, path)
}
