package vtype

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"reel/internal/environment"
	"reel/internal/faults"
	"reel/internal/render"
	"reel/internal/textutil"
)

// Definition is the mutable input used to build a Type.
type Definition struct {
	Name          string
	Code          string
	Path          string
	FileName      string
	Output        string
	ShotDependent bool
	Environments  []environment.Kind
}

// Type is a registered version type.
type Type struct {
	name         string
	code         string
	templates    render.Templates
	environments []environment.Kind
}

// New builds a Type. Name is required; Code defaults to the upper-cased
// name.
func New(def Definition) (*Type, error) {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "vtype", "new", "type name is required", nil)
	}
	code := strings.TrimSpace(def.Code)
	if code == "" {
		code = strings.ToUpper(name)
	}
	envs := slices.Clone(def.Environments)
	slices.Sort(envs)
	envs = slices.Compact(envs)
	return &Type{
		name: name,
		code: code,
		templates: render.Templates{
			Path:          strings.TrimSpace(def.Path),
			FileName:      strings.TrimSpace(def.FileName),
			Output:        strings.TrimSpace(def.Output),
			ShotDependent: def.ShotDependent,
		},
		environments: envs,
	}, nil
}

func (t *Type) Name() string { return t.name }

func (t *Type) Code() string { return t.code }

// Templates returns the type's templates as the renderer consumes them.
func (t *Type) Templates() render.Templates { return t.templates }

func (t *Type) ShotDependent() bool { return t.templates.ShotDependent }

// Environments returns the host kinds the type is valid in. An empty list
// means every environment.
func (t *Type) Environments() []environment.Kind {
	return slices.Clone(t.environments)
}

// ValidIn reports whether the type may be authored in kind.
func (t *Type) ValidIn(kind environment.Kind) bool {
	return len(t.environments) == 0 || slices.Contains(t.environments, kind)
}

// Check validates the type's templates offline.
func (t *Type) Check() error {
	var errs []error
	for label, template := range map[string]string{
		"path":     t.templates.Path,
		"filename": t.templates.FileName,
		"output":   t.templates.Output,
	} {
		if err := render.Check(template); err != nil {
			errs = append(errs, fmt.Errorf("type %s %s template: %w", t.name, label, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	return errors.Join(errs...)
}

// Registry holds the types of a project, keyed by name.
type Registry struct {
	order  []string
	byName map[string]*Type
}

// NewRegistry registers types in order.
func NewRegistry(types ...*Type) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Type)}
	for _, t := range types {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds t. Names are unique without regard to case.
func (r *Registry) Register(t *Type) error {
	if t == nil {
		return faults.Wrap(faults.ErrConfiguration, "vtype", "register", "nil type", nil)
	}
	if existing, ok := r.find(t.name); ok {
		return faults.Wrap(faults.ErrConfiguration, "vtype", "register", fmt.Sprintf("type %q already registered as %q", t.name, existing.name), nil)
	}
	r.byName[t.name] = t
	r.order = append(r.order, t.name)
	return nil
}

// Lookup finds a type by name.
func (r *Registry) Lookup(name string) (*Type, error) {
	if t, ok := r.find(strings.TrimSpace(name)); ok {
		return t, nil
	}
	return nil, faults.Wrap(faults.ErrNotFound, "vtype", "lookup", fmt.Sprintf("unknown version type %q", name)+textutil.DidYouMean(name, r.order), nil)
}

// ResolveTypeName maps a file-name type field to a registered type name.
func (r *Registry) ResolveTypeName(name string) (string, bool) {
	t, ok := r.find(name)
	if !ok {
		return "", false
	}
	return t.name, true
}

// Types returns every type in registration order.
func (r *Registry) Types() []*Type {
	out := make([]*Type, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Names returns every type name in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// ForEnvironment returns the types valid in kind.
func (r *Registry) ForEnvironment(kind environment.Kind) []*Type {
	var out []*Type
	for _, t := range r.Types() {
		if t.ValidIn(kind) {
			out = append(out, t)
		}
	}
	return out
}

// Validate checks every template and that no type name contains the file
// name separator, which would break decoding.
func (r *Registry) Validate(separator string) error {
	var errs []error
	for _, t := range r.Types() {
		if separator != "" && strings.Contains(t.name, separator) {
			errs = append(errs, faults.Wrap(faults.ErrConfiguration, "vtype", "validate", fmt.Sprintf("type name %q contains separator %q", t.name, separator), nil))
		}
		if err := t.Check(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) find(name string) (*Type, bool) {
	if name == "" {
		return nil, false
	}
	if t, ok := r.byName[name]; ok {
		return t, true
	}
	for _, candidate := range r.order {
		if strings.EqualFold(candidate, name) {
			return r.byName[candidate], true
		}
	}
	return nil, false
}
