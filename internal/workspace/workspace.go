package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"reel/internal/config"
	"reel/internal/environment"
	"reel/internal/faults"
	"reel/internal/logging"
	"reel/internal/naming"
	"reel/internal/padnum"
	"reel/internal/project"
	"reel/internal/render"
	"reel/internal/shotcode"
	"reel/internal/version"
	"reel/internal/vtype"
)

// Workspace is the explicit context object shared by the CLI, the legacy
// index and the version service.
type Workspace struct {
	cfg      *config.Config
	layout   naming.Layout
	codec    *naming.Codec
	shots    shotcode.Codec
	types    *vtype.Registry
	catalog  *environment.Catalog
	renderer *render.Renderer
	logger   *slog.Logger
}

// New derives a workspace from cfg. The configuration must already be
// validated.
func New(cfg *config.Config, logger *slog.Logger) (*Workspace, error) {
	if cfg == nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "workspace", "new", "configuration is required", nil)
	}
	types, err := BuildRegistry(cfg.VersionTypes)
	if err != nil {
		return nil, err
	}
	if err := types.Validate(cfg.Naming.Separator); err != nil {
		return nil, err
	}
	catalog, err := buildCatalog(cfg.Environments)
	if err != nil {
		return nil, err
	}

	layout := naming.Layout{
		Separator:    cfg.Naming.Separator,
		SubNameField: cfg.Naming.SubNameField,
		Revision:     padnum.New(cfg.Naming.RevisionPrefix, cfg.Naming.RevisionPadding),
		Version:      padnum.New(cfg.Naming.VersionPrefix, cfg.Naming.VersionPadding),
	}
	codec := naming.NewCodec(layout, types)

	ws := &Workspace{
		cfg:      cfg,
		layout:   layout,
		codec:    codec,
		shots:    shotcode.Codec{Prefix: cfg.Naming.ShotPrefix, Padding: cfg.Naming.ShotPadding},
		types:    types,
		catalog:  catalog,
		renderer: render.NewRenderer(cfg.Paths.ProjectsRoot, codec),
		logger:   logging.NewComponentLogger(logger, "workspace"),
	}
	ws.logger.Debug("workspace ready",
		logging.String("projects_root", cfg.Paths.ProjectsRoot),
		logging.Int("version_types", len(types.Names())),
		logging.Bool("sub_name_field", layout.SubNameField),
	)
	return ws, nil
}

// BuildRegistry turns configured version types into a registry without
// validating their templates.
func BuildRegistry(defs []config.VersionType) (*vtype.Registry, error) {
	reg, err := vtype.NewRegistry()
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		kinds := make([]environment.Kind, 0, len(def.Environments))
		for _, name := range def.Environments {
			kind, err := environment.ParseKind(name)
			if err != nil {
				return nil, fmt.Errorf("version type %s: %w", def.Name, err)
			}
			kinds = append(kinds, kind)
		}
		typ, err := vtype.New(vtype.Definition{
			Name:          def.Name,
			Code:          def.Code,
			Path:          def.Path,
			FileName:      def.FileName,
			Output:        def.Output,
			ShotDependent: def.ShotDependent,
			Environments:  kinds,
		})
		if err != nil {
			return nil, err
		}
		if err := reg.Register(typ); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func buildCatalog(envs []config.Environment) (*environment.Catalog, error) {
	entries := make(map[environment.Kind][]string, len(envs))
	for _, env := range envs {
		kind, err := environment.ParseKind(env.Name)
		if err != nil {
			return nil, err
		}
		entries[kind] = append(entries[kind], env.Extensions...)
	}
	return environment.NewCatalog(entries), nil
}

func (w *Workspace) Config() *config.Config { return w.cfg }

func (w *Workspace) Layout() naming.Layout { return w.layout }

func (w *Workspace) Codec() *naming.Codec { return w.codec }

func (w *Workspace) Shots() shotcode.Codec { return w.shots }

func (w *Workspace) Types() *vtype.Registry { return w.types }

func (w *Workspace) Catalog() *environment.Catalog { return w.catalog }

func (w *Workspace) Renderer() *render.Renderer { return w.renderer }

func (w *Workspace) Logger() *slog.Logger { return w.logger }

// ProjectsRoot returns the configured root folder.
func (w *Workspace) ProjectsRoot() string {
	return w.cfg.Paths.ProjectsRoot
}

// DefaultTake returns the configured default take name.
func (w *Workspace) DefaultTake() string {
	return w.cfg.Naming.DefaultTake
}

// Author returns the configured default author.
func (w *Workspace) Author() version.Author {
	return version.Author{Name: w.cfg.User.Name, Initials: w.cfg.User.Initials}
}

// NewProject builds a project rooted in the projects root.
func (w *Workspace) NewProject(name, code string) (project.Project, error) {
	return project.NewProject(name, code, w.ProjectsRoot())
}

// ProjectPath returns the folder of a project code.
func (w *Workspace) ProjectPath(code string) string {
	return filepath.Join(w.ProjectsRoot(), code)
}

// SequencePath returns the folder of a sequence.
func (w *Workspace) SequencePath(projectCode, sequenceCode string) string {
	return filepath.Join(w.ProjectsRoot(), projectCode, sequenceCode)
}

// Host returns the host adapter for kind. Only the Standalone file host is
// built in.
func (w *Workspace) Host(kind environment.Kind) (environment.Host, error) {
	if kind == environment.Standalone {
		return environment.NewFileHost(), nil
	}
	return nil, faults.Wrap(faults.ErrConfiguration, "workspace", "host", fmt.Sprintf("no adapter for %s in this process", kind), nil)
}

// Relative replaces the projects root at the start of path with the repo
// variable, e.g. "$REEL_REPO/NIGHT/SQ01". Paths outside the root are
// returned cleaned.
func (w *Workspace) Relative(path string) string {
	root := filepath.Clean(w.ProjectsRoot())
	cleaned := filepath.Clean(path)
	rel, err := filepath.Rel(root, cleaned)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return cleaned
	}
	token := "$" + w.cfg.Paths.RepoVariable
	if rel == "." {
		return token
	}
	return token + "/" + filepath.ToSlash(rel)
}

// Absolute expands a path produced by Relative. The repo variable resolves
// from the environment when set, else to the configured projects root.
func (w *Workspace) Absolute(path string) string {
	token := "$" + w.cfg.Paths.RepoVariable
	if path != token && !strings.HasPrefix(path, token+"/") {
		return filepath.Clean(path)
	}
	root := w.ProjectsRoot()
	if value, ok := os.LookupEnv(w.cfg.Paths.RepoVariable); ok && strings.TrimSpace(value) != "" {
		root = strings.TrimSpace(value)
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(path, token), "/")
	return filepath.Join(root, filepath.FromSlash(rest))
}
