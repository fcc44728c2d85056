package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reel/internal/environment"
	"reel/internal/faults"
	"reel/internal/logging"
	"reel/internal/numbering"
	"reel/internal/version"
)

// targetFlags select the versionable a command works on: a shot when
// --shot is given, else a project-level asset.
type targetFlags struct {
	project  string
	sequence string
	shot     string
	asset    string
}

func (f *targetFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.project, "project", "p", "", "Project name or code")
	flags.StringVarP(&f.sequence, "sequence", "s", "", "Sequence name or code")
	flags.StringVar(&f.shot, "shot", "", "Shot number or code")
	flags.StringVar(&f.asset, "asset", "", "Asset name")
}

func (f *targetFlags) isSet() bool {
	return f.project != "" || f.sequence != "" || f.shot != "" || f.asset != ""
}

// resolve loads the versionable, creating its row on first use, and returns
// a context carrying its placement.
func (f *targetFlags) resolve(ctx context.Context, s *session) (context.Context, *version.Versionable, error) {
	if err := requireArg(f.project, "--project"); err != nil {
		return ctx, nil, err
	}
	p, err := s.project(ctx, f.project)
	if err != nil {
		return ctx, nil, err
	}
	if f.shot != "" {
		if err := requireArg(f.sequence, "--sequence"); err != nil {
			return ctx, nil, err
		}
		seq, err := s.sequence(ctx, p, f.sequence)
		if err != nil {
			return ctx, nil, err
		}
		shot, err := s.shot(ctx, seq, f.shot)
		if err != nil {
			return ctx, nil, err
		}
		owner, err := s.store.ShotVersionable(ctx, *p, *seq, shot)
		if err != nil {
			return ctx, nil, err
		}
		return logging.WithPlacement(ctx, p.Code, seq.Code, shot.Code), owner, nil
	}
	if err := requireArg(f.asset, "--asset or --shot"); err != nil {
		return ctx, nil, err
	}
	owner, err := s.store.AssetVersionable(ctx, *p, strings.TrimSpace(f.asset))
	if err != nil {
		return ctx, nil, err
	}
	return logging.WithPlacement(ctx, p.Code, "", ""), owner, nil
}

// baseName derives the series base name without touching the database:
// an explicit base, else the shot code, else the asset name.
func (f *targetFlags) baseName(s *session, explicit string) (string, error) {
	switch {
	case strings.TrimSpace(explicit) != "":
		return strings.TrimSpace(explicit), nil
	case f.shot != "":
		return s.ws.Shots().Code(f.shot)
	case f.asset != "":
		return strings.TrimSpace(f.asset), nil
	default:
		return "", fmt.Errorf("--base, --shot or --asset is required")
	}
}

// createFlags are the version-creation options shared by create and import.
type createFlags struct {
	target       targetFlags
	typeName     string
	base         string
	take         string
	version      int
	revision     int
	bumpRevision bool
	note         string
}

func (f *createFlags) register(cmd *cobra.Command) {
	f.target.register(cmd)
	flags := cmd.Flags()
	flags.StringVarP(&f.typeName, "type", "t", "", "Version type")
	flags.StringVar(&f.base, "base", "", "Base name for shot-independent types (defaults to the versionable name)")
	flags.StringVar(&f.take, "take", "", "Take name (defaults to the configured take)")
	flags.IntVar(&f.version, "version", 0, "Requested version number (0 takes the next)")
	flags.IntVar(&f.revision, "revision", 0, "Explicit revision number")
	flags.BoolVar(&f.bumpRevision, "bump-revision", false, "Start a new revision")
	flags.StringVarP(&f.note, "note", "m", "", "Note stored with the version")
}

func (f *createFlags) spec(cmd *cobra.Command, s *session, owner *version.Versionable, extension string) version.Spec {
	take := f.take
	if strings.TrimSpace(take) == "" {
		take = s.ws.DefaultTake()
	}
	spec := version.Spec{
		Versionable:  owner,
		TypeName:     f.typeName,
		BaseName:     f.base,
		TakeName:     take,
		Version:      f.version,
		BumpRevision: f.bumpRevision,
		Note:         f.note,
		Author:       s.ws.Author(),
		Extension:    extension,
	}
	if cmd.Flags().Changed("revision") {
		revision := f.revision
		spec.Revision = &revision
	}
	return spec
}

// create validates the extension against the type's environments and
// creates the version, retrying when another writer takes the number.
func (f *createFlags) create(ctx context.Context, cmd *cobra.Command, s *session, extension string) (*version.Version, error) {
	if err := requireArg(f.typeName, "--type"); err != nil {
		return nil, err
	}
	if err := checkEnvironment(s, f.typeName, extension); err != nil {
		return nil, err
	}
	ctx, owner, err := f.target.resolve(ctx, s)
	if err != nil {
		return nil, err
	}
	spec := f.spec(cmd, s, owner, extension)
	return retryDuplicate(s.logger, func() (*version.Version, error) {
		return s.service.Create(ctx, spec)
	})
}

func checkEnvironment(s *session, typeName, extension string) error {
	if extension == "" {
		return nil
	}
	typ, err := s.ws.Types().Lookup(typeName)
	if err != nil {
		return err
	}
	kind, ok := s.ws.Catalog().KindFor("file" + normalizeExt(extension))
	if !ok || typ.ValidIn(kind) {
		return nil
	}
	return faults.Wrap(faults.ErrValidation, "cli", "version", fmt.Sprintf("type %s is not authored in %s", typ.Name(), kind), nil)
}

func normalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

type versionView struct {
	ID         int64     `json:"id"`
	Type       string    `json:"type"`
	BaseName   string    `json:"base_name"`
	TakeName   string    `json:"take_name"`
	Version    int       `json:"version"`
	Revision   int       `json:"revision"`
	Author     string    `json:"author,omitempty"`
	Initials   string    `json:"initials,omitempty"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	Path       string    `json:"path,omitempty"`
	FileName   string    `json:"file_name,omitempty"`
	FullPath   string    `json:"full_path,omitempty"`
	OutputPath string    `json:"output_path,omitempty"`
	RenderErr  string    `json:"render_error,omitempty"`
}

func newVersionView(s *session, v *version.Version) versionView {
	view := versionView{
		ID:        v.ID,
		Type:      v.TypeName(),
		BaseName:  v.BaseName(),
		TakeName:  v.TakeName(),
		Version:   v.VersionNumber(),
		Revision:  v.RevisionNumber(),
		Author:    v.Author().Name,
		Initials:  v.Author().Initials,
		Note:      v.Note,
		CreatedAt: v.CreatedAt,
	}
	paths, err := s.service.Paths(v)
	if err != nil {
		view.RenderErr = err.Error()
		return view
	}
	view.Path = s.ws.Relative(paths.Path)
	view.FileName = paths.FileName
	view.FullPath = s.ws.Relative(paths.FullPath)
	if paths.OutputPath != "" {
		view.OutputPath = s.ws.Relative(paths.OutputPath)
	}
	return view
}

func printVersion(cmd *cobra.Command, verb string, view versionView) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s %s v%03d r%02d\n", verb, view.BaseName, view.Type, view.Version, view.Revision)
	if view.RenderErr != "" {
		fmt.Fprintf(out, "  paths: %s\n", view.RenderErr)
		return
	}
	fmt.Fprintf(out, "  file:   %s\n", view.FileName)
	fmt.Fprintf(out, "  path:   %s\n", view.FullPath)
	if view.OutputPath != "" {
		fmt.Fprintf(out, "  output: %s\n", view.OutputPath)
	}
}

func newVersionCommand(ctx *commandContext) *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Create and query versions",
	}
	versionCmd.AddCommand(newVersionCreateCommand(ctx))
	versionCmd.AddCommand(newVersionListCommand(ctx))
	versionCmd.AddCommand(newVersionLatestCommand(ctx))
	versionCmd.AddCommand(newVersionNextCommand(ctx))
	versionCmd.AddCommand(newVersionImportCommand(ctx))
	return versionCmd
}

func newVersionCreateCommand(ctx *commandContext) *cobra.Command {
	var (
		flags     createFlags
		extension string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record the next version of an asset or shot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, s *session) error {
				v, err := flags.create(c, cmd, s, normalizeExt(extension))
				if err != nil {
					return err
				}
				view := newVersionView(s, v)
				if asJSON {
					return writeJSON(cmd, view)
				}
				printVersion(cmd, "Created", view)
				return nil
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&extension, "ext", "", "File extension of the saved file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newVersionImportCommand(ctx *commandContext) *cobra.Command {
	var (
		flags  createFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Create a version and copy FILE to its rendered path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, func(c context.Context, s *session) error {
				host, err := s.ws.Host(environment.Standalone)
				if err != nil {
					return err
				}
				if err := host.Open(c, source); err != nil {
					return err
				}
				v, err := flags.create(c, cmd, s, filepath.Ext(source))
				if err != nil {
					return err
				}
				paths, err := s.service.Paths(v)
				if err != nil {
					return err
				}
				if err := os.MkdirAll(paths.Path, 0o755); err != nil {
					return fmt.Errorf("create version folder: %w", err)
				}
				if err := host.Save(c, paths.FullPath); err != nil {
					return fmt.Errorf("version %d recorded but copy failed: %w", v.VersionNumber(), err)
				}
				s.logger.Info("version imported",
					logging.String(logging.FieldEventType, "version_imported"),
					logging.String("source", source),
					logging.String("path", paths.FullPath),
				)
				view := newVersionView(s, v)
				if asJSON {
					return writeJSON(cmd, view)
				}
				printVersion(cmd, "Imported", view)
				return nil
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newVersionListCommand(ctx *commandContext) *cobra.Command {
	var (
		target   targetFlags
		typeName string
		base     string
		take     string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List versions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, s *session) error {
				filter := version.Filter{TypeName: typeName, BaseName: base, TakeName: take}
				if target.isSet() {
					_, owner, err := target.resolve(c, s)
					if err != nil {
						return err
					}
					filter.VersionableID = owner.ID
				}
				versions, err := s.service.List(c, filter)
				if err != nil {
					return err
				}
				views := make([]versionView, 0, len(versions))
				for _, v := range versions {
					views = append(views, newVersionView(s, v))
				}
				if asJSON {
					return writeJSON(cmd, views)
				}
				rows := make([][]string, 0, len(views))
				for _, v := range views {
					rows = append(rows, []string{
						strconv.FormatInt(v.ID, 10), v.Type, v.BaseName, v.TakeName,
						strconv.Itoa(v.Version), strconv.Itoa(v.Revision), v.Initials,
						v.CreatedAt.Local().Format("2006-01-02 15:04"), v.FileName,
					})
				}
				printTable(cmd, "No versions", []string{"ID", "Type", "Base", "Take", "Ver", "Rev", "By", "Created", "File"}, rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight})
				return nil
			})
		},
	}
	target.register(cmd)
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Filter by version type")
	cmd.Flags().StringVar(&base, "base", "", "Filter by base name")
	cmd.Flags().StringVar(&take, "take", "", "Filter by take name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newVersionLatestCommand(ctx *commandContext) *cobra.Command {
	var (
		target targetFlags
		base   string
		take   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the latest version of a series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, s *session) error {
				key, err := seriesKey(s, &target, base, take)
				if err != nil {
					return err
				}
				latest, err := s.service.Latest(c, key)
				if err != nil {
					return err
				}
				if !latest.Found {
					if asJSON {
						return writeJSON(cmd, map[string]any{"key": key.String(), "found": false})
					}
					fmt.Fprintf(cmd.OutOrStdout(), "No versions of %s\n", key)
					return nil
				}
				view := newVersionView(s, latest.Record)
				if asJSON {
					return writeJSON(cmd, view)
				}
				printVersion(cmd, "Latest", view)
				return nil
			})
		},
	}
	target.register(cmd)
	cmd.Flags().StringVar(&base, "base", "", "Series base name")
	cmd.Flags().StringVar(&take, "take", "", "Take name (defaults to the configured take)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newVersionNextCommand(ctx *commandContext) *cobra.Command {
	var (
		target targetFlags
		base   string
		take   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the number the next version of a series would take",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, s *session) error {
				key, err := seriesKey(s, &target, base, take)
				if err != nil {
					return err
				}
				next, revision, err := s.service.Next(c, key)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, map[string]any{"key": key.String(), "version": next, "revision": revision})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: next version %d, revision %d\n", key, next, revision)
				return nil
			})
		},
	}
	target.register(cmd)
	cmd.Flags().StringVar(&base, "base", "", "Series base name")
	cmd.Flags().StringVar(&take, "take", "", "Take name (defaults to the configured take)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func seriesKey(s *session, target *targetFlags, base, take string) (numbering.Key, error) {
	name, err := target.baseName(s, base)
	if err != nil {
		return numbering.Key{}, err
	}
	if strings.TrimSpace(take) == "" {
		take = s.ws.DefaultTake()
	}
	return numbering.Key{BaseName: name, Take: strings.TrimSpace(take)}, nil
}
