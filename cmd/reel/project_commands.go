package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reel/internal/faults"
	"reel/internal/logging"
	"reel/internal/project"
	"reel/internal/textutil"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Create and list projects",
	}
	projectCmd.AddCommand(newProjectCreateCommand(ctx))
	projectCmd.AddCommand(newProjectListCommand(ctx))
	return projectCmd
}

func newProjectCreateCommand(ctx *commandContext) *cobra.Command {
	var code string
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Register a project and create its folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, s *session) error {
				p, err := s.ws.NewProject(args[0], code)
				if err != nil {
					return err
				}
				if err := os.MkdirAll(p.Root, 0o755); err != nil {
					return fmt.Errorf("create project folder: %w", err)
				}
				stored := p
				stored.Root = s.ws.Relative(p.Root)
				if err := s.store.CreateProject(c, &stored); err != nil {
					return err
				}
				s.logger.Info("project created",
					logging.String(logging.FieldEventType, "project_created"),
					logging.String(logging.FieldProject, p.Code),
					logging.String("root", p.Root),
				)
				fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (code %s) at %s\n", p.Name, p.Code, p.Root)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "Project code (defaults to the canonical name)")
	return cmd
}

func newProjectListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, s *session) error {
				projects, err := s.store.Projects(c)
				if err != nil {
					return err
				}
				for _, p := range projects {
					p.Root = s.ws.Absolute(p.Root)
				}
				if asJSON {
					return writeJSON(cmd, projects)
				}
				rows := make([][]string, 0, len(projects))
				for _, p := range projects {
					rows = append(rows, []string{strconv.FormatInt(p.ID, 10), p.Name, p.Code, p.Root})
				}
				printTable(cmd, "No projects", []string{"ID", "Name", "Code", "Root"}, rows, []columnAlignment{alignRight})
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newSequenceCommand(ctx *commandContext) *cobra.Command {
	sequenceCmd := &cobra.Command{
		Use:   "sequence",
		Short: "Create and list sequences",
	}
	sequenceCmd.AddCommand(newSequenceCreateCommand(ctx))
	sequenceCmd.AddCommand(newSequenceListCommand(ctx))
	return sequenceCmd
}

func newSequenceCreateCommand(ctx *commandContext) *cobra.Command {
	var (
		code        string
		shotFolders []string
		folders     []string
	)
	cmd := &cobra.Command{
		Use:   "create PROJECT NAME",
		Short: "Register a sequence in a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, s *session) error {
				p, err := s.project(c, args[0])
				if err != nil {
					return err
				}
				seq, err := project.NewSequence(*p, args[1], code)
				if err != nil {
					return err
				}
				seq.Structure = project.Structure{ShotDependent: shotFolders, ShotIndependent: folders}
				if err := s.store.CreateSequence(c, &seq); err != nil {
					return err
				}
				root := seq.Root(*p)
				for _, dir := range append([]string{root}, seq.Structure.Folders(root, nil)...) {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						return fmt.Errorf("create sequence folder: %w", err)
					}
				}
				s.logger.Info("sequence created",
					logging.String(logging.FieldEventType, "sequence_created"),
					logging.String(logging.FieldProject, p.Code),
					logging.String(logging.FieldSequence, seq.Code),
				)
				fmt.Fprintf(cmd.OutOrStdout(), "Created sequence %s in %s at %s\n", seq.Code, p.Code, root)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "Sequence code (defaults to the canonical name)")
	cmd.Flags().StringSliceVar(&shotFolders, "shot-folder", nil, "Folder created once per shot (repeatable)")
	cmd.Flags().StringSliceVar(&folders, "folder", nil, "Folder created once per sequence (repeatable)")
	return cmd
}

func newSequenceListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list PROJECT",
		Short: "List the sequences of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, s *session) error {
				p, err := s.project(c, args[0])
				if err != nil {
					return err
				}
				sequences, err := s.store.Sequences(c, p.ID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, sequences)
				}
				rows := make([][]string, 0, len(sequences))
				for _, seq := range sequences {
					rows = append(rows, []string{
						seq.Code,
						seq.Name,
						strconv.Itoa(len(seq.Shots)),
						strings.Join(seq.Structure.ShotDependent, ", "),
						strings.Join(seq.Structure.ShotIndependent, ", "),
					})
				}
				printTable(cmd, "No sequences", []string{"Code", "Name", "Shots", "Shot folders", "Folders"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight})
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

// project loads a project by name or code. The stored root is expanded
// against this machine's projects root.
func (s *session) project(ctx context.Context, value string) (*project.Project, error) {
	code, err := project.CanonicalName(value)
	if err != nil {
		return nil, err
	}
	p, err := s.store.Project(ctx, code)
	if errors.Is(err, faults.ErrNotFound) {
		return nil, fmt.Errorf("%w%s", err, s.projectSuggestion(ctx, code))
	}
	if err != nil {
		return nil, err
	}
	p.Root = s.ws.Absolute(p.Root)
	return p, nil
}

func (s *session) projectSuggestion(ctx context.Context, code string) string {
	projects, err := s.store.Projects(ctx)
	if err != nil {
		return ""
	}
	codes := make([]string, 0, len(projects))
	for _, p := range projects {
		codes = append(codes, p.Code)
	}
	return textutil.DidYouMean(code, codes)
}

// sequence loads a sequence of p by name or code.
func (s *session) sequence(ctx context.Context, p *project.Project, value string) (*project.Sequence, error) {
	code, err := project.CanonicalName(value)
	if err != nil {
		return nil, err
	}
	return s.store.Sequence(ctx, p.ID, code)
}
