package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"reel/internal/faults"
	"reel/internal/logging"
	"reel/internal/project"
)

type shotView struct {
	Code        string `json:"code"`
	Number      string `json:"number"`
	StartFrame  int    `json:"start_frame"`
	EndFrame    int    `json:"end_frame"`
	Duration    int    `json:"duration"`
	Description string `json:"description,omitempty"`
}

func newShotView(shot project.Shot) shotView {
	return shotView{
		Code:        shot.Code,
		Number:      shot.Number,
		StartFrame:  shot.StartFrame(),
		EndFrame:    shot.EndFrame(),
		Duration:    shot.Duration(),
		Description: shot.Description,
	}
}

func newShotCommand(ctx *commandContext) *cobra.Command {
	shotCmd := &cobra.Command{
		Use:   "shot",
		Short: "Manage the shots of a sequence",
	}
	shotCmd.AddCommand(newShotAddCommand(ctx))
	shotCmd.AddCommand(newShotListCommand(ctx))
	shotCmd.AddCommand(newShotAlternateCommand(ctx))
	shotCmd.AddCommand(newShotFramesCommand(ctx))
	return shotCmd
}

func newShotAddCommand(ctx *commandContext) *cobra.Command {
	var (
		start, end int
		mkdir      bool
	)
	cmd := &cobra.Command{
		Use:   "add PROJECT SEQUENCE LIST",
		Short: "Add shots, e.g. \"10-40,45,12A\"",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			numbers, err := project.ParseShotList(args[2])
			if err != nil {
				return err
			}
			if len(numbers) == 0 {
				return faults.Wrap(faults.ErrValidation, "cli", "shot add", "shot list is empty", nil)
			}
			return ctx.withSession(cmd, func(c context.Context, s *session) error {
				p, seq, err := s.placement(c, args[0], args[1])
				if err != nil {
					return err
				}
				existing := append(project.ShotSet(nil), seq.Shots...)
				added, err := existing.Add(s.ws.Shots(), numbers...)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(added) == 0 {
					fmt.Fprintln(out, "No new shots")
					return nil
				}
				shots := make([]project.Shot, 0, len(added))
				for _, number := range added {
					shot, err := project.NewShot(s.ws.Shots(), number, start, end)
					if err != nil {
						return err
					}
					shots = append(shots, shot)
				}
				if err := s.store.AddShots(c, seq, shots); err != nil {
					return err
				}
				codes := make([]string, 0, len(shots))
				for _, shot := range shots {
					codes = append(codes, shot.Code)
				}
				if mkdir {
					if err := createFolders(seq.Structure.Folders(seq.Root(*p), codes)); err != nil {
						return err
					}
				}
				logging.WithContext(logging.WithPlacement(c, p.Code, seq.Code, ""), s.logger).Info("shots added",
					logging.String(logging.FieldEventType, "shots_added"),
					logging.Int("count", len(shots)),
				)
				fmt.Fprintf(out, "Added %d shot(s) to %s/%s\n", len(shots), p.Code, seq.Code)
				for _, code := range codes {
					fmt.Fprintf(out, "  %s\n", code)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&start, "start", 1001, "First frame")
	cmd.Flags().IntVar(&end, "end", 1100, "Last frame")
	cmd.Flags().BoolVar(&mkdir, "mkdir", false, "Create the sequence's per-shot folders")
	return cmd
}

func newShotListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list PROJECT SEQUENCE",
		Short: "List the shots of a sequence",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, s *session) error {
				_, seq, err := s.placement(c, args[0], args[1])
				if err != nil {
					return err
				}
				shots, err := s.store.Shots(c, seq.ID)
				if err != nil {
					return err
				}
				views := make([]shotView, 0, len(shots))
				for _, shot := range shots {
					views = append(views, newShotView(shot))
				}
				if asJSON {
					return writeJSON(cmd, views)
				}
				rows := make([][]string, 0, len(views))
				for _, v := range views {
					rows = append(rows, []string{
						v.Code, v.Number,
						strconv.Itoa(v.StartFrame), strconv.Itoa(v.EndFrame), strconv.Itoa(v.Duration),
						v.Description,
					})
				}
				printTable(cmd, "No shots", []string{"Code", "Number", "Start", "End", "Frames", "Description"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight})
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newShotAlternateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alternate PROJECT SEQUENCE SHOT",
		Short: "Add the next free alternate of a shot (12 -> 12A)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, s *session) error {
				_, seq, err := s.placement(c, args[0], args[1])
				if err != nil {
					return err
				}
				number, ok, err := s.ws.Shots().NextAlternate(args[2], seq.Shots)
				if err != nil {
					return err
				}
				if !ok {
					return faults.Wrap(faults.ErrConflict, "cli", "shot alternate", "every alternate of "+args[2]+" is taken", nil)
				}
				start, end := 1001, 1100
				if source, err := s.shot(c, seq, args[2]); err == nil {
					start, end = source.StartFrame(), source.EndFrame()
				} else if !errors.Is(err, faults.ErrNotFound) {
					return err
				}
				shot, err := project.NewShot(s.ws.Shots(), number, start, end)
				if err != nil {
					return err
				}
				shots := []project.Shot{shot}
				if err := s.store.AddShots(c, seq, shots); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (frames %d-%d)\n", shot.Code, shot.StartFrame(), shot.EndFrame())
				return nil
			})
		},
	}
	return cmd
}

func newShotFramesCommand(ctx *commandContext) *cobra.Command {
	var (
		start, end  int
		description string
	)
	cmd := &cobra.Command{
		Use:   "frames PROJECT SEQUENCE SHOT",
		Short: "Show or change a shot's frame range",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, s *session) error {
				_, seq, err := s.placement(c, args[0], args[1])
				if err != nil {
					return err
				}
				shot, err := s.shot(c, seq, args[2])
				if err != nil {
					return err
				}
				flags := cmd.Flags()
				changed := false
				if flags.Changed("start") {
					shot.SetStartFrame(start)
					changed = true
				}
				if flags.Changed("end") {
					shot.SetEndFrame(end)
					changed = true
				}
				if flags.Changed("description") {
					shot.Description = description
					changed = true
				}
				if changed {
					if err := s.store.UpdateShot(c, shot); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d-%d (%d frames)\n", shot.Code, shot.StartFrame(), shot.EndFrame(), shot.Duration())
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&start, "start", 0, "New first frame")
	cmd.Flags().IntVar(&end, "end", 0, "New last frame")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	return cmd
}

// placement loads a project and one of its sequences.
func (s *session) placement(ctx context.Context, projectValue, sequenceValue string) (*project.Project, *project.Sequence, error) {
	p, err := s.project(ctx, projectValue)
	if err != nil {
		return nil, nil, err
	}
	seq, err := s.sequence(ctx, p, sequenceValue)
	if err != nil {
		return nil, nil, err
	}
	return p, seq, nil
}

// shot loads a shot of seq by number or code.
func (s *session) shot(ctx context.Context, seq *project.Sequence, value string) (project.Shot, error) {
	code, err := s.ws.Shots().Code(value)
	if err != nil {
		return project.Shot{}, err
	}
	return s.store.Shot(ctx, seq.ID, code)
}

func createFolders(dirs []string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create folder %s: %w", dir, err)
		}
	}
	return nil
}
