package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reel/internal/faults"
	"reel/internal/preflight"
	"reel/internal/vtype"
	"reel/internal/workspace"
)

type typeView struct {
	Name          string   `json:"name"`
	Code          string   `json:"code"`
	ShotDependent bool     `json:"shot_dependent"`
	Environments  []string `json:"environments,omitempty"`
	Path          string   `json:"path"`
	FileName      string   `json:"filename,omitempty"`
	Output        string   `json:"output,omitempty"`
}

func newTypeView(t *vtype.Type) typeView {
	templates := t.Templates()
	v := typeView{
		Name:          t.Name(),
		Code:          t.Code(),
		ShotDependent: t.ShotDependent(),
		Path:          templates.Path,
		FileName:      templates.FileName,
		Output:        templates.Output,
	}
	for _, kind := range t.Environments() {
		v.Environments = append(v.Environments, kind.String())
	}
	return v
}

func newTypeCommand(ctx *commandContext) *cobra.Command {
	typeCmd := &cobra.Command{
		Use:   "type",
		Short: "Inspect configured version types",
	}
	typeCmd.AddCommand(newTypeListCommand(ctx))
	typeCmd.AddCommand(newTypeValidateCommand(ctx))
	return typeCmd
}

func newTypeListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List version types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ctx.workspace()
			if err != nil {
				return err
			}
			views := make([]typeView, 0, len(ws.Types().Names()))
			for _, t := range ws.Types().Types() {
				views = append(views, newTypeView(t))
			}
			if asJSON {
				return writeJSON(cmd, views)
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				envs := strings.Join(v.Environments, ", ")
				if envs == "" {
					envs = "any"
				}
				rows = append(rows, []string{v.Name, v.Code, yesNo(v.ShotDependent), envs, v.Path})
			}
			printTable(cmd, "No version types", []string{"Name", "Code", "Per shot", "Environments", "Path"}, rows, nil)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newTypeValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every version type's templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			types, err := workspace.BuildRegistry(cfg.VersionTypes)
			if err != nil {
				return err
			}
			results := preflight.CheckTemplates(types, cfg.Naming.Separator)
			printResults(cmd, results)
			if preflight.Failed(results) {
				return faults.Wrap(faults.ErrConfiguration, "cli", "type validate", "one or more version types are invalid", nil)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d version type(s) valid\n", len(results))
			return nil
		},
	}
}
