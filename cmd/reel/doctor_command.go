package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reel/internal/faults"
	"reel/internal/preflight"
	"reel/internal/workspace"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check folders, database and version types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			types, typesErr := workspace.BuildRegistry(cfg.VersionTypes)
			results := preflight.RunAll(cmd.Context(), cfg, types)
			if typesErr != nil {
				results = append(results, preflight.Result{Name: "Version types", Detail: typesErr.Error()})
			}
			printResults(cmd, results)
			if preflight.Failed(results) {
				return faults.Wrap(faults.ErrPrecondition, "cli", "doctor", "one or more checks failed", nil)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All checks passed")
			return nil
		},
	}
}

func printResults(cmd *cobra.Command, results []preflight.Result) {
	out := cmd.OutOrStdout()
	color := shouldColorize(out)
	for _, r := range results {
		mark := colorize(color, ansiGreen, "ok  ")
		if !r.Passed {
			mark = colorize(color, ansiRed, "FAIL")
		}
		fmt.Fprintf(out, "%s %-20s %s\n", mark, r.Name, r.Detail)
	}
}
