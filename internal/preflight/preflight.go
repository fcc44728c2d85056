package preflight

import (
	"context"

	"reel/internal/config"
	"reel/internal/vtype"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check for cfg. types may be nil when the registry
// could not be built; the template checks are then skipped.
func RunAll(ctx context.Context, cfg *config.Config, types *vtype.Registry) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Projects root", cfg.Paths.ProjectsRoot),
		CheckCreatable("Database directory", cfg.Paths.Database),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	results = append(results, CheckRepoVariable(cfg))
	if types != nil {
		results = append(results, CheckTemplates(types, cfg.Naming.Separator)...)
		results = append(results, CheckHostBinaries(types)...)
	}
	results = append(results, CheckDatabase(ctx, cfg))
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
