package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"reel/internal/config"
	"reel/internal/deps"
	"reel/internal/environment"
	"reel/internal/store"
	"reel/internal/vtype"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCreatable verifies that the parent folder of filePath exists and is
// writable, or that the nearest existing ancestor is, so the folder can be
// created on first use.
func CheckCreatable(name, filePath string) Result {
	if strings.TrimSpace(filePath) == "" {
		return Result{Name: name, Detail: "path not configured"}
	}
	dir := filepath.Dir(filePath)
	for current := dir; ; current = filepath.Dir(current) {
		info, err := os.Stat(current)
		if err == nil {
			if !info.IsDir() {
				return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s is not a directory)", dir, current)}
			}
			if err := unix.Access(current, unix.W_OK|unix.X_OK); err != nil {
				return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s not writable: %v)", dir, current, err)}
			}
			if current == dir {
				return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (writable)", dir)}
			}
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", dir)}
		}
		if !os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", current, err)}
		}
		if parent := filepath.Dir(current); parent == current {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing ancestor)", dir)}
		}
	}
}

// CheckRepoVariable reports how the repo variable resolves. An unset
// variable passes; stored paths then resolve against the projects root.
func CheckRepoVariable(cfg *config.Config) Result {
	name := "$" + cfg.Paths.RepoVariable
	value, ok := os.LookupEnv(cfg.Paths.RepoVariable)
	value = strings.TrimSpace(value)
	switch {
	case !ok || value == "":
		return Result{Name: name, Passed: true, Detail: "unset (using projects root)"}
	case filepath.Clean(value) == filepath.Clean(cfg.Paths.ProjectsRoot):
		return Result{Name: name, Passed: true, Detail: value}
	default:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (differs from projects root %s)", value, cfg.Paths.ProjectsRoot)}
	}
}

// CheckTemplates validates every type's templates without rendering them.
func CheckTemplates(types *vtype.Registry, separator string) []Result {
	results := make([]Result, 0, len(types.Types()))
	for _, t := range types.Types() {
		name := "Type " + t.Name()
		if err := t.Check(); err != nil {
			results = append(results, Result{Name: name, Detail: err.Error()})
			continue
		}
		if separator != "" && strings.Contains(t.Name(), separator) {
			results = append(results, Result{Name: name, Detail: fmt.Sprintf("name contains separator %q", separator)})
			continue
		}
		results = append(results, Result{Name: name, Passed: true, Detail: "templates ok"})
	}
	return results
}

// CheckDatabase opens the configured database and verifies its schema.
func CheckDatabase(_ context.Context, cfg *config.Config) Result {
	const name = "Database"
	st, err := store.Open(cfg)
	if err != nil {
		if errors.Is(err, store.ErrSchemaMismatch) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v; move the file aside to start fresh)", cfg.Paths.Database, err)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.Paths.Database, err)}
	}
	_ = st.Close()
	return Result{Name: name, Passed: true, Detail: cfg.Paths.Database}
}

// CheckHostBinaries reports whether the launcher of every host named by
// types is on PATH. Hosts are optional, so a missing launcher still passes.
func CheckHostBinaries(types *vtype.Registry) []Result {
	var kinds []environment.Kind
	for _, typ := range types.Types() {
		kinds = append(kinds, typ.Environments()...)
	}
	statuses := deps.CheckBinaries(deps.HostRequirements(kinds))
	results := make([]Result, 0, len(statuses))
	for _, status := range statuses {
		detail := status.Detail
		if !status.Available && status.Optional {
			detail += " (optional)"
		}
		results = append(results, Result{
			Name:   status.Name,
			Passed: status.Available || status.Optional,
			Detail: detail,
		})
	}
	return results
}
