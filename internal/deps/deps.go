// Package deps checks that host application launchers are installed.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"reel/internal/environment"
)

// Requirement defines an external program a pipeline step may launch.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// hostCommands holds the launcher looked up on PATH for each host.
// Standalone runs in-process and has none.
var hostCommands = map[environment.Kind]string{
	environment.Maya:    "maya",
	environment.Nuke:    "nuke",
	environment.Houdini: "houdini",
	environment.Blender: "blender",
}

// HostRequirements returns one optional requirement per distinct host in
// kinds, in the order the hosts first appear.
func HostRequirements(kinds []environment.Kind) []Requirement {
	seen := make(map[environment.Kind]bool, len(kinds))
	reqs := make([]Requirement, 0, len(kinds))
	for _, kind := range kinds {
		cmd, ok := hostCommands[kind]
		if !ok || seen[kind] {
			continue
		}
		seen[kind] = true
		reqs = append(reqs, Requirement{
			Name:        "Host " + kind.String(),
			Command:     cmd,
			Description: "Launches " + kind.String() + " scenes",
			Optional:    true,
		})
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Detail = resolved
		results = append(results, status)
	}
	return results
}
