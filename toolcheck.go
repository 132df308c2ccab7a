package linkorder

import (
	"fmt"
	"os/exec"
	"strings"
)

// ToolChecker is an optional interface for components that require
// external tools.
//
// The CMake builder implements it so callers can fail fast with a clear
// message before attempting a build on a machine missing cmake or make.
type ToolChecker interface {
	// RequiredTools returns the list of tools this component needs.
	RequiredTools() []ToolRequirement

	// CheckTools verifies that all required tools are available.
	// Optional tools do not cause errors if missing.
	CheckTools() error
}

// ToolRequirement describes an external tool dependency.
//
// A requirement is satisfied by its primary Name or by any of its
// Alternatives; Optional requirements are checked but never fail.
type ToolRequirement struct {
	// Name is the primary tool binary name (e.g., "cmake").
	Name string

	// Alternatives are alternative tool names that can satisfy this
	// requirement. Example: []string{"gmake", "ninja"}
	Alternatives []string

	// Optional indicates this tool will not cause an error if missing.
	Optional bool

	// Purpose is a human-readable description of why the tool is
	// needed, included in error messages.
	Purpose string
}

// CheckToolAvailable checks if a tool is available in the system PATH.
func CheckToolAvailable(tool string) error {
	if _, err := exec.LookPath(tool); err != nil {
		return fmt.Errorf("%s not found in PATH", tool)
	}
	return nil
}

// CheckRequiredTools verifies all required tools are available,
// reporting every missing required tool in a single error.
func CheckRequiredTools(requirements []ToolRequirement) error {
	var missingTools []string

	for _, req := range requirements {
		found := CheckToolAvailable(req.Name) == nil

		if !found {
			for _, alt := range req.Alternatives {
				if CheckToolAvailable(alt) == nil {
					found = true
					break
				}
			}
		}

		if !found && !req.Optional {
			if req.Purpose != "" {
				missingTools = append(missingTools, fmt.Sprintf("%s (%s)", req.Name, req.Purpose))
			} else {
				missingTools = append(missingTools, req.Name)
			}
		}
	}

	if len(missingTools) == 0 {
		return nil
	}
	if len(missingTools) == 1 {
		return fmt.Errorf("%s not found in PATH", missingTools[0])
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missingTools, ", "))
}
