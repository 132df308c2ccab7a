package linkorder

import (
	"fmt"
	"strings"
)

// LinkDirective is one entry of the resolver's output: the search path
// and de-wrapped library name a build system needs to construct its
// linker flags for one archive.
type LinkDirective struct {
	// SearchPath is the directory containing the archive (-L flag).
	SearchPath string

	// Library is the bare library name with the lib prefix and .a
	// suffix stripped (-l flag).
	Library string
}

// Directives maps an ordered library list to its link directives,
// preserving order. Libraries whose file name does not follow the
// lib<name>.a convention never enter the catalog, so every entry yields
// a directive.
func Directives(ordered []*LibraryDescriptor) []LinkDirective {
	directives := make([]LinkDirective, 0, len(ordered))
	for _, lib := range ordered {
		name, ok := lib.LinkName()
		if !ok {
			continue
		}
		directives = append(directives, LinkDirective{
			SearchPath: lib.Dir(),
			Library:    name,
		})
	}
	return directives
}

// LinkerArgs renders directives as linker command-line arguments:
// search paths first, deduplicated in first-use order, then the -l
// flags in link order. The -l order is what single-pass linkers care
// about; -L flags are position-independent.
func LinkerArgs(directives []LinkDirective) []string {
	var args []string
	seen := make(map[string]struct{})
	for _, d := range directives {
		if _, ok := seen[d.SearchPath]; ok {
			continue
		}
		seen[d.SearchPath] = struct{}{}
		args = append(args, "-L"+d.SearchPath)
	}
	for _, d := range directives {
		args = append(args, "-l"+d.Library)
	}
	return args
}

// CgoLDFLAGS renders directives as a cgo directive line suitable for
// pasting into a Go source file that links against the resolved
// libraries.
func CgoLDFLAGS(directives []LinkDirective) string {
	args := LinkerArgs(directives)
	if len(args) == 0 {
		return ""
	}
	return fmt.Sprintf("#cgo LDFLAGS: %s", strings.Join(args, " "))
}
