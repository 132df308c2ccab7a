package linkorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectives(t *testing.T) {
	ordered := []*LibraryDescriptor{
		{Name: "libwrap.a", Path: "/build/libwrap.a"},
		{Name: "libcore.a", Path: "/build/deps/libcore.a"},
	}

	directives := Directives(ordered)
	require.Len(t, directives, 2)
	assert.Equal(t, LinkDirective{SearchPath: "/build", Library: "wrap"}, directives[0])
	assert.Equal(t, LinkDirective{SearchPath: "/build/deps", Library: "core"}, directives[1])
}

func TestLinkerArgs(t *testing.T) {
	directives := []LinkDirective{
		{SearchPath: "/build", Library: "wrap"},
		{SearchPath: "/build/deps", Library: "core"},
		{SearchPath: "/build", Library: "extra"},
	}

	args := LinkerArgs(directives)

	// Search paths dedup in first-use order; -l flags keep link order.
	assert.Equal(t, []string{
		"-L/build",
		"-L/build/deps",
		"-lwrap",
		"-lcore",
		"-lextra",
	}, args)
}

func TestCgoLDFLAGS(t *testing.T) {
	directives := []LinkDirective{
		{SearchPath: "/build", Library: "tinkwrap"},
	}

	assert.Equal(t, "#cgo LDFLAGS: -L/build -ltinkwrap", CgoLDFLAGS(directives))
	assert.Equal(t, "", CgoLDFLAGS(nil))
}
