package linkorder

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStaticArchive(t *testing.T) {
	cases := []struct {
		name  string
		match bool
	}{
		{"libfoo.a", true},
		{"libtinkwrap.a", true},
		{"lib.a", false},
		{"foo.a", false},
		{"libfoo.so", false},
		{"libfoo.a.txt", false},
		{"mylibfoo.a", false},
		{"libfoo", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.match, IsStaticArchive(tc.name))
		})
	}
}

func TestDiscoverLibraries(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeLibrary(t, fsys, "/build/liba.a", []string{"a_init"}, nil)
	writeLibrary(t, fsys, "/build/nested/deep/libb.a", []string{"b_init"}, []string{"a_init"})

	// Not archives: wrong name, wrong extension, plain files.
	require.NoError(t, afero.WriteFile(fsys, "/build/notalib.a", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/build/libc.so", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/build/README", []byte("x"), 0o644))

	libs, err := DiscoverLibraries(ScanConfig{Root: "/build", Fs: fsys, Logger: testLogger()})
	require.NoError(t, err)
	require.Len(t, libs, 2)

	assert.Equal(t, "liba.a", libs[0].Name)
	assert.Equal(t, "/build/liba.a", libs[0].Path)
	assert.Contains(t, libs[0].Defined, SymbolName("a_init"))

	assert.Equal(t, "libb.a", libs[1].Name)
	assert.Equal(t, []SymbolName{"a_init"}, libs[1].Undefined)

	name, ok := libs[0].LinkName()
	require.True(t, ok)
	assert.Equal(t, "a", name)
	assert.Equal(t, "/build", libs[0].Dir())
}

func TestDiscoverLibrariesDuplicateNames(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeLibrary(t, fsys, "/build/first/libdup.a", []string{"from_first"}, nil)
	writeLibrary(t, fsys, "/build/second/libdup.a", []string{"from_second"}, nil)

	libs, err := DiscoverLibraries(ScanConfig{Root: "/build", Fs: fsys, Logger: testLogger()})
	require.NoError(t, err)
	require.Len(t, libs, 1)

	// Walk order is lexical, so the first directory wins and the
	// survivor is stable across runs.
	assert.Equal(t, "/build/first/libdup.a", libs[0].Path)
	assert.Contains(t, libs[0].Defined, SymbolName("from_first"))
}

func TestDiscoverLibrariesUnreadableArchive(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/build/libjunk.a", []byte("no ar magic here"), 0o644))

	libs, err := DiscoverLibraries(ScanConfig{Root: "/build", Fs: fsys, Logger: testLogger()})
	require.NoError(t, err)
	require.Len(t, libs, 1)

	// A matching file that is not a readable archive still enters the
	// catalog; it just contributes no symbols.
	assert.Empty(t, libs[0].Defined)
	assert.Empty(t, libs[0].Undefined)
}

func TestDiscoverLibrariesMissingRoot(t *testing.T) {
	fsys := afero.NewMemMapFs()

	_, err := DiscoverLibraries(ScanConfig{Root: "/does/not/exist", Fs: fsys, Logger: testLogger()})
	assert.Error(t, err)
}

func TestDiscoverLibrariesParallel(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeLibrary(t, fsys, "/build/liba.a", []string{"a"}, []string{"b"})
	writeLibrary(t, fsys, "/build/libb.a", []string{"b"}, []string{"c"})
	writeLibrary(t, fsys, "/build/libc.a", []string{"c"}, nil)
	writeLibrary(t, fsys, "/build/libd.a", []string{"d"}, []string{"a"})

	sequential, err := DiscoverLibraries(ScanConfig{Root: "/build", Fs: fsys, Logger: testLogger()})
	require.NoError(t, err)

	parallel, err := DiscoverLibraries(ScanConfig{Root: "/build", Fs: fsys, Logger: testLogger(), Parallelism: 3})
	require.NoError(t, err)

	require.Len(t, parallel, len(sequential))
	for i := range sequential {
		assert.Equal(t, sequential[i].Name, parallel[i].Name)
		assert.Equal(t, sequential[i].Defined, parallel[i].Defined)
		assert.Equal(t, sequential[i].Undefined, parallel[i].Undefined)
	}
}
