package linkorder

import (
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ScanConfig contains configuration for a resolution run.
//
// Only Root is required; the zero value of every other field selects a
// sensible default:
//   - Fs: the host filesystem
//   - Logger: a logger that only reports warnings
//   - Parallelism: sequential extraction
type ScanConfig struct {
	// Root is the directory under which static archives are discovered.
	Root string

	// Fs is the filesystem to scan. Defaults to the host filesystem.
	// Tests substitute an in-memory filesystem here.
	Fs afero.Fs

	// Logger receives debug/warning output for the non-fatal conditions
	// the scan tolerates (unreadable archives, name collisions,
	// duplicate definitions that are never referenced).
	Logger logrus.FieldLogger

	// Parallelism is the number of archives parsed concurrently.
	// Values below 2 select sequential extraction. Archive parsing is
	// read-only and per-file, so the result is identical either way.
	Parallelism int
}

func (c ScanConfig) fs() afero.Fs {
	if c.Fs != nil {
		return c.Fs
	}
	return afero.NewOsFs()
}

func (c ScanConfig) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

// LibraryDescriptor represents one discovered static archive.
//
// Identity and equality are defined by Name alone: if two archive files
// in different directories share a file name, only the first one
// discovered survives in the catalog (the collision is logged).
type LibraryDescriptor struct {
	// Name is the archive file name, e.g. "libtinkwrap.a".
	Name string

	// Path is the location of the archive on the scanned filesystem.
	Path string

	// Defined is the set of symbols this archive exports, with
	// duplicates within the archive collapsed.
	Defined map[SymbolName]struct{}

	// Undefined lists the symbols this archive requires, in the order
	// encountered. Duplicates are preserved; every occurrence maps back
	// to this library, so they do not affect correctness.
	Undefined []SymbolName
}

// LinkName returns the name to pass to a linker's -l flag: the file
// name with the conventional lib prefix and .a suffix stripped.
// Returns false if the file name does not follow the convention.
func (l *LibraryDescriptor) LinkName() (string, bool) {
	return staticLibraryName(l.Name)
}

// Dir returns the directory containing the archive, suitable for a
// linker search-path flag.
func (l *LibraryDescriptor) Dir() string {
	return filepath.Dir(l.Path)
}

func (l *LibraryDescriptor) String() string {
	return l.Name
}

// ResolveResult is the product of a successful resolution run.
type ResolveResult struct {
	// Ordered is the valid link order: for every library that requires
	// a symbol from another, the requester precedes the definer.
	Ordered []*LibraryDescriptor

	// Directives holds one (search-path, link-name) pair per ordered
	// library, ready for a build system to turn into linker flags.
	Directives []LinkDirective

	// Table is the symbol resolution table the order was derived from,
	// retained for diagnostics.
	Table *SymbolTable
}
