package linkorder

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// staticLibraryPattern matches the conventional static-archive file
// name, capturing the bare library name. Process-wide immutable
// configuration; compiled once at init.
var staticLibraryPattern = regexp.MustCompile(`^lib(.+)\.a$`)

// IsStaticArchive reports whether a file name follows the lib<name>.a
// static-archive naming convention.
func IsStaticArchive(name string) bool {
	return staticLibraryPattern.MatchString(name)
}

// staticLibraryName strips the lib prefix and .a suffix from an archive
// file name, e.g. "libtinkwrap.a" -> "tinkwrap".
func staticLibraryName(fileName string) (string, bool) {
	m := staticLibraryPattern.FindStringSubmatch(fileName)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// DiscoverLibraries recursively enumerates regular files under
// cfg.Root that match the static-archive naming convention, extracts
// each one's symbols, and assembles one LibraryDescriptor per distinct
// archive name.
//
// Files that do not match the convention, or that are not regular
// files, are silently excluded; that is a filter, not an error path.
// If two archives in different directories share a file name, the
// first one in walk order wins and the collision is logged.
func DiscoverLibraries(cfg ScanConfig) ([]*LibraryDescriptor, error) {
	fsys := cfg.fs()
	logger := cfg.logger()

	if _, err := fsys.Stat(cfg.Root); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", cfg.Root, err)
	}

	// afero.Walk visits entries in lexical order, so the survivor of a
	// name collision is stable across runs.
	var paths []string
	seen := make(map[string]string)
	walkErr := afero.Walk(fsys, cfg.Root, func(path string, info fs.FileInfo, err error) error {
		if err != nil || info == nil {
			return nil
		}
		if !info.Mode().IsRegular() || !IsStaticArchive(info.Name()) {
			return nil
		}
		if prev, ok := seen[info.Name()]; ok {
			logger.WithFields(logrus.Fields{
				"archive":   info.Name(),
				"kept":      prev,
				"discarded": path,
			}).Warn("duplicate archive name, keeping first discovered")
			return nil
		}
		seen[info.Name()] = path
		paths = append(paths, path)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scanning %s: %w", cfg.Root, walkErr)
	}

	symbols := extractAll(fsys, paths, cfg.Parallelism, logger)

	libs := make([]*LibraryDescriptor, 0, len(paths))
	for i, path := range paths {
		libs = append(libs, newDescriptor(path, symbols[i]))
	}
	sort.Slice(libs, func(i, j int) bool { return libs[i].Name < libs[j].Name })

	return libs, nil
}

// extractAll parses every archive, optionally on a bounded worker pool.
// Each result lands at its path's index, so the merge is independent of
// completion order.
func extractAll(fsys afero.Fs, paths []string, parallelism int, logger logrus.FieldLogger) []ArchiveSymbols {
	symbols := make([]ArchiveSymbols, len(paths))

	if parallelism < 2 || len(paths) < 2 {
		for i, path := range paths {
			symbols[i] = ExtractSymbols(fsys, path, logger)
		}
		return symbols
	}

	if parallelism > len(paths) {
		parallelism = len(paths)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(parallelism)
	for w := 0; w < parallelism; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				symbols[i] = ExtractSymbols(fsys, paths[i], logger)
			}
		}()
	}
	for i := range paths {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return symbols
}

func newDescriptor(path string, symbols ArchiveSymbols) *LibraryDescriptor {
	lib := &LibraryDescriptor{
		Name:    filepath.Base(path),
		Path:    path,
		Defined: make(map[SymbolName]struct{}, len(symbols.Defined)),
	}
	for _, sym := range symbols.Defined {
		lib.Defined[sym.Name] = struct{}{}
	}
	for _, sym := range symbols.Undefined {
		lib.Undefined = append(lib.Undefined, sym.Name)
	}
	return lib
}
