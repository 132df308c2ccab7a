// Package linkorder determines the order in which static libraries
// must be passed to a single-pass linker.
//
// Given a directory tree containing compiled static archives, the
// package parses each archive's object members, merges their symbol
// tables, builds the inter-library dependency graph, and topologically
// sorts it so that every library appears before the libraries that
// satisfy its undefined symbols. The output is an ordered list of
// (search path, library name) pairs ready to become -L/-l flags.
//
// # Pipeline
//
//	DiscoverLibraries -> BuildSymbolTable -> OrderLibraries -> Directives
//
// Resolve runs the whole pipeline in one call:
//
//	result, err := linkorder.Resolve(linkorder.ScanConfig{Root: buildDir})
//	if err != nil {
//	    // *linkorder.CyclicDependencyError or
//	    // *linkorder.MultipleDefinitionsError
//	}
//	args := linkorder.LinkerArgs(result.Directives)
//
// # Failure modes
//
// Exactly two conditions are fatal:
//   - a cycle in the inter-library reference graph, for which no valid
//     single-pass link order exists (CyclicDependencyError)
//   - a symbol required somewhere and defined by two distinct
//     libraries (MultipleDefinitionsError)
//
// Everything else is tolerated: unreadable archives, members that do
// not parse as objects, symbols resolved by nothing in the scanned set
// (they may live in system libraries), and duplicate definitions that
// nothing references. A best-effort catalog over a heterogeneous build
// tree must not fail on one malformed file.
//
// # Building the wrapped library
//
// CMakeBuilder drives the native build that produces the archives in
// the first place, so a build script can configure, compile, scan and
// emit flags in one pass:
//
//	builder := &linkorder.CMakeBuilder{}
//	res, err := builder.Build(ctx, &linkorder.NativeBuildConfig{
//	    SourceDir: "third_party/tinkwrap",
//	})
//
// # Requirements
//
// Requires Go 1.25 or later. Archive members are expected to be ELF64
// relocatable objects; anything else is skipped.
package linkorder
