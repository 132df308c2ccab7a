package linkorder

import (
	"errors"
	"fmt"

	"github.com/dominikbraun/graph"
)

// DependencyGraph is the directed inter-library reference graph: an
// edge (dependent -> dependency) means the dependent requires a symbol
// the dependency defines. Vertices are keyed by library name.
type DependencyGraph = graph.Graph[string, *LibraryDescriptor]

// BuildDependencyGraph turns the resolved undefined references of the
// symbol table into directed edges between libraries.
//
// A reference whose symbol no scanned library defines is left alone: it
// may be satisfied by a system library outside the scanned set, and
// only an actual link failure downstream can tell. Self-edges are never
// materialized, and multiple shared symbols between the same pair of
// libraries collapse into one edge.
func BuildDependencyGraph(libs []*LibraryDescriptor, table *SymbolTable) (DependencyGraph, error) {
	g := graph.New(func(l *LibraryDescriptor) string { return l.Name }, graph.Directed())

	for _, lib := range libs {
		if err := g.AddVertex(lib); err != nil {
			return nil, fmt.Errorf("adding library %s: %w", lib.Name, err)
		}
	}

	for _, ref := range table.Undefined {
		definer, ok := table.DefiningLibrary(ref.Symbol)
		if !ok {
			continue
		}
		if definer == ref.Requester {
			continue
		}
		err := g.AddEdge(ref.Requester.Name, definer.Name)
		if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return nil, fmt.Errorf("adding dependency %s -> %s: %w", ref.Requester.Name, definer.Name, err)
		}
	}

	return g, nil
}

// OrderLibraries topologically sorts the dependency graph into a valid
// single-pass link order: every library precedes the libraries it
// depends on. Ties among independent libraries break on library name so
// that diagnostics are reproducible.
//
// Returns a CyclicDependencyError and no partial ordering if the graph
// contains a cycle.
func OrderLibraries(libs []*LibraryDescriptor, table *SymbolTable) ([]*LibraryDescriptor, error) {
	g, err := BuildDependencyGraph(libs, table)
	if err != nil {
		return nil, err
	}

	names, err := graph.StableTopologicalSort(g, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, &CyclicDependencyError{}
	}

	byName := make(map[string]*LibraryDescriptor, len(libs))
	for _, lib := range libs {
		byName[lib.Name] = lib
	}

	ordered := make([]*LibraryDescriptor, 0, len(names))
	for _, name := range names {
		ordered = append(ordered, byName[name])
	}
	return ordered, nil
}
