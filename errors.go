package linkorder

import "fmt"

// The resolver surfaces exactly two fatal error kinds. Everything else
// the scan encounters (unreadable members, unparseable objects, symbols
// with no definition in the scanned set) is tolerated and contributes
// nothing.

// CyclicDependencyError reports that the inter-library reference graph
// contains a cycle, so no valid single-pass link order exists.
type CyclicDependencyError struct{}

func (e *CyclicDependencyError) Error() string {
	return "cannot determine link order: the dependency graph contains a cycle"
}

// MultipleDefinitionsError reports that a symbol required somewhere in
// the scanned set is defined by two distinct libraries, making
// resolution ambiguous. The pair is unordered.
type MultipleDefinitionsError struct {
	LibraryA string
	LibraryB string
	Symbol   DefinedSymbol
}

func (e *MultipleDefinitionsError) Error() string {
	return fmt.Sprintf("%s and %s define the same symbol %s", e.LibraryA, e.LibraryB, e.Symbol)
}
