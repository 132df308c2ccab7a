package linkorder

import "sort"

// UndefinedReference pairs one undefined symbol occurrence with the
// library that requires it.
type UndefinedReference struct {
	Symbol    UndefinedSymbol
	Requester *LibraryDescriptor
}

// DuplicateDefinition records a symbol defined by two distinct
// libraries. A duplicate is harmless unless the symbol is also required
// somewhere; BuildSymbolTable promotes it to an error only then.
type DuplicateDefinition struct {
	Symbol DefinedSymbol
	First  *LibraryDescriptor
	Second *LibraryDescriptor
}

// SymbolTable merges the symbol information of a library set: which
// library owns each defined symbol, and every (undefined symbol,
// requesting library) pair.
type SymbolTable struct {
	// Defined maps each defined symbol to the library that defines it.
	// When more than one library defines a symbol (and nothing requires
	// it), the last one in catalog order owns the entry.
	Defined map[SymbolName]*LibraryDescriptor

	// Undefined lists every undefined symbol occurrence together with
	// its requester.
	Undefined []UndefinedReference

	duplicates []DuplicateDefinition
}

// Duplicates returns the multiply-defined symbols the table tolerated
// because nothing requires them. Diagnostic only.
func (t *SymbolTable) Duplicates() []DuplicateDefinition {
	return t.duplicates
}

// DefiningLibrary returns the library that defines the symbol an
// undefined reference names, if any library in the scanned set does.
func (t *SymbolTable) DefiningLibrary(sym UndefinedSymbol) (*LibraryDescriptor, bool) {
	lib, ok := t.Defined[sym.Name]
	return lib, ok
}

// BuildSymbolTable merges the libraries' symbol sets.
//
// If a symbol is defined by more than one library, the conflict is
// recorded but tolerated: real archives contain harmless duplicate
// internal helpers that nothing external references. Only when the
// duplicated symbol also appears somewhere in the undefined list does
// the ambiguity matter, and then BuildSymbolTable fails with a
// MultipleDefinitionsError naming both defining libraries.
func BuildSymbolTable(libs []*LibraryDescriptor) (*SymbolTable, error) {
	table := &SymbolTable{
		Defined: make(map[SymbolName]*LibraryDescriptor),
	}

	required := make(map[SymbolName]struct{})
	for _, lib := range libs {
		for name := range lib.Defined {
			if first, exists := table.Defined[name]; exists {
				table.duplicates = append(table.duplicates, DuplicateDefinition{
					Symbol: DefinedSymbol{Name: name},
					First:  first,
					Second: lib,
				})
			}
			table.Defined[name] = lib
		}
		for _, name := range lib.Undefined {
			table.Undefined = append(table.Undefined, UndefinedReference{
				Symbol:    UndefinedSymbol{Name: name},
				Requester: lib,
			})
			required[name] = struct{}{}
		}
	}

	// Defined sets iterate in map order, so sort the duplicates to keep
	// the reported conflict stable across runs.
	sort.Slice(table.duplicates, func(i, j int) bool {
		a, b := table.duplicates[i], table.duplicates[j]
		if a.Symbol.Name != b.Symbol.Name {
			return a.Symbol.Name < b.Symbol.Name
		}
		return a.First.Name < b.First.Name
	})

	for _, dup := range table.duplicates {
		if _, needed := required[dup.Symbol.Name]; needed {
			return nil, &MultipleDefinitionsError{
				LibraryA: dup.First.Name,
				LibraryB: dup.Second.Name,
				Symbol:   dup.Symbol,
			}
		}
	}

	return table, nil
}
