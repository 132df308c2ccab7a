package linkorder

import "strings"

// SymbolName is the identity of a symbol for matching purposes: its raw
// byte sequence, carried as a string so it can key maps. The bytes are
// not guaranteed to be valid UTF-8; use String for display.
type SymbolName string

// String renders the symbol name for diagnostics, replacing any invalid
// UTF-8 sequences. Matching always uses the raw bytes, never this form.
func (n SymbolName) String() string {
	return strings.ToValidUTF8(string(n), "�")
}

// DefinedSymbol is a symbol an archive member exports for use by other
// code.
//
// DefinedSymbol and UndefinedSymbol share the same identity space (the
// raw name bytes) but are distinct types so that a definition can never
// be passed where a reference is expected, or vice versa.
type DefinedSymbol struct {
	Name SymbolName
}

// String returns the display form of the symbol name.
func (s DefinedSymbol) String() string {
	return s.Name.String()
}

// UndefinedSymbol is a symbol an archive member references but does not
// itself supply. It must be resolved by some other library.
type UndefinedSymbol struct {
	Name SymbolName
}

// String returns the display form of the symbol name.
func (s UndefinedSymbol) String() string {
	return s.Name.String()
}
