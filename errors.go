package arbor

import "fmt"

// An InvalidSymbolError is returned by [Language.SymbolName] when the symbol
// id is out of range for the grammar.
type InvalidSymbolError struct {
	Symbol Symbol
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("arbor: invalid symbol %d", e.Symbol)
}

// A LanguageError is returned by [NewParser] when the grammar was generated
// by a tree-sitter CLI whose ABI the linked runtime does not support.
type LanguageError struct {
	Version uint32
}

func (e *LanguageError) Error() string {
	return fmt.Sprintf("arbor: incompatible grammar ABI version %d (supported: %d through %d)",
		e.Version, MinCompatibleLanguageVersion, LanguageVersion)
}
