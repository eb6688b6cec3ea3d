package arbor

/*
#cgo pkg-config: tree-sitter
#include <stdlib.h>
#include <tree_sitter/api.h>
*/
import "C"
import "unsafe"

// A Symbol is the numeric id of a node type within one grammar. Symbols are
// only meaningful relative to the Language that produced them.
type Symbol uint16

// NoSymbol is the sentinel returned by [Language.SymbolForName] when the
// grammar defines no node type with the requested name.
const NoSymbol Symbol = 0

// Grammar ABI versions accepted by the linked tree-sitter runtime.
const (
	LanguageVersion              uint32 = C.TREE_SITTER_LANGUAGE_VERSION
	MinCompatibleLanguageVersion uint32 = C.TREE_SITTER_MIN_COMPATIBLE_LANGUAGE_VERSION
)

// A Language is a grammar descriptor: the compiled definition of one
// language's syntax. Descriptors are static data owned by the grammar
// package that exports them; a Language borrows and never needs freeing,
// and one Language may back any number of parsers and trees.
type Language struct {
	ptr *C.TSLanguage
}

// NewLanguage wraps a raw grammar descriptor, as returned by the Language
// function of a generated grammar package. It returns nil for a nil pointer.
func NewLanguage(ptr unsafe.Pointer) *Language {
	if ptr == nil {
		return nil
	}
	return &Language{ptr: (*C.TSLanguage)(ptr)}
}

// SymbolCount returns the number of distinct node types in the grammar.
// Valid symbols are the ids below this count.
func (l *Language) SymbolCount() uint32 {
	return uint32(C.ts_language_symbol_count(l.ptr))
}

// SymbolName returns the node type name for the given symbol id, or an
// *InvalidSymbolError if the id is out of range for the grammar.
func (l *Language) SymbolName(sym Symbol) (string, error) {
	if uint32(sym) >= l.SymbolCount() {
		return "", &InvalidSymbolError{Symbol: sym}
	}
	return C.GoString(C.ts_language_symbol_name(l.ptr, C.TSSymbol(sym))), nil
}

// SymbolForName returns the symbol id for the node type with the given
// name. Named selects between the named and anonymous namespaces, which may
// both contain the same spelling. It returns [NoSymbol] when the grammar has
// no such type; name lookups never fail with an error.
func (l *Language) SymbolForName(name string, named bool) Symbol {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return Symbol(C.ts_language_symbol_for_name(l.ptr, cName, C.uint32_t(len(name)), C.bool(named)))
}

// Version returns the grammar's ABI version. [NewParser] accepts grammars
// whose version lies in [MinCompatibleLanguageVersion, LanguageVersion].
func (l *Language) Version() uint32 {
	return uint32(C.ts_language_abi_version(l.ptr))
}
