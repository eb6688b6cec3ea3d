package arbor

/*
#cgo pkg-config: tree-sitter
#include <stdlib.h>
#include <tree_sitter/api.h>

extern char *arborRead(void *payload, uint32_t byte_index, TSPoint position, uint32_t *bytes_read);
*/
import "C"

import (
	"runtime"
	"unsafe"

	pointer "github.com/mattn/go-pointer"
)

// A ReadFunc supplies source text to [Parser.ParseInput] in chunks. It
// receives a byte offset and the row/column position of that offset and
// returns the text starting there; returning an empty slice ends the input.
type ReadFunc func(offset uint32, position Point) []byte

// A Parser produces syntax trees from source text. It is bound to one
// grammar for its whole lifetime and may produce any number of trees, each
// independent of the parser and of each other. A parser is not safe for
// concurrent use; give each goroutine its own.
type Parser struct {
	c      *C.TSParser
	lang   *Language
	closed bool
}

// NewParser returns a parser for the given grammar. It returns a
// *LanguageError if the grammar's ABI version is outside the range the
// linked tree-sitter runtime supports.
func NewParser(lang *Language) (*Parser, error) {
	version := lang.Version()
	if version < MinCompatibleLanguageVersion || version > LanguageVersion {
		return nil, &LanguageError{Version: version}
	}
	p := &Parser{c: C.ts_parser_new(), lang: lang}
	C.ts_parser_set_language(p.c, lang.ptr)
	runtime.SetFinalizer(p, (*Parser).Close)
	return p, nil
}

// Close frees the parser. Trees it produced are unaffected. It is safe to
// call more than once.
func (p *Parser) Close() {
	if !p.closed {
		C.ts_parser_delete(p.c)
	}
	p.closed = true
}

// Language returns the grammar the parser was constructed with.
func (p *Parser) Language() *Language {
	return p.lang
}

// ParseString parses a complete in-memory buffer. Parsing always produces
// a tree: malformed input yields a tree whose nodes record the errors, and
// an empty buffer yields a tree with a zero-width root. The caller owns the
// returned tree.
func (p *Parser) ParseString(source []byte) *Tree {
	var src *C.char
	if len(source) > 0 {
		src = (*C.char)(unsafe.Pointer(&source[0]))
	}
	return newTree(C.ts_parser_parse_string(p.c, nil, src, C.uint32_t(len(source))))
}

type readPayload struct {
	read     ReadFunc
	cStrings []*C.char
}

//export arborRead
func arborRead(payload unsafe.Pointer, byteIndex C.uint32_t, position C.TSPoint, bytesRead *C.uint32_t) *C.char {
	pl := pointer.Restore(payload).(*readPayload)
	chunk := pl.read(uint32(byteIndex), Point{Row: uint32(position.row), Column: uint32(position.column)})
	*bytesRead = C.uint32_t(len(chunk))
	s := C.CString(string(chunk))
	pl.cStrings = append(pl.cStrings, s)
	return s
}

// ParseInput parses source text supplied in chunks by read, for sources
// that are streamed or not contiguous in memory. The resulting tree is the
// same as parsing the concatenated chunks with [Parser.ParseString].
func (p *Parser) ParseInput(read ReadFunc) *Tree {
	pl := &readPayload{read: read}
	defer func() {
		for _, s := range pl.cStrings {
			C.free(unsafe.Pointer(s))
		}
	}()

	cptr := pointer.Save(pl)
	defer pointer.Unref(cptr)

	input := C.TSInput{
		payload:  cptr,
		read:     (*[0]byte)(C.arborRead),
		encoding: C.TSInputEncodingUTF8,
	}
	return newTree(C.ts_parser_parse(p.c, nil, input))
}
