package arbor

/*
#cgo pkg-config: tree-sitter
#include <tree_sitter/api.h>
*/
import "C"
import "runtime"

// A Tree is the owning handle on one parsed syntax tree. The tree owns the
// storage behind every [Node] derived from it; nodes and cursors borrow
// from the tree and keep it reachable, so the finalizer only runs once the
// last derived handle is gone. Close releases the tree early; after an
// explicit Close no derived handle may be used.
type Tree struct {
	c      *C.TSTree
	closed bool
}

func newTree(c *C.TSTree) *Tree {
	t := &Tree{c: c}
	runtime.SetFinalizer(t, (*Tree).Close)
	return t
}

// Close frees the engine-side tree. It is safe to call more than once.
func (t *Tree) Close() {
	if !t.closed {
		C.ts_tree_delete(t.c)
	}
	t.closed = true
}

// RootNode returns the root of the tree. The root is never nil: even an
// empty or entirely malformed input parses to a tree with a root.
func (t *Tree) RootNode() *Node {
	return newNode(C.ts_tree_root_node(t.c), t)
}

// Language returns the grammar the tree was parsed with.
func (t *Tree) Language() *Language {
	return &Language{ptr: C.ts_tree_language(t.c)}
}

// HasError reports whether any part of the input failed to parse.
func (t *Tree) HasError() bool {
	return t.RootNode().HasError()
}

// Walk returns a new [Cursor] positioned on the root node.
func (t *Tree) Walk() *Cursor {
	return t.RootNode().Walk()
}
