package arbor

/*
#cgo pkg-config: tree-sitter
#include <tree_sitter/api.h>
*/
import "C"
import "runtime"

// A Cursor walks a syntax tree. It is always positioned on one node and
// remembers the path back to the node it started from, which makes
// repeated descent cheaper than the equivalent [Node] navigation and gives
// access to per-child field names during the walk.
//
// A cursor owns engine-side state: release it with Close, or leave it to
// the finalizer. Cursors must not be copied by assignment; [Cursor.Copy]
// produces an independent cursor at the same position.
type Cursor struct {
	c      C.TSTreeCursor
	t      *Tree // cursor is valid only as long as its tree
	closed bool
}

func newCursor(n *Node) *Cursor {
	c := &Cursor{c: C.ts_tree_cursor_new(n.c), t: n.t}
	runtime.SetFinalizer(c, (*Cursor).Close)
	return c
}

// Close frees the cursor's engine-side state. It is safe to call more than
// once.
func (c *Cursor) Close() {
	if !c.closed {
		C.ts_tree_cursor_delete(&c.c)
	}
	c.closed = true
}

// Copy returns an independent cursor at the same position, with the same
// ancestor path. The two cursors move separately from then on.
func (c *Cursor) Copy() *Cursor {
	cp := &Cursor{c: C.ts_tree_cursor_copy(&c.c), t: c.t}
	runtime.SetFinalizer(cp, (*Cursor).Close)
	return cp
}

// Reset re-initializes the cursor to start at a different node. The node's
// tree becomes the cursor's tree, and depth is measured from n afterward.
func (c *Cursor) Reset(n *Node) {
	c.t = n.t
	C.ts_tree_cursor_reset(&c.c, n.c)
}

// ResetTo re-initializes the cursor to the position of another cursor,
// keeping other's ancestor path. Unlike [Cursor.Reset] this preserves the
// ability to walk back up above the current node.
func (c *Cursor) ResetTo(other *Cursor) {
	c.t = other.t
	C.ts_tree_cursor_reset_to(&c.c, &other.c)
}

// CurrentNode returns the node the cursor is positioned on.
func (c *Cursor) CurrentNode() *Node {
	return newNode(C.ts_tree_cursor_current_node(&c.c), c.t)
}

// FieldName returns the field name of the current node within its parent,
// or "" if it has none.
func (c *Cursor) FieldName() string {
	return C.GoString(C.ts_tree_cursor_current_field_name(&c.c))
}

// Depth returns the number of edges between the current node and the node
// the cursor was constructed with or last Reset to.
func (c *Cursor) Depth() uint32 {
	return uint32(C.ts_tree_cursor_current_depth(&c.c))
}

// GotoParent moves the cursor to the parent of the current node. It
// reports whether the cursor moved; on false the cursor stays where it is.
func (c *Cursor) GotoParent() bool {
	return bool(C.ts_tree_cursor_goto_parent(&c.c))
}

// GotoFirstChild moves the cursor to the first child of the current node.
// It reports whether the cursor moved; on false the cursor stays where it
// is.
func (c *Cursor) GotoFirstChild() bool {
	return bool(C.ts_tree_cursor_goto_first_child(&c.c))
}

// GotoLastChild moves the cursor to the last child of the current node. It
// reports whether the cursor moved; on false the cursor stays where it is.
// This can be slower than [Cursor.GotoFirstChild] because the engine walks
// the children to compute the child's position.
func (c *Cursor) GotoLastChild() bool {
	return bool(C.ts_tree_cursor_goto_last_child(&c.c))
}

// GotoNextSibling moves the cursor to the next sibling of the current
// node. It reports whether the cursor moved; on false the cursor stays
// where it is.
func (c *Cursor) GotoNextSibling() bool {
	return bool(C.ts_tree_cursor_goto_next_sibling(&c.c))
}

// GotoPreviousSibling moves the cursor to the previous sibling of the
// current node. It reports whether the cursor moved; on false the cursor
// stays where it is. This can be slower than [Cursor.GotoNextSibling]
// because of how node positions are stored.
func (c *Cursor) GotoPreviousSibling() bool {
	return bool(C.ts_tree_cursor_goto_previous_sibling(&c.c))
}
