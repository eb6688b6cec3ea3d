package arbor

/*
#cgo pkg-config: tree-sitter
#include <stdlib.h>
#include <tree_sitter/api.h>
*/
import "C"
import "unsafe"

// A Node is a single node within a syntax [Tree]. Nodes are borrowed
// references: navigation hands them out freely, they share the tree's
// storage, and they stay valid exactly as long as the tree does. A node
// keeps its tree reachable, so an unclosed tree cannot be collected while
// any of its nodes is live.
//
// A nil *Node means structural absence: no parent, no such child, no such
// field. Navigation methods return nil rather than an error for absence,
// and [Node.IsNull] treats a nil receiver as the null node.
type Node struct {
	c C.TSNode
	t *Tree // node is valid only as long as its tree
}

func newNode(c C.TSNode, t *Tree) *Node {
	if c.id == nil {
		return nil
	}
	return &Node{c: c, t: t}
}

// IsNull reports whether the node is the null node. It is safe to call on
// a nil receiver.
func (n *Node) IsNull() bool {
	return n == nil || n.c.id == nil
}

// IsNamed reports whether the node is named. Named nodes correspond to
// named rules in the grammar; anonymous nodes correspond to string
// literals such as punctuation and keywords.
func (n *Node) IsNamed() bool {
	return bool(C.ts_node_is_named(n.c))
}

// IsMissing reports whether the node was inserted by the parser to recover
// from a syntax error. Missing nodes span zero bytes.
func (n *Node) IsMissing() bool {
	return bool(C.ts_node_is_missing(n.c))
}

// IsExtra reports whether the node is an extra, such as a comment, that
// the grammar allows anywhere.
func (n *Node) IsExtra() bool {
	return bool(C.ts_node_is_extra(n.c))
}

// HasError reports whether the node or any of its descendants is a syntax
// error.
func (n *Node) HasError() bool {
	return bool(C.ts_node_has_error(n.c))
}

// IsError reports whether the node itself represents a syntax error: a
// stretch of input that could not be incorporated into the tree.
func (n *Node) IsError() bool {
	return bool(C.ts_node_is_error(n.c))
}

// Parent returns the node's immediate parent, or nil for the root.
func (n *Node) Parent() *Node {
	return newNode(C.ts_node_parent(n.c), n.t)
}

// NextSibling returns the following sibling, or nil if n is the last child.
func (n *Node) NextSibling() *Node {
	return newNode(C.ts_node_next_sibling(n.c), n.t)
}

// PrevSibling returns the preceding sibling, or nil if n is the first child.
func (n *Node) PrevSibling() *Node {
	return newNode(C.ts_node_prev_sibling(n.c), n.t)
}

// NextNamedSibling returns the following named sibling, or nil.
func (n *Node) NextNamedSibling() *Node {
	return newNode(C.ts_node_next_named_sibling(n.c), n.t)
}

// PrevNamedSibling returns the preceding named sibling, or nil.
func (n *Node) PrevNamedSibling() *Node {
	return newNode(C.ts_node_prev_named_sibling(n.c), n.t)
}

// Child returns the child at the given index, where zero is the first
// child, or nil if the index is out of range. The cost grows with i; use
// [Node.Children] or a [Cursor] to visit many children.
func (n *Node) Child(i uint32) *Node {
	return newNode(C.ts_node_child(n.c, C.uint32_t(i)), n.t)
}

// ChildCount returns the number of children, named and anonymous.
func (n *Node) ChildCount() uint32 {
	return uint32(C.ts_node_child_count(n.c))
}

// NamedChild returns the named child at the given index, or nil if the
// index is out of range.
func (n *Node) NamedChild(i uint32) *Node {
	return newNode(C.ts_node_named_child(n.c, C.uint32_t(i)), n.t)
}

// NamedChildCount returns the number of named children.
func (n *Node) NamedChildCount() uint32 {
	return uint32(C.ts_node_named_child_count(n.c))
}

// FieldNameForChild returns the field name of the child at the given index,
// or "" if that child has no field.
func (n *Node) FieldNameForChild(i uint32) string {
	return C.GoString(C.ts_node_field_name_for_child(n.c, C.uint32_t(i)))
}

// ChildByFieldName returns the first child with the given field name, or
// nil if no child carries it.
func (n *Node) ChildByFieldName(name string) *Node {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return newNode(C.ts_node_child_by_field_name(n.c, cName, C.uint32_t(len(name))), n.t)
}

// Walk returns a new [Cursor] positioned on n.
func (n *Node) Walk() *Cursor {
	return newCursor(n)
}

// ID returns an identifier for the node that is unique within its tree and
// stable for the tree's lifetime.
func (n *Node) ID() uintptr {
	return uintptr(n.c.id)
}

// String returns the S-expression rendering of the subtree rooted at n.
func (n *Node) String() string {
	p := C.ts_node_string(n.c)
	defer C.free(unsafe.Pointer(p))
	return C.GoString(p)
}

// Symbol returns the node's type as a numeric id in its grammar.
func (n *Node) Symbol() Symbol {
	return Symbol(C.ts_node_symbol(n.c))
}

// Type returns the node's type name, such as "binary_expression".
func (n *Node) Type() string {
	return C.GoString(C.ts_node_type(n.c))
}

// Language returns the grammar that produced the node.
func (n *Node) Language() *Language {
	return &Language{ptr: C.ts_node_language(n.c)}
}

// StartByte returns the byte offset where the node starts.
func (n *Node) StartByte() uint32 {
	return uint32(C.ts_node_start_byte(n.c))
}

// EndByte returns the byte offset one past where the node ends.
func (n *Node) EndByte() uint32 {
	return uint32(C.ts_node_end_byte(n.c))
}

// StartPoint returns the row and column where the node starts.
func (n *Node) StartPoint() Point {
	p := C.ts_node_start_point(n.c)
	return Point{Row: uint32(p.row), Column: uint32(p.column)}
}

// EndPoint returns the row and column one past where the node ends.
func (n *Node) EndPoint() Point {
	p := C.ts_node_end_point(n.c)
	return Point{Row: uint32(p.row), Column: uint32(p.column)}
}

// ByteRange returns the node's span as byte offsets.
func (n *Node) ByteRange() Extent[uint32] {
	return Extent[uint32]{Start: n.StartByte(), End: n.EndByte()}
}

// PointRange returns the node's span as row and column positions.
func (n *Node) PointRange() Extent[Point] {
	return Extent[Point]{Start: n.StartPoint(), End: n.EndPoint()}
}

// Content returns the slice of source that the node spans, as a string.
// It must be given the same buffer the tree was parsed from.
func (n *Node) Content(source []byte) string {
	return string(source[n.StartByte():n.EndByte()])
}

// Equal reports whether two nodes are the same node of the same tree.
func (n *Node) Equal(other *Node) bool {
	if other == nil {
		return false
	}
	return bool(C.ts_node_eq(n.c, other.c))
}
