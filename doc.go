// Package arbor provides Go handles over tree-sitter syntax trees: parsing,
// tree ownership, node navigation, and cursor traversal, linked against the
// system tree-sitter runtime via cgo.
//
// # Handles
//
// The package deals in two kinds of values:
//
//   - Owning handles ([Parser], [Tree], [Cursor]) hold engine-side resources.
//     Each has a Close method that releases the resource and is safe to call
//     more than once; a finalizer backstops handles that are never closed.
//
//   - Borrowed handles ([Node], [Language]) are cheap values with no release
//     step. A Node borrows from the Tree it came from and keeps that Tree
//     reachable, so the garbage collector never frees a tree out from under
//     a live node.
//
// # Usage
//
// Construct a parser from a grammar, parse, and navigate:
//
//	lang := arbor.NewLanguage(tree_sitter_go.Language())
//	p, err := arbor.NewParser(lang)
//	if err != nil { ... }
//	defer p.Close()
//
//	tree := p.ParseString(src)
//	defer tree.Close()
//
//	root := tree.RootNode()
//	for child := range root.Children() {
//		fmt.Println(child.Type(), child.ByteRange())
//	}
//
// Parsing always yields a tree. Syntax errors appear inside the tree as
// error and missing nodes ([Node.HasError], [Node.IsError], [Node.IsMissing]);
// absent structure (no parent, no such child, no such field) is a nil *Node,
// never an error value.
//
// # Cursors
//
// A [Cursor] re-walks a tree faster than repeated [Node] navigation by
// keeping the path back to its origin. Its movement methods return false and
// leave the cursor in place when there is nowhere to go. Cursors are not
// copyable by assignment; [Cursor.Copy] makes an independent one.
//
// # Lifetimes
//
// Nodes and cursors are valid as long as their tree. Because they keep the
// tree reachable, the only way to invalidate them is to call [Tree.Close]
// while still holding them; don't. A [Parser] may be closed or reused freely
// once it has returned a tree, and trees it produced remain valid.
//
// Handles are not synchronized. Share a tree and its nodes within one
// goroutine; separate parsers and trees may be used on separate goroutines
// concurrently.
package arbor
