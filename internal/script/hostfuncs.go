package script

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/risor-io/risor/object"

	"github.com/jward/arbor"
	"github.com/jward/arbor/internal/languages"
)

// sourceStore tracks the source bytes behind each parsed tree. node_text
// needs to recover the original source from any node handed back by a
// script, so sources are keyed by root node identity and recovered by
// walking Parent() up to the root.
type sourceStore struct {
	mu      sync.RWMutex
	sources map[uintptr][]byte
}

func newSourceStore() *sourceStore {
	return &sourceStore{
		sources: make(map[uintptr][]byte),
	}
}

func (s *sourceStore) store(tree *arbor.Tree, src []byte) {
	key := tree.RootNode().ID()
	s.mu.Lock()
	s.sources[key] = src
	s.mu.Unlock()
}

// rootOf walks a node up to its root via Parent().
func rootOf(n *arbor.Node) *arbor.Node {
	for n.Parent() != nil {
		n = n.Parent()
	}
	return n
}

func (s *sourceStore) sourceForNode(n *arbor.Node) ([]byte, bool) {
	key := rootOf(n).ID()
	s.mu.RLock()
	src, ok := s.sources[key]
	s.mu.RUnlock()
	return src, ok
}

// Tree and Node mirror the arbor handles with a method set Risor's proxy
// layer can convert. The proxy builds a converter for every exported
// method at proxy time, and it has no converter for arbor.Node's iterator
// or generic range returns, so scripts get these restricted mirrors
// instead of the handles themselves. Each wrapper keeps its arbor handle
// referenced, which keeps the underlying tree alive for as long as the
// script holds it.
type Tree struct {
	tree *arbor.Tree
}

// RootNode returns the root of the parsed tree.
func (t *Tree) RootNode() *Node {
	return wrapNode(t.tree.RootNode())
}

// HasError reports whether the tree contains any syntax errors.
func (t *Tree) HasError() bool {
	return t.tree.HasError()
}

// Node is the script-facing view of a syntax node.
type Node struct {
	node *arbor.Node
}

func wrapNode(n *arbor.Node) *Node {
	if n == nil {
		return nil
	}
	return &Node{node: n}
}

func (n *Node) Type() string    { return n.node.Type() }
func (n *Node) IsNamed() bool   { return n.node.IsNamed() }
func (n *Node) IsMissing() bool { return n.node.IsMissing() }
func (n *Node) IsExtra() bool   { return n.node.IsExtra() }
func (n *Node) IsError() bool   { return n.node.IsError() }
func (n *Node) HasError() bool  { return n.node.HasError() }

func (n *Node) ChildCount() int      { return int(n.node.ChildCount()) }
func (n *Node) NamedChildCount() int { return int(n.node.NamedChildCount()) }

// Child returns the i'th child, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 {
		return nil
	}
	return wrapNode(n.node.Child(uint32(i)))
}

// NamedChild returns the i'th named child, or nil when out of range.
func (n *Node) NamedChild(i int) *Node {
	if i < 0 {
		return nil
	}
	return wrapNode(n.node.NamedChild(uint32(i)))
}

func (n *Node) Parent() *Node           { return wrapNode(n.node.Parent()) }
func (n *Node) NextSibling() *Node      { return wrapNode(n.node.NextSibling()) }
func (n *Node) PrevSibling() *Node      { return wrapNode(n.node.PrevSibling()) }
func (n *Node) NextNamedSibling() *Node { return wrapNode(n.node.NextNamedSibling()) }
func (n *Node) PrevNamedSibling() *Node { return wrapNode(n.node.PrevNamedSibling()) }

// ChildByFieldName returns the child attached under the given field name.
// Prefer the node_child host function in scripts: a missing field comes
// back from node_child as Risor nil rather than a proxied Go nil pointer.
func (n *Node) ChildByFieldName(name string) *Node {
	return wrapNode(n.node.ChildByFieldName(name))
}

// FieldNameForChild returns the field name of the i'th child, or "".
func (n *Node) FieldNameForChild(i int) string {
	if i < 0 {
		return ""
	}
	return n.node.FieldNameForChild(uint32(i))
}

func (n *Node) StartByte() int { return int(n.node.StartByte()) }
func (n *Node) EndByte() int   { return int(n.node.EndByte()) }

func (n *Node) StartRow() int    { return int(n.node.StartPoint().Row) }
func (n *Node) StartColumn() int { return int(n.node.StartPoint().Column) }
func (n *Node) EndRow() int      { return int(n.node.EndPoint().Row) }
func (n *Node) EndColumn() int   { return int(n.node.EndPoint().Column) }

// String returns the node's S-expression.
func (n *Node) String() string { return n.node.String() }

// makeParseFn creates the "parse" host function.
//
// parse(path) or parse(path, language) → Tree
//
// With one argument the language is detected from the file extension.
func makeParseFn(ss *sourceStore) *object.Builtin {
	return object.NewBuiltin("parse", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) < 1 || len(args) > 2 {
			return object.Errorf("parse: expected 1 or 2 arguments, got %d", len(args))
		}

		pathStr, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("parse: path must be a string, got %s", args[0].Type())
		}

		var langName string
		if len(args) == 2 {
			langStr, ok := args[1].(*object.String)
			if !ok {
				return object.Errorf("parse: language must be a string, got %s", args[1].Type())
			}
			langName = langStr.Value()
		} else {
			detected, ok := languages.ForFile(pathStr.Value())
			if !ok {
				return object.Errorf("parse: cannot detect language of %s", pathStr.Value())
			}
			langName = detected
		}

		src, err := os.ReadFile(pathStr.Value())
		if err != nil {
			return object.Errorf("parse: reading %s: %v", pathStr.Value(), err)
		}

		return parseSource(ss, src, langName)
	})
}

// makeParseSrcFn creates "parse_src" — accepts source text directly.
//
// parse_src(source, language) → Tree
func makeParseSrcFn(ss *sourceStore) *object.Builtin {
	return object.NewBuiltin("parse_src", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("parse_src", 2, len(args))
		}

		srcStr, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("parse_src: source must be a string, got %s", args[0].Type())
		}

		langStr, ok := args[1].(*object.String)
		if !ok {
			return object.Errorf("parse_src: language must be a string, got %s", args[1].Type())
		}

		return parseSource(ss, []byte(srcStr.Value()), langStr.Value())
	})
}

// parseSource is the shared implementation for parse and parse_src.
func parseSource(ss *sourceStore, src []byte, langName string) object.Object {
	grammar, ok := languages.Grammar(langName)
	if !ok {
		return object.Errorf("parse: unsupported language %q (supported: %s)",
			langName, strings.Join(languages.Names(), ", "))
	}

	parser, err := arbor.NewParser(grammar)
	if err != nil {
		return object.Errorf("parse: %v", err)
	}
	defer parser.Close()

	tree := parser.ParseString(src)
	ss.store(tree, src)

	proxy, err := object.NewProxy(&Tree{tree: tree})
	if err != nil {
		return object.Errorf("parse: proxy error: %v", err)
	}
	return proxy
}

// makeNodeTextFn creates the "node_text" host function.
//
// node_text(node) → string
//
// Exists because Risor's proxy system cannot convert strings to []byte
// for node.Content([]byte).
func makeNodeTextFn(ss *sourceStore) *object.Builtin {
	return object.NewBuiltin("node_text", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("node_text", 1, len(args))
		}

		node, errObj := unwrapNode("node_text", args[0])
		if errObj != nil {
			return errObj
		}

		src, found := ss.sourceForNode(node.node)
		if !found {
			return object.Errorf("node_text: no source found for node's tree")
		}

		return object.NewString(node.node.Content(src))
	})
}

// makeNodeChildFn creates "node_child" — safe wrapper for ChildByFieldName
// that returns Risor nil instead of a proxied Go nil pointer.
//
// node_child(node, fieldName) → Node or nil
func makeNodeChildFn() *object.Builtin {
	return object.NewBuiltin("node_child", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("node_child", 2, len(args))
		}

		node, errObj := unwrapNode("node_child", args[0])
		if errObj != nil {
			return errObj
		}

		fieldStr, ok := args[1].(*object.String)
		if !ok {
			return object.Errorf("node_child: field must be a string, got %s", args[1].Type())
		}

		child := node.ChildByFieldName(fieldStr.Value())
		if child == nil {
			return object.Nil
		}

		p, err := object.NewProxy(child)
		if err != nil {
			return object.Errorf("node_child: proxy error: %v", err)
		}
		return p
	})
}

// makeSexprFn creates the "sexpr" host function.
//
// sexpr(tree) or sexpr(node) → string
func makeSexprFn() *object.Builtin {
	return object.NewBuiltin("sexpr", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("sexpr", 1, len(args))
		}

		proxy, ok := args[0].(*object.Proxy)
		if !ok {
			return object.Errorf("sexpr: expected a Tree or Node, got %s", args[0].Type())
		}

		switch v := proxy.Interface().(type) {
		case *Tree:
			return object.NewString(v.tree.RootNode().String())
		case *Node:
			return object.NewString(v.node.String())
		default:
			return object.Errorf("sexpr: expected a Tree or Node, got %T", proxy.Interface())
		}
	})
}

// makeLanguagesFn creates "languages" — lists the bundled grammar names.
//
// languages() → []string
func makeLanguagesFn() *object.Builtin {
	return object.NewBuiltin("languages", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("languages", 0, len(args))
		}

		names := languages.Names()
		items := make([]object.Object, 0, len(names))
		for _, name := range names {
			items = append(items, object.NewString(name))
		}
		return object.NewList(items)
	})
}

// unwrapNode extracts the *Node behind a proxied script argument.
func unwrapNode(fn string, arg object.Object) (*Node, object.Object) {
	proxy, ok := arg.(*object.Proxy)
	if !ok {
		return nil, object.Errorf("%s: expected a Node, got %s", fn, arg.Type())
	}
	node, ok := proxy.Interface().(*Node)
	if !ok {
		return nil, object.Errorf("%s: expected a Node, got %T", fn, proxy.Interface())
	}
	return node, nil
}

// logObject provides log.info/warn/error methods for Risor scripts.
type logObject struct {
	prefix string
}

func (l *logObject) Info(msg string) {
	fmt.Printf("[%s] INFO: %s\n", l.prefix, msg)
}

func (l *logObject) Warn(msg string) {
	fmt.Printf("[%s] WARN: %s\n", l.prefix, msg)
}

func (l *logObject) Error(msg string) {
	fmt.Printf("[%s] ERROR: %s\n", l.prefix, msg)
}
