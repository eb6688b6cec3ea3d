package arbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildrenMatchesIndexedAccess(t *testing.T) {
	t.Parallel()

	tree := parseJS(t, "let a = 1;\nf(a);\n// done\n")
	root := tree.RootNode()
	require.Greater(t, root.ChildCount(), uint32(1))

	var i uint32
	for child := range root.Children() {
		want := root.Child(i)
		require.NotNil(t, want)
		assert.True(t, child.Equal(want), "child %d out of order", i)
		i++
	}
	assert.Equal(t, root.ChildCount(), i)
}

func TestChildrenRestartsEachRange(t *testing.T) {
	t.Parallel()

	tree := parseJS(t, "1+2")
	expr := tree.RootNode().Child(0).Child(0)
	seq := expr.Children()

	first := make([]uintptr, 0, 3)
	for child := range seq {
		first = append(first, child.ID())
	}
	second := make([]uintptr, 0, 3)
	for child := range seq {
		second = append(second, child.ID())
	}
	require.Len(t, first, 3)
	assert.Equal(t, first, second)
}

func TestChildrenEarlyBreak(t *testing.T) {
	t.Parallel()

	tree := parseJS(t, "1+2")
	expr := tree.RootNode().Child(0).Child(0)

	var got *Node
	for child := range expr.Children() {
		got = child
		break
	}
	require.NotNil(t, got)
	assert.True(t, got.Equal(expr.Child(0)))

	// Breaking out must not poison later iterations.
	var count int
	for range expr.Children() {
		count++
	}
	assert.Equal(t, 3, count)
}

func TestChildrenOfLeafIsEmpty(t *testing.T) {
	t.Parallel()

	tree := parseJS(t, "1+2")
	leaf := tree.RootNode().Child(0).Child(0).Child(0)
	require.Equal(t, uint32(0), leaf.ChildCount())

	for range leaf.Children() {
		t.Fatal("leaf must yield no children")
	}
}

func TestNamedChildrenIsSubsequenceOfChildren(t *testing.T) {
	t.Parallel()

	tree := parseJS(t, "let a = 1;\nf(a, 2);")
	root := tree.RootNode()

	var walk func(n *Node)
	walk = func(n *Node) {
		all := make([]uintptr, 0, n.ChildCount())
		for child := range n.Children() {
			if child.IsNamed() {
				all = append(all, child.ID())
			}
		}
		named := make([]uintptr, 0, n.NamedChildCount())
		for child := range n.NamedChildren() {
			assert.True(t, child.IsNamed())
			named = append(named, child.ID())
		}
		assert.Equal(t, all, named)
		assert.Equal(t, int(n.NamedChildCount()), len(named))

		for child := range n.Children() {
			walk(child)
		}
	}
	walk(root)
}
