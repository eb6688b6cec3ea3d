package arbor

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootNeverNil(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"well formed", "let x = 1;"},
		{"empty", ""},
		{"garbage", "%%%%"},
		{"truncated", "1+"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tree := parseJS(t, tt.src)
			root := tree.RootNode()
			require.NotNil(t, root)
			assert.False(t, root.IsNull())
			assert.Equal(t, uint32(len(tt.src)), root.EndByte())
		})
	}
}

func TestTreeHasErrorDelegatesToRoot(t *testing.T) {
	t.Parallel()

	good := parseJS(t, "1+2")
	assert.False(t, good.HasError())
	assert.Equal(t, good.RootNode().HasError(), good.HasError())

	bad := parseJS(t, "1+")
	assert.True(t, bad.HasError())
	assert.Equal(t, bad.RootNode().HasError(), bad.HasError())
}

func TestTreeWalkStartsAtRoot(t *testing.T) {
	t.Parallel()

	tree := parseJS(t, "1+2")
	c := tree.Walk()
	defer c.Close()
	assert.True(t, c.CurrentNode().Equal(tree.RootNode()))
}

func TestTreeCloseIdempotent(t *testing.T) {
	t.Parallel()

	p, err := NewParser(jsLanguage())
	require.NoError(t, err)
	defer p.Close()

	tree := p.ParseString([]byte("1+2"))
	require.NotNil(t, tree)
	tree.Close()
	tree.Close()
}

func TestNodesKeepTreeAlive(t *testing.T) {
	t.Parallel()

	// Hold only a node; the last tree reference goes out of scope. The node
	// keeps the tree reachable, so collection must not free it underneath.
	leaf := func() *Node {
		p, err := NewParser(jsLanguage())
		require.NoError(t, err)
		defer p.Close()
		tree := p.ParseString([]byte("1+2"))
		return tree.RootNode().Child(0).Child(0).Child(0)
	}()
	runtime.GC()
	runtime.GC()

	require.NotNil(t, leaf)
	assert.Equal(t, "number", leaf.Type())
	assert.Equal(t, Extent[uint32]{Start: 0, End: 1}, leaf.ByteRange())

	root := leaf.Parent().Parent().Parent()
	require.NotNil(t, root)
	assert.Equal(t, "program", root.Type())
}
