package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jward/arbor"
	"github.com/jward/arbor/internal/languages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRepoRoot_DirectGitDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	got := findRepoRoot(root)
	assert.Equal(t, root, got)
}

func TestFindRepoRoot_NestedSubdirectory(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	deep := filepath.Join(root, "sub", "deep")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}

	got := findRepoRoot(deep)
	assert.Equal(t, root, got)
}

func TestFindRepoRoot_NoGitAncestor(t *testing.T) {
	t.Parallel()
	// TempDir has no .git directory anywhere in its ancestry
	// (unless /tmp itself is a repo, which would be unusual).
	dir := t.TempDir()

	got := findRepoRoot(dir)
	assert.Equal(t, dir, got)
}

func TestResolveTargetDir_NotFound(t *testing.T) {
	t.Parallel()
	_, err := resolveTargetDir([]string{"/nonexistent/path/that/does/not/exist"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory not found")
}

func TestResolveTargetDir_NotADirectory(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := resolveTargetDir([]string{file})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestValidateFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"text", false},
		{"xml", true},
		{"", true},
		{"JSON", true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := validateFormat(tt.format)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid format")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func parseJS(t *testing.T, src string) *arbor.Tree {
	t.Helper()
	grammar, ok := languages.Grammar("javascript")
	require.True(t, ok)
	parser, err := arbor.NewParser(grammar)
	require.NoError(t, err)
	t.Cleanup(parser.Close)
	tree := parser.ParseString([]byte(src))
	t.Cleanup(tree.Close)
	return tree
}

func TestBuildDebugNode_Arithmetic(t *testing.T) {
	t.Parallel()
	src := "1+2"
	tree := parseJS(t, src)

	root := buildDebugNode(tree.RootNode(), "", []byte(src))

	require.Equal(t, "program", root.Type)
	assert.True(t, root.Named)
	assert.Empty(t, root.Field)
	assert.Empty(t, root.Text, "interior nodes carry no text")
	assert.Equal(t, 0, root.StartByte)
	assert.Equal(t, 3, root.EndByte)

	require.Len(t, root.Children, 1)
	stmt := root.Children[0]
	require.Equal(t, "expression_statement", stmt.Type)

	require.Len(t, stmt.Children, 1)
	binary := stmt.Children[0]
	require.Equal(t, "binary_expression", binary.Type)
	require.Len(t, binary.Children, 3)

	left, op, right := binary.Children[0], binary.Children[1], binary.Children[2]
	assert.Equal(t, "left", left.Field)
	assert.Equal(t, "right", right.Field)
	assert.Equal(t, "1", left.Text)
	assert.Equal(t, "+", op.Text)
	assert.Equal(t, "2", right.Text)
	assert.True(t, left.Named)
	assert.False(t, op.Named)
	assert.Equal(t, 2, right.StartByte)
	assert.Equal(t, 3, right.EndByte)

	assert.Equal(t, 6, countDebugNodes(root))
}

func TestBuildDebugNode_MarksErrors(t *testing.T) {
	t.Parallel()
	src := "1+"
	tree := parseJS(t, src)
	require.True(t, tree.HasError())

	root := buildDebugNode(tree.RootNode(), "", []byte(src))

	var sawFlag func(n *CLINode) bool
	sawFlag = func(n *CLINode) bool {
		if n.Error || n.Missing {
			return true
		}
		for _, c := range n.Children {
			if sawFlag(c) {
				return true
			}
		}
		return false
	}
	assert.True(t, sawFlag(root), "broken source should surface an error or missing node")
}

func TestGrammarSymbols_FullTable(t *testing.T) {
	t.Parallel()
	grammar, ok := languages.Grammar("go")
	require.True(t, ok)

	syms, err := grammarSymbols(grammar, false)
	require.NoError(t, err)
	require.Len(t, syms, int(grammar.SymbolCount()))

	byName := make(map[string]CLISymbol)
	for _, s := range syms {
		byName[s.Name] = s
	}
	require.Contains(t, byName, "source_file")
	assert.True(t, byName["source_file"].Named)
	require.Contains(t, byName, "package")
	assert.False(t, byName["package"].Named, "keyword tokens are anonymous")
}

func TestGrammarSymbols_NamedOnly(t *testing.T) {
	t.Parallel()
	grammar, ok := languages.Grammar("go")
	require.True(t, ok)

	all, err := grammarSymbols(grammar, false)
	require.NoError(t, err)
	named, err := grammarSymbols(grammar, true)
	require.NoError(t, err)

	assert.Less(t, len(named), len(all))
	for _, s := range named {
		assert.True(t, s.Named, "symbol %s should be named", s.Name)
	}
}
