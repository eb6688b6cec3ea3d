package arbor_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jward/arbor"
	"github.com/jward/arbor/internal/languages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Golden test format.
type goldenFile struct {
	Files []goldenEntry `json:"files"`
}

type goldenEntry struct {
	File       string   `json:"file"`
	Language   string   `json:"language"`
	RootType   string   `json:"root_type"`
	HasError   bool     `json:"has_error"`
	NamedTypes []string `json:"named_types,omitempty"`
}

// TestGolden walks testdata/{language}/ directories and checks each fixture
// against its golden.json.
func TestGolden(t *testing.T) {
	langDirs, err := os.ReadDir("testdata")
	if err != nil {
		t.Skip("no testdata directory found")
	}

	for _, langDir := range langDirs {
		if !langDir.IsDir() {
			continue
		}
		dir := filepath.Join("testdata", langDir.Name())
		goldenPath := filepath.Join(dir, "golden.json")
		if _, err := os.Stat(goldenPath); err != nil {
			// Not a fixture directory (e.g. scripts/).
			continue
		}

		goldenData, err := os.ReadFile(goldenPath)
		require.NoError(t, err)
		var golden goldenFile
		require.NoError(t, json.Unmarshal(goldenData, &golden))

		for _, entry := range golden.Files {
			t.Run(langDir.Name()+"/"+entry.File, func(t *testing.T) {
				runGoldenTest(t, filepath.Join(dir, entry.File), entry)
			})
		}
	}
}

func runGoldenTest(t *testing.T, path string, want goldenEntry) {
	t.Helper()

	lang, ok := languages.ForFile(path)
	require.True(t, ok, "no language detected for %s", path)
	assert.Equal(t, want.Language, lang)

	grammar, ok := languages.Grammar(lang)
	require.True(t, ok, "no grammar registered for %s", lang)

	src, err := os.ReadFile(path)
	require.NoError(t, err)

	parser, err := arbor.NewParser(grammar)
	require.NoError(t, err)
	defer parser.Close()

	tree := parser.ParseString(src)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, want.RootType, root.Type())
	assert.Equal(t, want.HasError, tree.HasError())
	assert.Equal(t, 0, int(root.StartByte()))
	assert.Equal(t, len(src), int(root.EndByte()), "root should span the whole file")

	seen := namedTypeSet(root)
	for _, typ := range want.NamedTypes {
		assert.Contains(t, seen, typ, "tree should contain a %s node", typ)
	}
}

// namedTypeSet collects the named node types of a tree via a cursor walk.
func namedTypeSet(root *arbor.Node) map[string]bool {
	seen := make(map[string]bool)
	c := root.Walk()
	defer c.Close()
	for {
		if n := c.CurrentNode(); n.IsNamed() {
			seen[n.Type()] = true
		}
		if c.GotoFirstChild() {
			continue
		}
		for !c.GotoNextSibling() {
			if !c.GotoParent() {
				return seen
			}
		}
	}
}
