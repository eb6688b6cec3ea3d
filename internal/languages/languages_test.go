package languages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/arbor"
)

func TestForFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		lang string
		ok   bool
	}{
		{"main.go", "go", true},
		{"app.js", "javascript", true},
		{"app.JSX", "javascript", true},
		{"mod.mjs", "javascript", true},
		{"data.json", "json", true},
		{"tool.py", "python", true},
		{"stubs.pyi", "python", true},
		{"notes.txt", "", false},
		{"Makefile", "", false},
		{"dir/nested/x.go", "go", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			lang, ok := ForFile(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.lang, lang)
		})
	}
}

func TestGrammarForEveryName(t *testing.T) {
	t.Parallel()

	names := Names()
	require.NotEmpty(t, names)
	for _, name := range names {
		lang, ok := Grammar(name)
		require.True(t, ok, name)
		require.NotNil(t, lang, name)

		// Every bundled grammar must be accepted by the parser.
		p, err := arbor.NewParser(lang)
		require.NoError(t, err, name)
		p.Close()
	}
}

func TestGrammarUnknown(t *testing.T) {
	t.Parallel()

	lang, ok := Grammar("fortran")
	assert.False(t, ok)
	assert.Nil(t, lang)
}

func TestGrammarIsStable(t *testing.T) {
	t.Parallel()

	a, ok := Grammar("go")
	require.True(t, ok)
	b, ok := Grammar("go")
	require.True(t, ok)
	assert.Same(t, a, b)
}
