// Package languages maps file extensions and language names to the grammars
// bundled with the arbor CLI.
package languages

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	tsgo "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tsjs "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tsjson "github.com/tree-sitter/tree-sitter-json/bindings/go"
	tspy "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/jward/arbor"
)

// extToLanguage maps file extensions to canonical language names.
var extToLanguage = map[string]string{
	".go":   "go",
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".json": "json",
	".py":   "python",
	".pyi":  "python",
}

// nameToGrammar maps language names to grammar descriptors. Lazily
// initialized on first call via sync.Once.
var (
	nameToGrammar map[string]*arbor.Language
	grammarsOnce  sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		nameToGrammar = map[string]*arbor.Language{
			"go":         arbor.NewLanguage(tsgo.Language()),
			"javascript": arbor.NewLanguage(tsjs.Language()),
			"json":       arbor.NewLanguage(tsjson.Language()),
			"python":     arbor.NewLanguage(tspy.Language()),
		}
	})
}

// ForFile returns the canonical language name for a file path based on its
// extension. Returns ("", false) if the extension is not recognized.
func ForFile(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := extToLanguage[ext]
	return lang, ok
}

// Grammar returns the grammar descriptor for a canonical language name.
// Returns (nil, false) if the language is not bundled.
func Grammar(name string) (*arbor.Language, bool) {
	initGrammars()
	l, ok := nameToGrammar[name]
	return l, ok
}

// Names returns the bundled language names, sorted.
func Names() []string {
	initGrammars()
	names := make([]string, 0, len(nameToGrammar))
	for name := range nameToGrammar {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
