package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jward/arbor"
	"github.com/jward/arbor/internal/languages"
	"github.com/spf13/cobra"
)

var (
	flagLang  string
	flagNamed bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a file and dump its syntax tree",
	Long:  "Parses one source file and prints the tree: a JSON debug tree in json format, the S-expression in text format.",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVar(&flagLang, "lang", "", "language name (default: detected from file extension)")
}

func runParse(cmd *cobra.Command, args []string) error {
	path, err := resolveFilePath(args[0])
	if err != nil {
		return outputError("parse", err)
	}

	lang := flagLang
	if lang == "" {
		detected, ok := languages.ForFile(path)
		if !ok {
			return outputError("parse", fmt.Errorf("cannot detect language for %s (use --lang)", path))
		}
		lang = detected
	}

	grammar, ok := languages.Grammar(lang)
	if !ok {
		return outputError("parse", fmt.Errorf("unsupported language %q (supported: %s)",
			lang, strings.Join(languages.Names(), ", ")))
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return outputError("parse", fmt.Errorf("reading %s: %w", path, err))
	}

	parser, err := arbor.NewParser(grammar)
	if err != nil {
		return outputError("parse", fmt.Errorf("parser for %s: %w", lang, err))
	}
	defer parser.Close()

	tree := parser.ParseString(src)
	defer tree.Close()

	root := tree.RootNode()
	debugRoot := buildDebugNode(root, "", src)

	return outputResult(CLIResult{
		Command: "parse",
		Results: CLIParse{
			File:      path,
			Language:  lang,
			HasError:  tree.HasError(),
			NodeCount: countDebugNodes(debugRoot),
			Sexpr:     root.String(),
			Root:      debugRoot,
		},
	})
}

// buildDebugNode converts a node and its subtree to the JSON debug form.
// Leaf nodes carry their source text; interior nodes would just repeat it.
func buildDebugNode(n *arbor.Node, field string, src []byte) *CLINode {
	out := &CLINode{
		Type:      n.Type(),
		Field:     field,
		Named:     n.IsNamed(),
		Missing:   n.IsMissing(),
		Error:     n.IsError(),
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
		StartRow:  int(n.StartPoint().Row),
		StartCol:  int(n.StartPoint().Column),
		EndRow:    int(n.EndPoint().Row),
		EndCol:    int(n.EndPoint().Column),
	}
	if n.ChildCount() == 0 {
		out.Text = n.Content(src)
		return out
	}
	for i := uint32(0); i < n.ChildCount(); i++ {
		out.Children = append(out.Children, buildDebugNode(n.Child(i), n.FieldNameForChild(i), src))
	}
	return out
}

// countDebugNodes returns the number of nodes in a debug tree.
func countDebugNodes(n *CLINode) int {
	count := 1
	for _, c := range n.Children {
		count += countDebugNodes(c)
	}
	return count
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols <language>",
	Short: "List the node types a grammar defines",
	Long:  "Dumps a grammar's symbol table. A symbol is listed as named when looking its name up in the named namespace yields the same id.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbols,
}

func init() {
	symbolsCmd.Flags().BoolVar(&flagNamed, "named", false, "only list named symbols")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	lang := args[0]
	grammar, ok := languages.Grammar(lang)
	if !ok {
		return outputError("symbols", fmt.Errorf("unsupported language %q (supported: %s)",
			lang, strings.Join(languages.Names(), ", ")))
	}

	syms, err := grammarSymbols(grammar, flagNamed)
	if err != nil {
		return outputError("symbols", err)
	}

	return outputResult(CLIResult{
		Command: "symbols",
		Results: CLIGrammar{
			Language:    lang,
			Version:     int(grammar.Version()),
			SymbolCount: int(grammar.SymbolCount()),
			Symbols:     syms,
		},
	})
}

// grammarSymbols lists a grammar's symbol table. A symbol counts as named
// when the named-namespace lookup of its name round-trips to the same id;
// anonymous tokens and grammar-internal symbols resolve elsewhere or not
// at all.
func grammarSymbols(grammar *arbor.Language, namedOnly bool) ([]CLISymbol, error) {
	count := grammar.SymbolCount()
	syms := make([]CLISymbol, 0, count)
	for i := uint32(0); i < count; i++ {
		sym := arbor.Symbol(i)
		name, err := grammar.SymbolName(sym)
		if err != nil {
			return nil, fmt.Errorf("symbol %d: %w", i, err)
		}
		named := grammar.SymbolForName(name, true) == sym
		if namedOnly && !named {
			continue
		}
		syms = append(syms, CLISymbol{ID: int(i), Name: name, Named: named})
	}
	return syms, nil
}
