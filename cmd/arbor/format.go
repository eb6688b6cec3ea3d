package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
)

// formatParseText prints the S-expression form of a parsed file.
func formatParseText(w io.Writer, p CLIParse) {
	fmt.Fprintln(w, p.Sexpr)
}

// formatGrammarText formats a grammar symbol table as aligned columns.
func formatGrammarText(w io.Writer, g CLIGrammar) {
	fmt.Fprintf(w, "Language: %s (ABI %d, %d symbols)\n", g.Language, g.Version, g.SymbolCount)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tNAMED")
	for _, s := range g.Symbols {
		fmt.Fprintf(tw, "%d\t%s\t%t\n", s.ID, s.Name, s.Named)
	}
	tw.Flush()
}

// formatStatsText formats CLIStats as readable text.
func formatStatsText(w io.Writer, stats CLIStats) {
	fmt.Fprintln(w, "Index Summary")
	fmt.Fprintln(w, "=============")
	fmt.Fprintf(w, "Files: %d\n", stats.Files)
	fmt.Fprintf(w, "Nodes: %d\n", stats.Nodes)
	fmt.Fprintf(w, "Files with errors: %d\n", stats.Errored)
	fmt.Fprintf(w, "Max depth: %d\n", stats.MaxDepth)
	fmt.Fprintln(w)

	if len(stats.Languages) > 0 {
		fmt.Fprintln(w, "Languages:")
		langs := make([]string, 0, len(stats.Languages))
		for lang := range stats.Languages {
			langs = append(langs, lang)
		}
		sort.Strings(langs)
		for _, lang := range langs {
			fmt.Fprintf(w, "  %s: %d files\n", lang, stats.Languages[lang])
		}
		fmt.Fprintln(w)
	}

	if len(stats.TopTypes) > 0 {
		fmt.Fprintln(w, "Top Node Types:")
		for _, tc := range stats.TopTypes {
			fmt.Fprintf(w, "  %s: %d\n", tc.Type, tc.Count)
		}
		fmt.Fprintln(w)
	}

	if len(stats.ErrorFiles) > 0 {
		fmt.Fprintln(w, "Files with Errors:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  PATH\tLANGUAGE\tERRORS")
		for _, f := range stats.ErrorFiles {
			fmt.Fprintf(tw, "  %s\t%s\t%d\n", f.Path, f.Language, f.ErrorCount)
		}
		tw.Flush()
	}
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type. It writes to os.Stdout.
func outputResultText(result CLIResult) error {
	w := io.Writer(os.Stdout)

	switch v := result.Results.(type) {
	case CLIParse:
		formatParseText(w, v)
	case CLIGrammar:
		formatGrammarText(w, v)
	case CLIStats:
		formatStatsText(w, v)
	case nil:
		// No output for nil results.
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}

	return nil
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
