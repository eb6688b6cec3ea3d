package main

import (
	"context"
	"path/filepath"

	"github.com/jward/arbor/internal/script"
	"github.com/spf13/cobra"
)

var (
	flagSource     string
	flagSourceLang string
)

var evalCmd = &cobra.Command{
	Use:   "eval <script.risor>",
	Short: "Run a Risor tree exploration script",
	Long: `Runs a Risor script with tree host functions in scope: parse, parse_src,
node_text, node_child, sexpr, languages, and log. With --source, the file's
path is exposed to the script as source_path (and --lang as source_lang) so
the script can parse it. Sibling .risor files are importable.`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVar(&flagSource, "source", "", "source file to expose to the script as source_path")
	evalCmd.Flags().StringVar(&flagSourceLang, "lang", "", "language to expose to the script as source_lang")
}

func runEval(cmd *cobra.Command, args []string) error {
	scriptPath, err := resolveFilePath(args[0])
	if err != nil {
		return outputError("eval", err)
	}

	extras := map[string]any{}
	if flagSource != "" {
		sourcePath, err := resolveFilePath(flagSource)
		if err != nil {
			return outputError("eval", err)
		}
		extras["source_path"] = sourcePath
	}
	if flagSourceLang != "" {
		extras["source_lang"] = flagSourceLang
	}

	rt := script.NewRuntime(filepath.Dir(scriptPath))
	if err := rt.RunScript(context.Background(), scriptPath, extras); err != nil {
		return outputError("eval", err)
	}
	return nil
}
