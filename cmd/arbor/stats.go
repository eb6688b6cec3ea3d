package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jward/arbor/internal/index"
	"github.com/spf13/cobra"
)

var flagTop int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the scanned index",
	Long:  "Reads the SQLite index written by 'arbor scan' and reports totals, the most frequent node types, and files with parse errors.",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&flagTop, "top", 10, "number of node types to list")
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return outputError("stats", err)
	}
	defer store.Close()

	summary, err := store.Summary()
	if err != nil {
		return outputError("stats", err)
	}

	topTypes, err := store.TopTypes(flagTop)
	if err != nil {
		return outputError("stats", err)
	}

	errFiles, err := store.FilesWithErrors()
	if err != nil {
		return outputError("stats", err)
	}

	stats := CLIStats{
		Files:     summary.Files,
		Nodes:     summary.Nodes,
		Errored:   summary.Errored,
		MaxDepth:  summary.MaxDepth,
		Languages: summary.ByLanguage,
	}
	stats.TopTypes = make([]CLITypeCount, len(topTypes))
	for i, tc := range topTypes {
		stats.TopTypes[i] = CLITypeCount{Type: tc.Type, Count: tc.Count}
	}
	stats.ErrorFiles = make([]CLIFile, len(errFiles))
	for i, f := range errFiles {
		stats.ErrorFiles[i] = CLIFile{
			ID:         f.ID,
			Path:       f.Path,
			Language:   f.Language,
			NodeCount:  f.NodeCount,
			ErrorCount: f.ErrorCount,
		}
	}

	return outputResult(CLIResult{
		Command: "stats",
		Results: stats,
	})
}

// --- Helpers ---

// openStore opens the Store from the --db flag path (or default).
func openStore() (*index.Store, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting cwd: %w", err)
	}
	repoRoot := findRepoRoot(cwd)
	dbPath := resolveDBPath(repoRoot)

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found: %s (run 'arbor scan' first)", dbPath)
	}

	return index.NewStore(dbPath)
}

// resolveFilePath converts a file argument to an absolute path.
// If the path is already absolute, it's returned as-is.
// Otherwise, it's resolved relative to the current working directory.
func resolveFilePath(file string) (string, error) {
	if filepath.IsAbs(file) {
		return file, nil
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("resolving file path %q: %w", file, err)
	}
	return abs, nil
}

// outputResult marshals a CLIResult to stdout in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as a
// CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	result := CLIResult{
		Command: command,
		Error:   err.Error(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}
