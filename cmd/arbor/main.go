package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jward/arbor/internal/index"
	"github.com/spf13/cobra"
)

var (
	flagDB     string
	flagFormat string
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "arbor",
	Short:         "Inspect, script, and index tree-sitter syntax trees",
	Long:          "Arbor parses source files with tree-sitter grammars, dumps and scripts their syntax trees, and indexes tree shapes into a SQLite database.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default: .arbor/index.db relative to repo root)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(evalCmd)
}

var (
	flagForce     bool
	flagLanguages string
	flagWorkers   int
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Parse a directory tree and index node shapes",
	Long:  "Walks a directory, parses every supported source file with tree-sitter, and writes the flattened trees to the SQLite database.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&flagForce, "force", false, "delete database and rescan from scratch")
	scanCmd.Flags().StringVar(&flagLanguages, "languages", "", "comma-separated language filter (e.g. go,javascript)")
	scanCmd.Flags().IntVar(&flagWorkers, "workers", 0, "parse worker count (default: number of CPUs)")
}

func runScan(cmd *cobra.Command, args []string) error {
	start := time.Now()

	// Determine the target directory.
	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return err
	}

	// Resolve repo root and DB path.
	repoRoot := findRepoRoot(targetDir)
	dbPath := resolveDBPath(repoRoot)

	// Ensure .arbor/ directory exists.
	arborDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(arborDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", arborDir, err)
	}

	// Handle --force: delete the DB file entirely.
	if flagForce {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing database for --force: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Cleared database: %s\n", dbPath)
	}

	store, err := index.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	// Build scanner options.
	var opts []index.Option
	if flagLanguages != "" {
		langs := strings.Split(flagLanguages, ",")
		for i := range langs {
			langs[i] = strings.TrimSpace(langs[i])
		}
		opts = append(opts, index.WithLanguages(langs...))
	}
	if flagWorkers > 0 {
		opts = append(opts, index.WithWorkers(flagWorkers))
	}

	scanner := index.NewScanner(store, opts...)
	res, err := scanner.ScanDirectory(context.Background(), targetDir)
	if err != nil {
		return fmt.Errorf("scanning: %w", err)
	}

	// Print timing summary to stderr.
	fmt.Fprintf(os.Stderr, "Scanned %s in %s (%d files, %d nodes, %d with errors, %d skipped)\n",
		targetDir,
		time.Since(start).Round(time.Millisecond),
		res.Files,
		res.Nodes,
		res.Errored,
		res.Skipped,
	)
	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)

	return nil
}

// resolveTargetDir returns the absolute path of the directory to scan.
func resolveTargetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

// findRepoRoot walks up from startDir looking for a .git directory.
// Returns the directory containing .git, or startDir if not found.
func findRepoRoot(startDir string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root without finding .git.
			return startDir
		}
		dir = parent
	}
}

// resolveDBPath returns the database path from the --db flag or the default.
func resolveDBPath(repoRoot string) string {
	if flagDB != "" {
		if filepath.IsAbs(flagDB) {
			return flagDB
		}
		return filepath.Join(repoRoot, flagDB)
	}
	return filepath.Join(repoRoot, ".arbor", "index.db")
}
