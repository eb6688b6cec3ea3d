package index

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/jward/arbor"
	"github.com/jward/arbor/internal/languages"
)

// Scanner parses source files and records their tree shapes in a Store.
type Scanner struct {
	store     *Store
	languages map[string]bool // nil means all languages
	workers   int             // 0 means NumCPU
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLanguages restricts which languages the Scanner will process.
func WithLanguages(languages ...string) Option {
	return func(s *Scanner) {
		s.languages = make(map[string]bool, len(languages))
		for _, lang := range languages {
			s.languages[lang] = true
		}
	}
}

// WithWorkers sets the number of parse workers. Values below 1 fall back
// to the number of CPUs.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		s.workers = n
	}
}

// NewScanner creates a Scanner writing to the given Store.
func NewScanner(store *Store, opts ...Option) *Scanner {
	s := &Scanner{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result tallies one scan. Skipped counts files that were unsupported,
// filtered out, or unchanged since the last scan.
type Result struct {
	Files   int // files parsed and committed
	Nodes   int // node rows written
	Errored int // committed files whose trees contain syntax errors
	Skipped int
}

// skipDirs are directories excluded from filesystem walks.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
}

// ScanDirectory walks root and scans all files with supported extensions.
// If root is inside a git repository, uses git ls-files to respect
// .gitignore. Falls back to a filesystem walk (skipping hidden dirs,
// node_modules, vendor, __pycache__) if git is unavailable.
func (s *Scanner) ScanDirectory(ctx context.Context, root string) (*Result, error) {
	paths, err := gitListFiles(root)
	if err != nil {
		// Not a git repo or git not available — fall back to walk.
		paths, err = walkListFiles(root)
		if err != nil {
			return nil, err
		}
	}
	return s.ScanFiles(ctx, paths)
}

// ScanFiles scans the given file paths using a three-phase pipeline:
//
//	Phase A (serial):  Filter by language, skip unchanged files.
//	Phase B (parallel): Parse and flatten via worker pool.
//	Phase C (serial):  Commit flattened trees to SQLite.
func (s *Scanner) ScanFiles(ctx context.Context, paths []string) (*Result, error) {
	res := &Result{}

	// ---- Phase A: Serial file preparation ----
	var items []workItem
	for _, path := range paths {
		item, skip, err := s.prepareFile(path)
		if err != nil {
			return res, fmt.Errorf("prepare %s: %w", path, err)
		}
		if skip {
			res.Skipped++
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return res, nil
	}

	// ---- Phase B: Parallel parsing ----
	numWorkers := s.workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	numWorkers = min(numWorkers, len(items))
	if numWorkers < 1 {
		numWorkers = 1
	}

	workCh := make(chan workItem, len(items))
	for _, item := range items {
		workCh <- item
	}
	close(workCh)

	type result struct {
		item     workItem
		records  []NodeRecord
		hasError bool
		err      error
	}
	resultCh := make(chan result, len(items))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Parsers are not safe for concurrent use, so each worker
			// keeps its own, one per language, reused across files.
			parsers := make(map[string]*arbor.Parser)
			defer func() {
				for _, p := range parsers {
					p.Close()
				}
			}()
			for item := range workCh {
				if err := ctx.Err(); err != nil {
					resultCh <- result{item: item, err: err}
					continue
				}
				records, hasError, err := parseFile(parsers, item)
				resultCh <- result{item: item, records: records, hasError: hasError, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// ---- Phase C: Serial commit ----
	var errs []error
	for r := range resultCh {
		if r.err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", r.item.path, r.err))
			continue
		}
		if _, err := s.store.InsertFileTree(r.item.path, r.item.lang, r.item.hash, r.records); err != nil {
			errs = append(errs, fmt.Errorf("commit %s: %w", r.item.path, err))
			continue
		}
		res.Files++
		res.Nodes += len(r.records)
		if r.hasError {
			res.Errored++
		}
	}

	if len(errs) > 0 {
		return res, fmt.Errorf("scan had %d error(s): %w", len(errs), errs[0])
	}
	return res, nil
}

// workItem holds everything a parse worker needs.
type workItem struct {
	path    string
	lang    string
	hash    string
	content []byte
}

// prepareFile does Phase A work for a single file: language check, read,
// hash check. Returns (item, skip, error). skip=true means the file is
// unsupported, filtered out, or unchanged.
func (s *Scanner) prepareFile(path string) (workItem, bool, error) {
	lang, ok := languages.ForFile(path)
	if !ok {
		return workItem{}, true, nil
	}
	if s.languages != nil && !s.languages[lang] {
		return workItem{}, true, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return workItem{}, false, fmt.Errorf("read file: %w", err)
	}
	hash := fmt.Sprintf("%x", sha256.Sum256(content))

	existing, err := s.store.FileByPath(path)
	if err != nil {
		return workItem{}, false, fmt.Errorf("lookup file: %w", err)
	}
	if existing != nil && existing.Hash == hash {
		return workItem{}, true, nil // unchanged
	}

	return workItem{path: path, lang: lang, hash: hash, content: content}, false, nil
}

// parseFile parses one file with the worker's parser for its language,
// creating the parser on first use.
func parseFile(parsers map[string]*arbor.Parser, item workItem) ([]NodeRecord, bool, error) {
	p, ok := parsers[item.lang]
	if !ok {
		grammar, found := languages.Grammar(item.lang)
		if !found {
			return nil, false, fmt.Errorf("no grammar for %s", item.lang)
		}
		var err error
		p, err = arbor.NewParser(grammar)
		if err != nil {
			return nil, false, fmt.Errorf("parser for %s: %w", item.lang, err)
		}
		parsers[item.lang] = p
	}

	tree := p.ParseString(item.content)
	defer tree.Close()

	return flatten(tree.RootNode()), tree.HasError(), nil
}

// flatten serializes a tree into records in document order using a
// pre-order cursor walk, so every record's parent precedes it.
func flatten(root *arbor.Node) []NodeRecord {
	c := root.Walk()
	defer c.Close()

	var recs []NodeRecord
	parents := []int{-1}
	for {
		n := c.CurrentNode()
		recs = append(recs, NodeRecord{
			ParentIdx: parents[len(parents)-1],
			Type:      n.Type(),
			Field:     c.FieldName(),
			Named:     n.IsNamed(),
			Missing:   n.IsMissing(),
			Error:     n.IsError(),
			Depth:     int(c.Depth()),
			StartByte: int(n.StartByte()),
			EndByte:   int(n.EndByte()),
			StartRow:  int(n.StartPoint().Row),
			StartCol:  int(n.StartPoint().Column),
			EndRow:    int(n.EndPoint().Row),
			EndCol:    int(n.EndPoint().Column),
		})
		idx := len(recs) - 1

		if c.GotoFirstChild() {
			parents = append(parents, idx)
			continue
		}
		for !c.GotoNextSibling() {
			if !c.GotoParent() {
				return recs
			}
			parents = parents[:len(parents)-1]
		}
	}
}

// gitListFiles uses git ls-files to discover tracked and untracked (but
// not ignored) files under root, filtered to supported extensions.
func gitListFiles(root string) ([]string, error) {
	// --cached: tracked files, --others: untracked files,
	// --exclude-standard: respect .gitignore, .git/info/exclude, global excludes.
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var paths []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		absPath := filepath.Join(root, line)
		if _, ok := languages.ForFile(absPath); ok {
			paths = append(paths, absPath)
		}
	}
	return paths, nil
}

// walkListFiles discovers files by walking the filesystem, used as a
// fallback when git is not available. Skips hidden directories,
// node_modules, vendor, and __pycache__.
func walkListFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := languages.ForFile(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return paths, nil
}
