// Package index persists the shape of parsed syntax trees to SQLite so
// tree structure can be inspected with plain SQL after the trees
// themselves are gone.
package index

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for scanned files and their nodes.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS files (
  id              INTEGER PRIMARY KEY,
  path            TEXT NOT NULL UNIQUE,
  language        TEXT NOT NULL,
  hash            TEXT NOT NULL,
  node_count      INTEGER NOT NULL,
  error_count     INTEGER NOT NULL,
  parsed_at       TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS nodes (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id),
  parent_id       INTEGER REFERENCES nodes(id),
  type            TEXT NOT NULL,
  field           TEXT,
  named           BOOLEAN NOT NULL,
  missing         BOOLEAN NOT NULL,
  error           BOOLEAN NOT NULL,
  depth           INTEGER NOT NULL,
  start_byte      INTEGER NOT NULL,
  end_byte        INTEGER NOT NULL,
  start_row       INTEGER NOT NULL,
  start_col       INTEGER NOT NULL,
  end_row         INTEGER NOT NULL,
  end_col         INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_files_language ON files(language);
CREATE INDEX IF NOT EXISTS idx_nodes_file ON nodes(file_id);
CREATE INDEX IF NOT EXISTS idx_nodes_type ON nodes(type);
CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id);
`

// FileRecord is a row in the files table.
type FileRecord struct {
	ID         int64
	Path       string
	Language   string
	Hash       string
	NodeCount  int
	ErrorCount int
	ParsedAt   time.Time
}

// NodeRecord describes one node of a flattened tree, in document order.
// ParentIdx is the slice index of the parent record, -1 for the root;
// because the flattening is pre-order, a parent always precedes its
// children.
type NodeRecord struct {
	ParentIdx int
	Type      string
	Field     string
	Named     bool
	Missing   bool
	Error     bool
	Depth     int
	StartByte int
	EndByte   int
	StartRow  int
	StartCol  int
	EndRow    int
	EndCol    int
}

// NodeRow is a nodes-table row read back with its database ids.
// ParentID is 0 for the root.
type NodeRow struct {
	ID        int64
	ParentID  int64
	Type      string
	Field     string
	Named     bool
	Missing   bool
	Error     bool
	Depth     int
	StartByte int
	EndByte   int
	StartRow  int
	StartCol  int
	EndRow    int
	EndCol    int
}

// InsertFileTree transactionally replaces the stored tree for path:
// any previous rows for the file are deleted, a new file row is written,
// and the node records are inserted with ParentIdx mapped to database
// ids. Returns the new file id.
func (s *Store) InsertFileTree(path, language, hash string, records []NodeRecord) (int64, error) {
	errorCount := 0
	for _, r := range records {
		if r.Error || r.Missing {
			errorCount++
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var oldID int64
	err = tx.QueryRow("SELECT id FROM files WHERE path = ?", path).Scan(&oldID)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return 0, fmt.Errorf("lookup file: %w", err)
	default:
		if _, err := tx.Exec("DELETE FROM nodes WHERE file_id = ?", oldID); err != nil {
			return 0, fmt.Errorf("delete old nodes: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM files WHERE id = ?", oldID); err != nil {
			return 0, fmt.Errorf("delete old file: %w", err)
		}
	}

	res, err := tx.Exec(
		"INSERT INTO files (path, language, hash, node_count, error_count, parsed_at) VALUES (?, ?, ?, ?, ?, ?)",
		path, language, hash, len(records), errorCount, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert file: %w", err)
	}
	fileID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("file id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO nodes
		(file_id, parent_id, type, field, named, missing, error, depth,
		 start_byte, end_byte, start_row, start_col, end_row, end_col)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	dbIDs := make([]int64, len(records))
	for i, r := range records {
		var parentID any
		if r.ParentIdx >= 0 {
			parentID = dbIDs[r.ParentIdx]
		}
		var field any
		if r.Field != "" {
			field = r.Field
		}
		ires, err := stmt.Exec(fileID, parentID, r.Type, field,
			r.Named, r.Missing, r.Error, r.Depth,
			r.StartByte, r.EndByte, r.StartRow, r.StartCol, r.EndRow, r.EndCol)
		if err != nil {
			return 0, fmt.Errorf("insert node %d: %w", i, err)
		}
		dbIDs[i], err = ires.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("node id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return fileID, nil
}

// FileByPath returns the file row for path, or nil if the file has not
// been scanned.
func (s *Store) FileByPath(path string) (*FileRecord, error) {
	var f FileRecord
	err := s.db.QueryRow(
		"SELECT id, path, language, hash, node_count, error_count, parsed_at FROM files WHERE path = ?",
		path,
	).Scan(&f.ID, &f.Path, &f.Language, &f.Hash, &f.NodeCount, &f.ErrorCount, &f.ParsedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return &f, nil
}

// NodesForFile returns the stored nodes for a file in document order.
func (s *Store) NodesForFile(fileID int64) ([]NodeRow, error) {
	rows, err := s.db.Query(`SELECT id, parent_id, type, field, named, missing, error, depth,
		start_byte, end_byte, start_row, start_col, end_row, end_col
		FROM nodes WHERE file_id = ? ORDER BY id`, fileID)
	if err != nil {
		return nil, fmt.Errorf("nodes for file: %w", err)
	}
	defer rows.Close()

	var out []NodeRow
	for rows.Next() {
		var n NodeRow
		var parentID sql.NullInt64
		var field sql.NullString
		if err := rows.Scan(&n.ID, &parentID, &n.Type, &field, &n.Named, &n.Missing, &n.Error, &n.Depth,
			&n.StartByte, &n.EndByte, &n.StartRow, &n.StartCol, &n.EndRow, &n.EndCol); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		n.ParentID = parentID.Int64
		n.Field = field.String
		out = append(out, n)
	}
	return out, rows.Err()
}

// Summary aggregates counts across the whole database.
type Summary struct {
	Files      int
	Nodes      int
	Errored    int // files containing at least one error or missing node
	MaxDepth   int
	ByLanguage map[string]int
}

// Summary computes database-wide totals.
func (s *Store) Summary() (*Summary, error) {
	sum := &Summary{ByLanguage: make(map[string]int)}

	err := s.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(node_count), 0), COALESCE(SUM(error_count > 0), 0) FROM files",
	).Scan(&sum.Files, &sum.Nodes, &sum.Errored)
	if err != nil {
		return nil, fmt.Errorf("summary files: %w", err)
	}

	err = s.db.QueryRow("SELECT COALESCE(MAX(depth), 0) FROM nodes").Scan(&sum.MaxDepth)
	if err != nil {
		return nil, fmt.Errorf("summary depth: %w", err)
	}

	rows, err := s.db.Query("SELECT language, COUNT(*) FROM files GROUP BY language")
	if err != nil {
		return nil, fmt.Errorf("summary languages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var lang string
		var count int
		if err := rows.Scan(&lang, &count); err != nil {
			return nil, fmt.Errorf("scan language count: %w", err)
		}
		sum.ByLanguage[lang] = count
	}
	return sum, rows.Err()
}

// TypeCount pairs a node type with how often it occurs.
type TypeCount struct {
	Type  string
	Count int
}

// TopTypes returns the most frequent named node types, most common first.
func (s *Store) TopTypes(limit int) ([]TypeCount, error) {
	rows, err := s.db.Query(
		"SELECT type, COUNT(*) AS n FROM nodes WHERE named GROUP BY type ORDER BY n DESC, type ASC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top types: %w", err)
	}
	defer rows.Close()

	var out []TypeCount
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan type count: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// FilesWithErrors returns the files whose trees contain error or missing
// nodes, ordered by path.
func (s *Store) FilesWithErrors() ([]FileRecord, error) {
	rows, err := s.db.Query(
		"SELECT id, path, language, hash, node_count, error_count, parsed_at FROM files WHERE error_count > 0 ORDER BY path",
	)
	if err != nil {
		return nil, fmt.Errorf("files with errors: %w", err)
	}
	defer rows.Close()

	var out []FileRecord
	for rows.Next() {
		var f FileRecord
		if err := rows.Scan(&f.ID, &f.Path, &f.Language, &f.Hash, &f.NodeCount, &f.ErrorCount, &f.ParsedAt); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
