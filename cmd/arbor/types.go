package main

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command string `json:"command"`
	Results any    `json:"results"`
	Error   string `json:"error,omitempty"`
}

// CLIParse is the result of parsing one file.
type CLIParse struct {
	File      string   `json:"file"`
	Language  string   `json:"language"`
	HasError  bool     `json:"has_error"`
	NodeCount int      `json:"node_count"`
	Sexpr     string   `json:"sexpr"`
	Root      *CLINode `json:"root"`
}

// CLINode is a JSON-friendly syntax tree node. Text is set for leaves only.
type CLINode struct {
	Type      string     `json:"type"`
	Field     string     `json:"field,omitempty"`
	Named     bool       `json:"named"`
	Missing   bool       `json:"missing,omitempty"`
	Error     bool       `json:"error,omitempty"`
	StartByte int        `json:"start_byte"`
	EndByte   int        `json:"end_byte"`
	StartRow  int        `json:"start_row"`
	StartCol  int        `json:"start_col"`
	EndRow    int        `json:"end_row"`
	EndCol    int        `json:"end_col"`
	Text      string     `json:"text,omitempty"`
	Children  []*CLINode `json:"children,omitempty"`
}

// CLIGrammar is a grammar's symbol table.
type CLIGrammar struct {
	Language    string      `json:"language"`
	Version     int         `json:"version"`
	SymbolCount int         `json:"symbol_count"`
	Symbols     []CLISymbol `json:"symbols"`
}

// CLISymbol is one row of a grammar's symbol table.
type CLISymbol struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Named bool   `json:"named"`
}

// CLIStats is a database-wide index summary.
type CLIStats struct {
	Files      int            `json:"files"`
	Nodes      int            `json:"nodes"`
	Errored    int            `json:"errored"`
	MaxDepth   int            `json:"max_depth"`
	Languages  map[string]int `json:"languages"`
	TopTypes   []CLITypeCount `json:"top_types,omitempty"`
	ErrorFiles []CLIFile      `json:"error_files,omitempty"`
}

// CLITypeCount pairs a node type with its occurrence count.
type CLITypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// CLIFile is a JSON-friendly scanned file representation.
type CLIFile struct {
	ID         int64  `json:"id"`
	Path       string `json:"path"`
	Language   string `json:"language"`
	NodeCount  int    `json:"node_count"`
	ErrorCount int    `json:"error_count"`
}
